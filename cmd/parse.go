package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/batch"
	"github.com/insightdelivered/card-statement-parser/internal/categorize"
	"github.com/insightdelivered/card-statement-parser/internal/extractor"
	"github.com/insightdelivered/card-statement-parser/internal/logger"
	"github.com/insightdelivered/card-statement-parser/internal/merchant"
	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/writer"
)

// outputBase is the file name, without extension, of the merged output.
const outputBase = "all_transactions"

var (
	bankFlag      string
	outputDirFlag string
	formatFlag    []string
	workersFlag   int
	categorizeOn  bool
	overridesFlag string
	geminiFlag    string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file or directory ...]",
	Short: "Parse statements into one transaction list",
	Long: `The parse command extracts text from each statement (.pdf, or .txt holding
already extracted text), detects the issuer, and merges every transaction into
all_transactions.<format> in the output directory, newest first.

With no arguments the configured input_dir is scanned. A statement that cannot
be read or parsed is reported and skipped; it never stops the run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&bankFlag, "bank", "", "Force an issuer: amex or bofa (auto-detected if omitted)")
	parseCmd.Flags().StringVarP(&outputDirFlag, "output", "o", "", "Output directory (overrides output_dir)")
	parseCmd.Flags().StringSliceVarP(&formatFlag, "format", "f", nil, "Output formats: json, csv, xlsx (overrides output_formats)")
	parseCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Statements parsed in parallel (overrides workers)")
	parseCmd.Flags().BoolVar(&categorizeOn, "categorize", false, "Assign spending categories")
	parseCmd.Flags().StringVar(&overridesFlag, "overrides", "", "Merchant category overrides, .json or corrections .xlsx")
	parseCmd.Flags().StringVar(&geminiFlag, "gemini-model", "", "Ask this Gemini model for categories not covered by overrides")
}

func runParse(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	ctx := cmd.Context()

	applyParseFlags()

	bank, err := models.ParseBankType(bankFlag)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{cfg.InputDir}
	}
	files, err := discoverInputFiles(inputs)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No statement files found.")
		return nil
	}

	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"files":   len(files),
		"workers": cfg.Workers,
	})
	log.Info().Msg("Parsing statements")

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	runner := &batch.Runner{
		Options:   cfg.ParserOptions(),
		Bank:      bank,
		Merchants: merchant.New(rules),
		Workers:   cfg.Workers,
		Logger:    log,
	}
	report := runner.RunFiles(ctx, files, extractor.ExtractFile)

	var summary []categorize.CategoryTotal
	if cfg.Categorize.Enabled {
		catalog := categorize.NewCatalog(categorize.DefaultCategories())
		c, err := buildCategorizer(ctx, catalog)
		if err != nil {
			return err
		}
		categorize.Apply(ctx, c, catalog, report.Transactions, log)
		summary = categorize.Summarize(report.Transactions)
	}

	paths, err := writer.WriteAll(cfg.OutputDir, outputBase, cfg.OutputFormats, report.Transactions)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	printReport(report, paths, summary, time.Since(startTime))
	return nil
}

// applyParseFlags lets explicitly set flags win over the config file.
func applyParseFlags() {
	if outputDirFlag != "" {
		cfg.OutputDir = outputDirFlag
	}
	if len(formatFlag) > 0 {
		cfg.OutputFormats = formatFlag
	}
	if workersFlag > 0 {
		cfg.Workers = workersFlag
	}
	if categorizeOn {
		cfg.Categorize.Enabled = true
	}
	if overridesFlag != "" {
		cfg.Categorize.OverridesFile = overridesFlag
	}
	if geminiFlag != "" {
		cfg.Categorize.GeminiModel = geminiFlag
	}
}

// buildCategorizer chains overrides, then Gemini when a model is configured,
// then the merchant name hints.
func buildCategorizer(ctx context.Context, catalog *categorize.Catalog) (categorize.Categorizer, error) {
	overrides, err := categorize.LoadOverrides(cfg.Categorize.OverridesFile, catalog)
	if err != nil {
		return nil, err
	}

	chain := categorize.Chain{overrides}
	if cfg.Categorize.GeminiModel != "" {
		g, err := categorize.NewGemini(ctx, cfg.Categorize.GeminiModel, catalog)
		if err != nil {
			return nil, err
		}
		chain = append(chain, g)
	}
	return append(chain, categorize.HintCategorizer{}), nil
}

// discoverInputFiles expands directories into their .pdf and .txt files.
// Explicit file arguments are kept whatever their extension, so ExtractFile
// can report unsupported ones.
func discoverInputFiles(inputs []string) ([]string, error) {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".pdf", ".txt":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func printReport(report *batch.Report, paths []string, summary []categorize.CategoryTotal, elapsed time.Duration) {
	fmt.Println("=== Parsing Complete ===")
	fmt.Printf("Run ID:          %s\n", report.RunID)
	fmt.Printf("Processed:       %d\n", report.Processed)
	fmt.Printf("Skipped:         %d\n", len(report.Skipped))
	fmt.Printf("Transactions:    %d\n", len(report.Transactions))
	fmt.Printf("Duplicates:      %d\n", report.Duplicates)
	fmt.Printf("Dropped:         %d\n", report.Dropped)
	fmt.Printf("Time elapsed:    %s\n", elapsed.Round(time.Millisecond))

	for _, s := range report.Skipped {
		fmt.Printf("  ✗ %s: %s\n", s.Filename, s.Reason)
	}

	if len(summary) > 0 {
		fmt.Println("\n=== Spending by Category ===")
		for _, c := range summary {
			fmt.Printf("%-28s %4d  %12s\n", c.Name, c.Count, c.Total.StringFixed(2))
		}
	}

	if len(paths) > 0 {
		fmt.Println()
		for _, p := range paths {
			fmt.Printf("Output: %s\n", p)
		}
	}
}
