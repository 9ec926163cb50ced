// Package cmd defines the command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/card-statement-parser/internal/config"
	"github.com/insightdelivered/card-statement-parser/internal/logger"
)

var cfgFile string

var verbose bool

// cfg is loaded once per invocation by the root command's pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "statements",
	Short: "Extract transactions from credit card statement PDFs",
	Long: `statements turns American Express and Bank of America credit card statements
into a single newest-first transaction list.

Example Usage:
  statements parse                        # Parse every PDF in input_dir
  statements parse jan.pdf feb.pdf        # Parse specific files
  statements parse --format json,csv,xlsx # Choose output formats
  statements serve                        # Start the HTTP API`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		if err := logger.SetLevel(level); err != nil {
			return err
		}

		cmd.SetContext(logger.WithContext(cmd.Context(), logger.New()))
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file; a missing file means defaults",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
