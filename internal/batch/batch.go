// Package batch parses many statements in parallel and merges their
// transactions into one reverse-chronological list.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/card-statement-parser/internal/merchant"
	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
)

// Statement is one source document's extracted text. Err carries an upstream
// extraction failure; such statements are skipped.
type Statement struct {
	Filename string
	Text     string
	Err      error
}

// ExtractFunc turns a file path into statement text.
type ExtractFunc func(ctx context.Context, path string) (string, error)

// Skipped records a statement that produced no result.
type Skipped struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Report summarizes one batch run.
type Report struct {
	RunID        uuid.UUID
	Processed    int
	Skipped      []Skipped
	Duplicates   int
	Dropped      int
	Statements   []*models.StatementInfo
	Transactions []models.Transaction
}

// Runner parses statements with a bounded number of workers.
type Runner struct {
	Options   parser.Options
	Bank      models.BankType // empty means auto-detect per statement
	Merchants *merchant.Extractor
	Workers   int
	Logger    zerolog.Logger
}

// NewRunner returns a Runner with the default merchant table.
func NewRunner(opts parser.Options, workers int, log zerolog.Logger) *Runner {
	return &Runner{
		Options:   opts,
		Merchants: merchant.NewDefault(),
		Workers:   workers,
		Logger:    log,
	}
}

type result struct {
	filename string
	info     *models.StatementInfo
	err      error
}

type loadFunc func(ctx context.Context, i int) (string, error)

// Run parses already-extracted statements.
func (r *Runner) Run(ctx context.Context, stmts []Statement) *Report {
	names := make([]string, len(stmts))
	for i, s := range stmts {
		names[i] = s.Filename
	}
	return r.run(ctx, names, func(_ context.Context, i int) (string, error) {
		return stmts[i].Text, stmts[i].Err
	})
}

// RunFiles extracts and parses files, running extraction on the workers too.
func (r *Runner) RunFiles(ctx context.Context, paths []string, extract ExtractFunc) *Report {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return r.run(ctx, names, func(ctx context.Context, i int) (string, error) {
		return extract(ctx, paths[i])
	})
}

func (r *Runner) run(ctx context.Context, names []string, load loadFunc) *Report {
	report := &Report{RunID: uuid.New()}
	log := r.Logger.With().Str("run_id", report.RunID.String()).Logger()

	results := make([]result, len(names))
	var g errgroup.Group
	g.SetLimit(max(r.Workers, 1))
	for i, name := range names {
		g.Go(func() error {
			results[i] = r.process(ctx, i, name, load)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.err != nil {
			log.Warn().Err(res.err).Str("file", res.filename).Msg("Statement skipped")
			report.Skipped = append(report.Skipped, Skipped{Filename: res.filename, Reason: res.err.Error()})
			continue
		}

		info := res.info
		log.Info().
			Str("file", info.Filename).
			Str("bank", string(info.Bank)).
			Str("card", info.Card).
			Strs("layouts", info.Layouts).
			Int("transactions", len(info.Transactions)).
			Int("duplicates", info.Duplicates).
			Int("dropped", info.Dropped).
			Msg("Statement parsed")

		report.Processed++
		report.Duplicates += info.Duplicates
		report.Dropped += info.Dropped
		report.Statements = append(report.Statements, info)
		report.Transactions = append(report.Transactions, info.Transactions...)
	}

	if r.Merchants != nil {
		r.Merchants.Apply(report.Transactions)
	}
	SortNewestFirst(report.Transactions)

	log.Info().
		Int("processed", report.Processed).
		Int("skipped", len(report.Skipped)).
		Int("transactions", len(report.Transactions)).
		Msg("Batch complete")

	return report
}

// process handles one statement. Panics are turned into a skip so a single
// bad statement cannot take down the batch.
func (r *Runner) process(ctx context.Context, i int, filename string, load loadFunc) (res result) {
	res.filename = filename
	defer func() {
		if rec := recover(); rec != nil {
			res.info = nil
			res.err = fmt.Errorf("panic while parsing: %v", rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}

	text, err := load(ctx, i)
	if err != nil {
		res.err = fmt.Errorf("extract text: %w", err)
		return res
	}

	info, err := parser.ParseStatement(text, filename, r.Bank, r.Options)
	if err != nil {
		res.err = err
		return res
	}
	res.info = info
	return res
}

// SortNewestFirst orders transactions reverse-chronologically. Ties keep their
// merge order, which is statement input order then line-scan order.
func SortNewestFirst(txns []models.Transaction) {
	slices.SortStableFunc(txns, func(a, b models.Transaction) int {
		return b.Date.Compare(a.Date)
	})
}
