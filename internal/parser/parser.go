package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// ErrEmptyStatement is returned when no text was extracted for a statement.
var ErrEmptyStatement = errors.New("statement text is empty")

// Strategy parses one issuer's statements.
type Strategy interface {
	// Type returns the issuer key.
	Type() models.BankType
	// BankName returns the issuer display name.
	BankName() string
	// Detect reports whether the statement text or filename belongs to this issuer.
	Detect(text, filename string) bool
	// CardLabel returns the card product label for the statement.
	CardLabel(text, filename string) string
	// ParseTransactions extracts the statement's transactions.
	ParseTransactions(sc *models.StatementContext) *models.StatementInfo
}

// Options tunes the parsing heuristics.
type Options struct {
	// MinInlineYield is the inline-layout transaction count below which the
	// split layout is also tried. It is a heuristic, not a correctness bound.
	MinInlineYield int
	// SplitLookahead bounds how many lines after a split-layout date are read
	// as description.
	SplitLookahead int
	// SplitMaxParts bounds how many description lines are joined.
	SplitMaxParts int
	// FallbackYear and FallbackMonth stand in for a missing statement period.
	FallbackYear  int
	FallbackMonth time.Month
}

// DefaultOptions returns the stock heuristics.
func DefaultOptions() Options {
	return Options{
		MinInlineYield: 5,
		SplitLookahead: 8,
		SplitMaxParts:  3,
		FallbackYear:   time.Now().Year(),
		FallbackMonth:  time.December,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinInlineYield < 0 {
		o.MinInlineYield = 0
	}
	if o.SplitLookahead <= 0 {
		o.SplitLookahead = d.SplitLookahead
	}
	if o.SplitMaxParts <= 0 {
		o.SplitMaxParts = d.SplitMaxParts
	}
	if o.FallbackYear <= 0 {
		o.FallbackYear = d.FallbackYear
	}
	if o.FallbackMonth < time.January || o.FallbackMonth > time.December {
		o.FallbackMonth = d.FallbackMonth
	}
	return o
}

// Strategies returns the registered issuer strategies in detection priority
// order. The first entry doubles as the default.
func Strategies(opts Options) []Strategy {
	opts = opts.withDefaults()
	return []Strategy{
		&AmexParser{opts: opts},
		&BankOfAmericaParser{opts: opts},
	}
}

// New returns the strategy for the given issuer key.
func New(bankType models.BankType, opts Options) (Strategy, error) {
	for _, s := range Strategies(opts) {
		if s.Type() == bankType {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unsupported bank type: %q", bankType)
}

// Detect returns the first strategy whose predicate matches, or the first
// registered strategy when none does. It never fails.
func Detect(strategies []Strategy, text, filename string) (Strategy, bool) {
	for _, s := range strategies {
		if s.Detect(text, filename) {
			return s, true
		}
	}
	return strategies[0], false
}

// ParseStatement runs format detection and the selected strategy over one
// statement's extracted text. An empty bankType means auto-detect.
func ParseStatement(text, filename string, bankType models.BankType, opts Options) (*models.StatementInfo, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyStatement)
	}
	opts = opts.withDefaults()

	var s Strategy
	if bankType != "" {
		var err error
		if s, err = New(bankType, opts); err != nil {
			return nil, err
		}
	} else {
		s, _ = Detect(Strategies(opts), text, filename)
	}

	lines := Lines(text)
	sc := &models.StatementContext{
		Filename: filename,
		Bank:     s.BankName(),
		Card:     s.CardLabel(text, filename),
		Period:   ResolvePeriod(lines, opts),
		Lines:    lines,
	}

	info := s.ParseTransactions(sc)
	info.Filename = filename
	info.Bank = s.Type()
	info.BankName = sc.Bank
	info.Card = sc.Card
	info.Period = sc.Period
	return info, nil
}

// firstLine returns the first non-blank line of text.
func firstLine(text string) string {
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
