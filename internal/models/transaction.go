package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the interchange format for transaction dates (MM/DD/YYYY).
const DateLayout = "01/02/2006"

// Transaction represents a single card statement transaction.
type Transaction struct {
	Date           time.Time
	RawDescription string
	Description    string
	Amount         decimal.Decimal // negative = credit/refund, positive = purchase
	Bank           string
	Card           string
	Merchant       string // empty until the merchant stage runs

	// Set only by an external categorizer.
	Category     string
	CategoryName string
}

// IsCredit reports whether the transaction reduces spend.
func (t Transaction) IsCredit() bool {
	return t.Amount.IsNegative()
}

// Record is the field-homogeneous row handed to downstream consumers.
type Record struct {
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Amount       string  `json:"amount"`
	Bank         string  `json:"bank"`
	Card         string  `json:"card"`
	Merchant     *string `json:"merchant"`
	Category     string  `json:"category,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
}

// Record converts the transaction into its interchange form.
func (t Transaction) Record() Record {
	r := Record{
		Date:         t.Date.Format(DateLayout),
		Description:  t.Description,
		Amount:       t.Amount.StringFixed(2),
		Bank:         t.Bank,
		Card:         t.Card,
		Category:     t.Category,
		CategoryName: t.CategoryName,
	}
	if t.Merchant != "" {
		m := t.Merchant
		r.Merchant = &m
	}
	return r
}

// Records converts a slice of transactions, never returning nil.
func Records(txns []Transaction) []Record {
	out := make([]Record, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.Record())
	}
	return out
}

// BankType identifies an issuer parsing strategy.
type BankType string

const (
	BankAmex      BankType = "amex"
	BankOfAmerica BankType = "bofa"
)

// ParseBankType maps a user-supplied issuer name to a BankType. An empty name
// yields the empty BankType, meaning auto-detect.
func ParseBankType(name string) (BankType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "amex", "american express", "americanexpress":
		return BankAmex, nil
	case "bofa", "boa", "bank of america", "bankofamerica":
		return BankOfAmerica, nil
	default:
		return "", fmt.Errorf("unknown bank %q, supported: amex, bofa", name)
	}
}

// StatementPeriod is the closing month/year used to resolve dates without a year.
type StatementPeriod struct {
	Month  time.Month
	Year   int
	Source string // "closing-date", "period-line" or "fallback"
}

// StatementContext lives for the duration of one parse call.
type StatementContext struct {
	Filename string
	Bank     string
	Card     string
	Period   StatementPeriod
	Lines    []string
}

// DebugLine captures what the parser did with a candidate line.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"` // "parsed", "payment", "no-amount", "short-description", "duplicate", "bad-date"
	Method  string `json:"method,omitempty"`
}

// StatementInfo holds the outcome of parsing one statement.
type StatementInfo struct {
	Filename     string
	Bank         BankType
	BankName     string
	Card         string
	Period       StatementPeriod
	Layouts      []string // layouts that produced transactions, in attempt order
	Transactions []Transaction
	Duplicates   int
	Dropped      int
	DebugLines   []DebugLine
}
