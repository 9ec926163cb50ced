package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount notations, in the order they are tried on a candidate line.
var (
	// "8009256278-$2,436.94": a digit run glued to a hyphenated dollar amount is a credit.
	// Checked first because it otherwise reads as reference-number noise.
	gluedCreditPattern = regexp.MustCompile(`\d+-\$([\d,]+\.\d{2})`)
	// "45.00 CR", "$45.00-": trailing credit marker
	trailingCreditPattern = regexp.MustCompile(`(-?\$?[\d,]+\.\d{2})-?\s*(CR|-)\s*$`)
	// "-$53.97", "$53.97", "+14158799686$21.28⧫"
	signedAmountPattern = regexp.MustCompile(`(-?)\$?([\d,]+\.\d{2})`)
)

// Notation names the amount notation that matched a line.
type Notation string

const (
	NotationNone         Notation = ""
	NotationGluedCredit  Notation = "glued-credit"
	NotationTrailingCR   Notation = "trailing-credit"
	NotationLeadingMinus Notation = "leading-minus"
	NotationPlain        Notation = "plain"
)

// ResolveAmount finds the first amount on a line and returns it signed:
// negative for credits and refunds, positive for purchases. Only one notation
// is taken per line.
func ResolveAmount(line string) (decimal.Decimal, Notation, bool) {
	if m := gluedCreditPattern.FindStringSubmatch(line); m != nil {
		if amt, err := parseMoney(m[1]); err == nil {
			return amt.Neg(), NotationGluedCredit, true
		}
	}

	if m := trailingCreditPattern.FindStringSubmatch(line); m != nil {
		if amt, err := parseMoney(m[1]); err == nil {
			return amt.Neg(), NotationTrailingCR, true
		}
	}

	if m := signedAmountPattern.FindStringSubmatch(line); m != nil {
		amt, err := parseMoney(m[2])
		if err != nil {
			return decimal.Zero, NotationNone, false
		}
		if m[1] == "-" {
			return amt.Neg(), NotationLeadingMinus, true
		}
		return amt, NotationPlain, true
	}

	return decimal.Zero, NotationNone, false
}

// parseMoney converts "$1,234.56" or "-1,234.56" to its unsigned value rounded
// to cents. Signs are applied by the caller.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "", "-", "", " ", "", "\u00A0", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d.Round(2), nil
}
