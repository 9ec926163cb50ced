// Package merchant maps cleaned transaction descriptions to canonical
// merchant names.
package merchant

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Unknown is returned when no usable merchant name can be derived.
const Unknown = "Unknown"

var (
	// Wallet and point-of-sale markers printed ahead of the merchant
	paymentPrefixPattern = regexp.MustCompile(`(?i)^(?:(?:AplPay|Apply|Apay)\s+|(?:PAY|TST|POS)\*\s*)`)
	// Trailing "<number> <2-letter code>" location suffix: "00- TX", "4521 AR"
	locationSuffixPattern = regexp.MustCompile(`\s+\d{2,}[-\s]*\w{2}\s*$`)
	// Long reference-number runs and everything after them
	referenceTailPattern = regexp.MustCompile(`\s+\d{9,}.*$`)
	// Leading run of uppercase words ending at a number, hyphen or "00":
	// "BAYLOR SURGICARE AT PLA 214-2913000"
	leadingNamePattern = regexp.MustCompile(`^([A-Z][A-Z\s&/]+?)(?:\s+\d+|-|00|$)`)
	tokenSeparator     = regexp.MustCompile(`[\s#\-\*]`)
	stateCodePattern   = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Extractor resolves merchant names against an ordered rule table. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	rules []Rule
}

// New returns an Extractor trying rules in the given order.
func New(rules []Rule) *Extractor {
	r := make([]Rule, len(rules))
	copy(r, rules)
	return &Extractor{rules: r}
}

// NewDefault returns an Extractor over the built-in table.
func NewDefault() *Extractor {
	return New(DefaultRules())
}

// Extract returns the canonical merchant for a cleaned description. It never
// returns an empty string.
func (e *Extractor) Extract(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return Unknown
	}

	for _, r := range e.rules {
		if r.Pattern.MatchString(description) {
			return r.Name
		}
	}

	if name := heuristicName(description); name != "" {
		return name
	}
	return Unknown
}

// Apply sets the merchant on every transaction.
func (e *Extractor) Apply(txns []models.Transaction) {
	for i := range txns {
		txns[i].Merchant = e.Extract(txns[i].Description)
	}
}

func heuristicName(description string) string {
	cleaned := paymentPrefixPattern.ReplaceAllString(description, "")
	cleaned = locationSuffixPattern.ReplaceAllString(cleaned, "")
	cleaned = referenceTailPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if m := leadingNamePattern.FindStringSubmatch(cleaned); m != nil {
		if name := strings.TrimSpace(m[1]); len(name) > 3 {
			return strings.Join(strings.Fields(name), " ")
		}
	}

	parts := tokenSeparator.Split(cleaned, -1)
	var kept []string
	for _, p := range parts {
		if len(p) <= 2 || isDigits(p) || stateCodePattern.MatchString(p) {
			continue
		}
		kept = append(kept, p)
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) > 0 {
		return strings.Join(kept, " ")
	}

	if len(parts) > 0 && len(parts[0]) > 2 {
		return parts[0]
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
