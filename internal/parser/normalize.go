package parser

import (
	"regexp"
	"strings"
)

// minDescriptionLen is the shortest cleaned description kept; anything shorter
// is extraction noise.
const minDescriptionLen = 3

var (
	// Digit runs of 10+ characters, usually phone numbers: "+14158799686"
	phoneRunPattern = regexp.MustCompile(`\+?\d{10,}`)
	// Dashed or dotted phone numbers: "800-925-6278"
	phoneDashedPattern = regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]\d{4}\b`)
	// Alphanumeric reference followed by a 5-digit code: "J6UUVJIW 94103"
	referenceCodePattern = regexp.MustCompile(`\b([A-Z0-9]{6,})\s*(\d{5})\b`)
	// Tokenized wallet markers printed ahead of the merchant
	walletPrefixPattern = regexp.MustCompile(`(?i)^(?:AplPay|Apay|GglPay)\s+`)
	// Foreign-transaction diamond some issuers append
	diamondPattern = regexp.MustCompile(`[⧫◆]`)
)

// NormalizeDescription strips phone numbers, reference codes and wallet markers
// from a raw description and collapses whitespace.
func NormalizeDescription(raw string) string {
	s := diamondPattern.ReplaceAllString(raw, " ")
	s = phoneRunPattern.ReplaceAllString(s, "")
	s = phoneDashedPattern.ReplaceAllString(s, "")
	s = referenceCodePattern.ReplaceAllStringFunc(s, func(match string) string {
		m := referenceCodePattern.FindStringSubmatch(match)
		if m == nil || !isMixedAlphanumeric(m[1]) {
			return match
		}
		return ""
	})
	s = strings.Join(strings.Fields(s), " ")
	s = walletPrefixPattern.ReplaceAllString(s, "")
	return s
}

// isMixedAlphanumeric reports whether s holds both letters and digits.
func isMixedAlphanumeric(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			letter = true
		}
	}
	return letter && digit
}

// isPaymentDescription checks if a description is an account payment rather
// than spending.
func isPaymentDescription(desc string, keywords []string) bool {
	upper := strings.ToUpper(desc)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
