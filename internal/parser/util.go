package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date patterns found in US card statements.
var (
	// MM/DD/YY or MM/DD/YYYY at the start of a line, followed by text
	inlineDatePattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+)$`)
	// A line holding nothing but a full date
	dateOnlyPattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})$`)
	// A line holding nothing but a dollar amount, optionally signed
	amountOnlyPattern = regexp.MustCompile(`^(-?\$[\d,]+\.\d{2})$`)
	// A dollar amount anywhere in a line, used to reject section totals
	dollarAmountPattern = regexp.MustCompile(`\$[\d,]+\.\d{2}`)
)

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"jun": time.June, "jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// lookupMonth maps an English month name or abbreviation to its number.
func lookupMonth(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSuffix(name, "."))]
	return m, ok
}

// Lines splits extracted statement text into trimmed lines. Blank lines are kept
// so that positional lookahead matches the physical layout.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = normalizeLine(l)
	}
	return lines
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	return strings.TrimSpace(line)
}

// startsWithDate checks if a line begins with a slash date followed by text.
func startsWithDate(line string) bool {
	return inlineDatePattern.MatchString(line)
}

// isAmountOrDateLine reports whether a line is a bare amount or a bare date.
func isAmountOrDateLine(line string) bool {
	return amountOnlyPattern.MatchString(line) || dateOnlyPattern.MatchString(line)
}

// containsAny reports whether text contains any needle, ignoring case.
func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if needle != "" && strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
