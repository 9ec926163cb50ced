package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

var (
	// "Closing Date 09/20/2025", "Statement Closing Date: 9/20/25"
	closingDatePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`)
	// "August 21 - September 20, 2025" (hyphen, en dash or em dash)
	periodLinePattern = regexp.MustCompile(`([A-Za-z]+)\.?\s+\d{1,2}\s*[-–—]\s*([A-Za-z]+)\.?\s+\d{1,2},\s*(\d{4})`)
	// MM/DD, MM/DD/YY or MM/DD/YYYY
	dateTokenPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2}|\d{4}))?$`)
)

// ResolvePeriod locates the statement's closing month and year from its header.
// An explicit closing-date line wins over a "Month D - Month D, YYYY" period line;
// the first line carrying either decides. Without either, the configured fallback
// is used.
func ResolvePeriod(lines []string, opts Options) models.StatementPeriod {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "closing date") {
			if m := closingDatePattern.FindStringSubmatch(line); m != nil {
				month := atoi(m[1])
				if month >= 1 && month <= 12 {
					return models.StatementPeriod{
						Month:  time.Month(month),
						Year:   expandYear(m[3]),
						Source: "closing-date",
					}
				}
			}
		}
		if m := periodLinePattern.FindStringSubmatch(line); m != nil {
			if month, ok := lookupMonth(m[2]); ok {
				return models.StatementPeriod{
					Month:  month,
					Year:   atoi(m[3]),
					Source: "period-line",
				}
			}
		}
	}
	return models.StatementPeriod{
		Month:  opts.FallbackMonth,
		Year:   opts.FallbackYear,
		Source: "fallback",
	}
}

// ResolveDate turns a statement date token into a full date. Tokens with a year
// keep it (two-digit years are taken as 20YY). Tokens without one take the
// statement year, or the previous year when their month falls after the closing
// month, meaning the billing period wrapped over New Year.
func ResolveDate(token string, period models.StatementPeriod) (time.Time, bool) {
	m := dateTokenPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return time.Time{}, false
	}
	month, day := atoi(m[1]), atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := period.Year
	if m[3] != "" {
		year = expandYear(m[3])
	} else if time.Month(month) > period.Month {
		year--
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject dates time.Date normalized, such as 02/30.
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func expandYear(s string) int {
	y := atoi(s)
	if len(s) == 2 {
		y += 2000
	}
	return y
}
