package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// BankOfAmericaParser handles Bank of America credit card statements.
//
// Transactions are printed one per line in a fixed-column layout:
//
//	Transaction date | Posting date | Description City State | Reference | Account | Amount
//	Example: "08/28 08/30 SUNGLASS HUT 5167 ROGERS AR 9098 2361 215.72"
//
// Only rows inside the "Purchases and Adjustments" section are read.
type BankOfAmericaParser struct {
	opts Options
}

const layoutFixed = "fixed-column"

var (
	bofaRowPattern = regexp.MustCompile(
		`^(\d{2}/\d{2})\s+(\d{2}/\d{2})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s*(CR|-)?$`,
	)
	bofaStateCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

var bofaSectionEnd = []string{"TOTAL PURCHASES", "Interest Charged", "Fees Charged", "Page "}

// Checked in order against the statement header, so the longer product name
// must precede the one it contains.
var bofaCardNames = []struct {
	marker string
	label  string
}{
	{"Visa Signature", "Bank of America Visa Signature"},
	{"Customized Cash Rewards", "Bank of America Customized Cash Rewards"},
	{"Cash Rewards", "Bank of America Cash Rewards"},
	{"Travel Rewards", "Bank of America Travel Rewards"},
}

// bofaDescriptionPrefix bounds the fallback description when no state code is found.
const bofaDescriptionPrefix = 4

func (p *BankOfAmericaParser) Type() models.BankType {
	return models.BankOfAmerica
}

func (p *BankOfAmericaParser) BankName() string {
	return "Bank of America"
}

func (p *BankOfAmericaParser) Detect(text, filename string) bool {
	return containsAny(text, []string{"bank of america", "bankofamerica"}) ||
		containsAny(filename, []string{"bofa"})
}

func (p *BankOfAmericaParser) CardLabel(text, filename string) string {
	header := text
	if len(header) > 1000 {
		header = header[:1000]
	}
	for _, c := range bofaCardNames {
		if strings.Contains(header, c.marker) {
			return c.label
		}
	}
	return "Bank of America Credit Card"
}

func (p *BankOfAmericaParser) ParseTransactions(sc *models.StatementContext) *models.StatementInfo {
	info := &models.StatementInfo{}
	c := newCollector()

	start := bofaSectionStart(sc.Lines)
	if start < 0 {
		c.fill(info)
		return info
	}

	for i := start; i < len(sc.Lines); i++ {
		line := sc.Lines[i]
		if containsExact(line, bofaSectionEnd) {
			break
		}

		m := bofaRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		amount, err := parseMoney(m[4])
		if err != nil {
			c.drop(i, line, resultNoAmount, layoutFixed)
			continue
		}
		notation := NotationPlain
		switch {
		case m[5] != "":
			amount, notation = amount.Neg(), NotationTrailingCR
		case strings.HasPrefix(m[4], "-"):
			amount, notation = amount.Neg(), NotationLeadingMinus
		}

		date, ok := ResolveDate(m[1], sc.Period)
		if !ok {
			c.drop(i, line, resultBadDate, layoutFixed)
			continue
		}

		raw := bofaDescription(strings.Fields(m[3]))
		desc := NormalizeDescription(raw)
		if len(desc) < minDescriptionLen {
			c.drop(i, line, resultShortDesc, layoutFixed)
			continue
		}

		c.add(i, line, layoutFixed+"/"+string(notation), models.Transaction{
			Date:           date,
			RawDescription: raw,
			Description:    desc,
			Amount:         amount,
			Bank:           sc.Bank,
			Card:           sc.Card,
		})
	}

	if len(c.txns) > 0 {
		info.Layouts = []string{layoutFixed}
	}
	c.fill(info)
	return info
}

// bofaSectionStart returns the index of the first line after the
// "Purchases and Adjustments" heading, or -1. Summary lines carrying the same
// words plus a dollar total are not the heading.
func bofaSectionStart(lines []string) int {
	for i, line := range lines {
		if strings.Contains(line, "Purchases and Adjustments") && !dollarAmountPattern.MatchString(line) {
			return i + 1
		}
	}
	return -1
}

// bofaDescription cuts the city, state and trailing reference tokens off a
// row. The state code is a two-letter uppercase token with at least one
// description token and a city token before it. The right-most state code
// followed only by numeric tokens is preferred, since merchant names can
// themselves hold short uppercase words ("AT", "OF"). Without one the first
// state-like token is used, and without any a bounded prefix.
func bofaDescription(parts []string) string {
	first, best := -1, -1
	for j := 2; j < len(parts); j++ {
		if !bofaStateCodePattern.MatchString(parts[j]) {
			continue
		}
		if first < 0 {
			first = j
		}
		if allDigits(parts[j+1:]) {
			best = j
		}
	}

	switch {
	case best >= 0:
		return strings.Join(parts[:best-1], " ")
	case first >= 0:
		return strings.Join(parts[:first-1], " ")
	default:
		return strings.Join(parts[:min(bofaDescriptionPrefix, len(parts))], " ")
	}
}

func allDigits(parts []string) bool {
	for _, p := range parts {
		if !isDigits(p) {
			return false
		}
	}
	return true
}

// containsExact reports whether line contains any marker, case-sensitively.
func containsExact(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
