package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// AmexParser handles American Express card statements.
//
// Amex statements come in two physical layouts, and the same card may switch
// between them from one period to the next without any marker in the text.
//
// Inline-date layout: the date starts the description line and the amount sits
// on one of the next two lines.
//
//	08/15/24 WALMART.COM 800-925-6278
//	$45.23
//
// Split layout: a bare amount, then a bare date, then the description spread
// over the following lines.
//
//	-$53.97
//	08/16/24
//	AMAZON MARKETPLACE
//	SEATTLE WA
type AmexParser struct {
	opts Options
}

const (
	layoutInline = "inline-date"
	layoutSplit  = "split-amount-date"
)

var (
	inlinePaymentKeywords = []string{"THANK YOU", "MOBILE PAYMENT", "PAYMENT - THANK YOU", "AUTOPAY"}
	// The split layout has no inline description to tell a payment apart, so
	// any "PAYMENT" after the date marks one.
	splitPaymentKeywords = []string{"THANK YOU", "MOBILE PAYMENT", "PAYMENT", "AUTOPAY"}
)

// Card products, most specific first.
var amexCardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(American Express®?\s+Gold\s+Card)`),
	regexp.MustCompile(`(?i)(Blue Cash Everyday®?\s+from\s+American Express)`),
	regexp.MustCompile(`(?i)(American Express®?\s+(?:Platinum|Sapphire|Preferred|Reserve|Signature|Elite|Premier)(?:®|\s+Card)?)`),
}

var amexFilenameCards = []struct {
	keyword string
	label   string
}{
	{"gold", "American Express® Gold Card"},
	{"blue", "Blue Cash Everyday® from American Express"},
	{"platinum", "American Express® Platinum Card"},
}

func (p *AmexParser) Type() models.BankType {
	return models.BankAmex
}

func (p *AmexParser) BankName() string {
	return "American Express"
}

func (p *AmexParser) Detect(text, filename string) bool {
	return containsAny(text, []string{"american express"}) ||
		containsAny(filename, []string{"amex"})
}

func (p *AmexParser) CardLabel(text, filename string) string {
	header := firstLine(text)
	for _, pat := range amexCardPatterns {
		if m := pat.FindStringSubmatch(header); m != nil {
			return strings.Join(strings.Fields(m[1]), " ")
		}
	}

	lower := strings.ToLower(filename)
	for _, fc := range amexFilenameCards {
		if strings.Contains(lower, fc.keyword) {
			return fc.label
		}
	}
	return "American Express Card"
}

// ParseTransactions tries the inline-date layout first. When it yields fewer
// than MinInlineYield transactions the split layout is scanned as well and the
// results merged under the same dedup key.
func (p *AmexParser) ParseTransactions(sc *models.StatementContext) *models.StatementInfo {
	info := &models.StatementInfo{}
	c := newCollector()

	p.parseInline(sc, c)
	if len(c.txns) > 0 {
		info.Layouts = append(info.Layouts, layoutInline)
	}

	if len(c.txns) < p.opts.MinInlineYield {
		before := len(c.txns)
		p.parseSplit(sc, c)
		if len(c.txns) > before {
			info.Layouts = append(info.Layouts, layoutSplit)
		}
	}

	c.fill(info)
	return info
}

func (p *AmexParser) parseInline(sc *models.StatementContext, c *collector) {
	lines := sc.Lines
	for i, line := range lines {
		m := inlineDatePattern.FindStringSubmatch(line)
		if m == nil || strings.Contains(line, "Closing Date") {
			continue
		}

		raw := strings.TrimSpace(m[2])
		if isPaymentDescription(raw, inlinePaymentKeywords) {
			c.note(i, line, resultPayment, layoutInline)
			continue
		}

		amount, notation, ok := inlineAmount(lines, i)
		if !ok {
			c.drop(i, line, resultNoAmount, layoutInline)
			continue
		}

		date, ok := ResolveDate(m[1], sc.Period)
		if !ok {
			c.drop(i, line, resultBadDate, layoutInline)
			continue
		}

		desc := NormalizeDescription(raw)
		if len(desc) < minDescriptionLen {
			c.drop(i, line, resultShortDesc, layoutInline)
			continue
		}

		c.add(i, line, layoutInline+"/"+string(notation), models.Transaction{
			Date:           date,
			RawDescription: raw,
			Description:    desc,
			Amount:         amount,
			Bank:           sc.Bank,
			Card:           sc.Card,
		})
	}
}

// inlineAmount looks for the amount on the one or two lines after a dated
// description line. A line that starts another dated entry ends the search.
func inlineAmount(lines []string, i int) (decimal.Decimal, Notation, bool) {
	for j := i + 1; j <= i+2 && j < len(lines); j++ {
		next := lines[j]
		if startsWithDate(next) {
			break
		}
		if a, n, found := ResolveAmount(next); found {
			return a, n, true
		}
	}
	return decimal.Zero, NotationNone, false
}

func (p *AmexParser) parseSplit(sc *models.StatementContext, c *collector) {
	lines := sc.Lines
	for i := 0; i+1 < len(lines); i++ {
		am := amountOnlyPattern.FindStringSubmatch(lines[i])
		if am == nil {
			continue
		}
		dm := dateOnlyPattern.FindStringSubmatch(lines[i+1])
		if dm == nil {
			continue
		}

		if i+2 < len(lines) && isPaymentDescription(lines[i+2], splitPaymentKeywords) {
			c.note(i, lines[i+2], resultPayment, layoutSplit)
			continue
		}

		var parts []string
		end := min(i+2+p.opts.SplitLookahead, len(lines))
		for j := i + 2; j < end; j++ {
			descLine := lines[j]
			if isAmountOrDateLine(descLine) {
				break
			}
			if len(descLine) > 1 && !isDigits(descLine) {
				parts = append(parts, descLine)
			}
			if len(parts) >= p.opts.SplitMaxParts {
				break
			}
		}

		raw := strings.Join(parts, " ")
		entry := lines[i] + " " + lines[i+1] + " " + raw

		amount, notation, ok := ResolveAmount(am[1])
		if !ok {
			c.drop(i, entry, resultNoAmount, layoutSplit)
			continue
		}

		date, ok := ResolveDate(dm[1], sc.Period)
		if !ok {
			c.drop(i, entry, resultBadDate, layoutSplit)
			continue
		}

		desc := NormalizeDescription(raw)
		if len(desc) < minDescriptionLen {
			c.drop(i, entry, resultShortDesc, layoutSplit)
			continue
		}

		c.add(i, entry, layoutSplit+"/"+string(notation), models.Transaction{
			Date:           date,
			RawDescription: raw,
			Description:    desc,
			Amount:         amount,
			Bank:           sc.Bank,
			Card:           sc.Card,
		})
	}
}
