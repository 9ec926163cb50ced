package parser

import (
	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Candidate outcomes recorded in debug lines.
const (
	resultParsed    = "parsed"
	resultPayment   = "payment"
	resultNoAmount  = "no-amount"
	resultShortDesc = "short-description"
	resultDuplicate = "duplicate"
	resultBadDate   = "bad-date"
)

// collector accumulates one statement's transactions, suppressing repeats of
// the same (date, description, amount) key. It is never shared between
// statements.
type collector struct {
	seen       map[string]struct{}
	txns       []models.Transaction
	duplicates int
	dropped    int
	debug      []models.DebugLine
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

func dedupKey(t models.Transaction) string {
	return t.Date.Format("2006-01-02") + "|" + t.Description + "|" + t.Amount.StringFixed(2)
}

// add keeps the transaction unless its key was already seen. Later duplicates
// are counted, not reported as failures.
func (c *collector) add(lineNum int, line, method string, t models.Transaction) bool {
	key := dedupKey(t)
	if _, ok := c.seen[key]; ok {
		c.duplicates++
		c.note(lineNum, line, resultDuplicate, method)
		return false
	}
	c.seen[key] = struct{}{}
	c.txns = append(c.txns, t)
	c.note(lineNum, line, resultParsed, method)
	return true
}

// drop records a candidate that could not become a transaction.
func (c *collector) drop(lineNum int, line, reason, method string) {
	c.dropped++
	c.note(lineNum, line, reason, method)
}

func (c *collector) note(lineNum int, line, result, method string) {
	if len(line) > 120 {
		line = line[:120] + "..."
	}
	c.debug = append(c.debug, models.DebugLine{
		LineNum: lineNum + 1,
		Text:    line,
		Result:  result,
		Method:  method,
	})
}

// fill copies the collected state into info.
func (c *collector) fill(info *models.StatementInfo) {
	info.Transactions = c.txns
	info.Duplicates = c.duplicates
	info.Dropped = c.dropped
	info.DebugLines = c.debug
}
