package categorize

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// CategoryTotal is the spend for one category.
type CategoryTotal struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Summarize totals categorized transactions per category, largest total first.
// Uncategorized transactions count as "other".
func Summarize(txns []models.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txns {
		id, name := t.Category, t.CategoryName
		if id == "" {
			id, name = OtherID, "Other"
		}
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, CategoryTotal{ID: id, Name: name, Total: decimal.Zero})
		}
		out[i].Count++
		out[i].Total = out[i].Total.Add(t.Amount)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Total.Cmp(out[b].Total); c != 0 {
			return c > 0
		}
		return out[a].ID < out[b].ID
	})
	return out
}
