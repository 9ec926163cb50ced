package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

var baseColumns = []string{"date", "description", "amount", "bank", "card", "merchant"}

var categoryColumns = []string{"category", "category_name"}

// CSVWriter writes transactions as CSV with the interchange field names.
type CSVWriter struct {
	// IncludeHeader writes the column name row first.
	IncludeHeader bool
}

func (w *CSVWriter) Extension() string {
	return ".csv"
}

// Write writes transactions in CSV format to the given writer. Category
// columns are added when any transaction has been categorized.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	writer := csv.NewWriter(out)

	records := models.Records(txns)
	withCategories := hasCategories(records)

	if w.IncludeHeader {
		if err := writer.Write(columns(withCategories)); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, r := range records {
		if err := writer.Write(row(r, withCategories)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func columns(withCategories bool) []string {
	cols := append([]string{}, baseColumns...)
	if withCategories {
		cols = append(cols, categoryColumns...)
	}
	return cols
}

func row(r models.Record, withCategories bool) []string {
	merchant := ""
	if r.Merchant != nil {
		merchant = *r.Merchant
	}
	out := []string{r.Date, r.Description, r.Amount, r.Bank, r.Card, merchant}
	if withCategories {
		out = append(out, r.Category, r.CategoryName)
	}
	return out
}

func hasCategories(records []models.Record) bool {
	for _, r := range records {
		if r.Category != "" || r.CategoryName != "" {
			return true
		}
	}
	return false
}
