package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Override pins a merchant to a category regardless of other categorizers.
type Override struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Overrides maps canonical merchant names to their pinned category.
type Overrides map[string]Override

// Categorize returns the pinned category for the transaction's merchant.
func (o Overrides) Categorize(_ context.Context, txn models.Transaction) (string, error) {
	if ov, ok := o[txn.Merchant]; ok {
		return ov.CategoryID, nil
	}
	return "", nil
}

// LoadOverrides reads overrides from a JSON file or a correction spreadsheet.
// An empty path yields no overrides.
func LoadOverrides(path string, catalog *Catalog) (Overrides, error) {
	if path == "" {
		return Overrides{}, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read overrides: %w", err)
		}
		var o Overrides
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("parse overrides %q: %w", path, err)
		}
		return o, nil
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open corrections workbook: %w", err)
		}
		defer f.Close()
		return OverridesFromSheet(f, catalog)
	default:
		return nil, fmt.Errorf("unsupported overrides file %q", path)
	}
}

// OverridesFromSheet reads the first worksheet of a corrections workbook. The
// header row must contain "merchant" and "corrected_category" columns; the
// corrected category is a category display name. Rows with an empty or
// unknown correction are ignored.
func OverridesFromSheet(f *excelize.File, catalog *Catalog) (Overrides, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Overrides{}, nil
	}

	merchantCol, correctedCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "merchant":
			merchantCol = i
		case "corrected_category":
			correctedCol = i
		}
	}
	if merchantCol < 0 || correctedCol < 0 {
		return nil, fmt.Errorf("sheet %q: missing merchant or corrected_category column", sheet)
	}

	o := Overrides{}
	for _, row := range rows[1:] {
		if correctedCol >= len(row) || merchantCol >= len(row) {
			continue
		}
		m := strings.TrimSpace(row[merchantCol])
		corrected := strings.TrimSpace(row[correctedCol])
		if m == "" || corrected == "" {
			continue
		}
		cat, ok := catalog.ByName(corrected)
		if !ok {
			continue
		}
		o[m] = Override{CategoryID: cat.ID, CategoryName: cat.Name}
	}
	return o, nil
}

// Save writes the overrides as JSON.
func (o Overrides) Save(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write overrides: %w", err)
	}
	return nil
}
