package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// SheetName is the worksheet holding the transaction rows.
const SheetName = "Transactions"

// Built-in Excel number format "#,##0.00".
const amountNumFmt = 4

// XLSXWriter writes transactions to an Excel workbook. Amounts are stored as
// numbers so the sheet can be summed and filtered.
type XLSXWriter struct{}

func (w *XLSXWriter) Extension() string {
	return ".xlsx"
}

func (w *XLSXWriter) Write(out io.Writer, txns []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	records := models.Records(txns)
	withCategories := hasCategories(records)

	header := columns(withCategories)
	if err := setRow(f, 1, toCells(header)); err != nil {
		return err
	}

	for i, txn := range txns {
		cells := toCells(row(records[i], withCategories))
		cells[2] = txn.Amount.InexactFloat64()
		if err := setRow(f, i+2, cells); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	if len(txns) > 0 {
		if err := f.SetCellStyle(SheetName, "C2", fmt.Sprintf("C%d", len(txns)+1), money); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "B", "B", 45)
	_ = f.SetColWidth(SheetName, "D", "F", 24)

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
