package writer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	first := got[0]
	if first["date"] != "08/19/2025" {
		t.Errorf("date: got %v, want 08/19/2025", first["date"])
	}
	if first["amount"] != "15.49" {
		t.Errorf("amount: got %v, want string 15.49", first["amount"])
	}
	if first["merchant"] != "Netflix" {
		t.Errorf("merchant: got %v, want Netflix", first["merchant"])
	}

	second := got[1]
	if v, ok := second["merchant"]; !ok || v != nil {
		t.Errorf("merchant: got %v (present=%v), want null", v, ok)
	}
	if _, ok := second["category"]; ok {
		t.Error("category should be omitted before categorization")
	}
}

func TestJSONWriter_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bytes.TrimSpace(buf.Bytes()); string(got) != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestXLSXWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	if err := (&XLSXWriter{}).Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "date" || rows[0][5] != "merchant" {
		t.Errorf("header: got %v", rows[0])
	}
	if rows[1][1] != "NETFLIX.COM CA" {
		t.Errorf("description: got %q", rows[1][1])
	}

	raw, err := f.GetCellValue(SheetName, "C3", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "-25.99" {
		t.Errorf("amount cell: got %q, want -25.99", raw)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"json", ".json", false},
		{"CSV", ".csv", false},
		{"xlsx", ".xlsx", false},
		{"excel", ".xlsx", false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w, err := New(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.Extension() != tt.ext {
				t.Errorf("got %q, want %q", w.Extension(), tt.ext)
			}
		})
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteAll(dir, "all_transactions", []string{"json", "csv", "xlsx"}, sampleTransactions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("missing output %s: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("empty output %s", p)
		}
	}

	if _, err := WriteAll(dir, "x", []string{"yaml"}, []models.Transaction{}); err == nil {
		t.Error("expected error for unknown format, got nil")
	}
}
