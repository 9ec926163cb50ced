package categorize

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"google.golang.org/genai"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func txn(merchant, amount string) models.Transaction {
	return models.Transaction{
		Description: merchant + " DESCRIPTION",
		Merchant:    merchant,
		Amount:      decimal.RequireFromString(amount),
	}
}

type failingCategorizer struct{}

func (failingCategorizer) Categorize(context.Context, models.Transaction) (string, error) {
	return "", errors.New("service unavailable")
}

func TestApply_OverridesBeforeHints(t *testing.T) {
	catalog := NewCatalog(DefaultCategories())
	overrides := Overrides{"Uber": {CategoryID: "food", CategoryName: "Food & Dining"}}

	txns := []models.Transaction{
		txn("Uber", "32.10"),
		txn("Netflix", "15.49"),
		txn("ACME WIDGET CO", "5.00"),
	}
	Apply(context.Background(), Chain{overrides, HintCategorizer{}}, catalog, txns, zerolog.Nop())

	want := []struct{ id, name string }{
		{"food", "Food & Dining"},
		{"lifestyle", "Lifestyle & Subscriptions"},
		{OtherID, "Other"},
	}
	for i, w := range want {
		if txns[i].Category != w.id || txns[i].CategoryName != w.name {
			t.Errorf("txn %d: got %q/%q, want %q/%q", i, txns[i].Category, txns[i].CategoryName, w.id, w.name)
		}
	}
}

func TestApply_ErrorFallsBackToOther(t *testing.T) {
	catalog := NewCatalog(DefaultCategories())
	txns := []models.Transaction{txn("Uber", "1.00")}

	Apply(context.Background(), failingCategorizer{}, catalog, txns, zerolog.Nop())

	if txns[0].Category != OtherID {
		t.Errorf("got %q, want %q", txns[0].Category, OtherID)
	}
}

func TestLoadOverrides_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merchant_overrides.json")
	want := Overrides{"Hotel": {CategoryID: "travel", CategoryName: "Travel"}}
	if err := want.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := LoadOverrides(path, NewCatalog(DefaultCategories()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["Hotel"] != want["Hotel"] {
		t.Errorf("got %+v, want %+v", got["Hotel"], want["Hotel"])
	}
}

func TestLoadOverrides_Sheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"date", "merchant", "category", "corrected_category"},
		{"08/15/2025", "RAMEN NARA", "other", "Food & Dining"},
		{"08/16/2025", "Uber", "transportation", ""},
		{"08/17/2025", "ACME WIDGET CO", "other", "Not A Category"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := LoadOverrides(path, NewCatalog(DefaultCategories()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d overrides, want 1: %+v", len(got), got)
	}
	if got["RAMEN NARA"].CategoryID != "food" {
		t.Errorf("got %+v, want food", got["RAMEN NARA"])
	}
}

func TestLoadOverrides_Errors(t *testing.T) {
	catalog := NewCatalog(DefaultCategories())

	if o, err := LoadOverrides("", catalog); err != nil || len(o) != 0 {
		t.Errorf("empty path: got %v, %v", o, err)
	}
	if _, err := LoadOverrides("overrides.yaml", catalog); err == nil {
		t.Error("expected error for unsupported extension, got nil")
	}
	if _, err := LoadOverrides(filepath.Join(t.TempDir(), "missing.json"), catalog); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

type fakeGenerator struct {
	answer string
	calls  int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.answer}}}},
		},
	}, nil
}

func TestGeminiCategorizer(t *testing.T) {
	catalog := NewCatalog(DefaultCategories())

	tests := []struct {
		answer   string
		expected string
	}{
		{"food", "food"},
		{" Travel.\n", "travel"},
		{"`shopping`", "shopping"},
		{"groceries", OtherID},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			gen := &fakeGenerator{answer: tt.answer}
			g := newGemini(gen, "", catalog)

			got, err := g.Categorize(context.Background(), txn("RAMEN NARA", "12.00"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGeminiCategorizer_CachesPerMerchant(t *testing.T) {
	gen := &fakeGenerator{answer: "food"}
	g := newGemini(gen, "", NewCatalog(DefaultCategories()))

	for i := 0; i < 3; i++ {
		if _, err := g.Categorize(context.Background(), txn("RAMEN NARA", "12.00")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if gen.calls != 1 {
		t.Errorf("got %d model calls, want 1", gen.calls)
	}
	if g.model != DefaultGeminiModel {
		t.Errorf("model: got %q, want %q", g.model, DefaultGeminiModel)
	}
}

func TestSummarize(t *testing.T) {
	txns := []models.Transaction{
		{Category: "food", CategoryName: "Food & Dining", Amount: decimal.RequireFromString("12.50")},
		{Category: "travel", CategoryName: "Travel", Amount: decimal.RequireFromString("300.00")},
		{Category: "food", CategoryName: "Food & Dining", Amount: decimal.RequireFromString("7.25")},
		{Amount: decimal.RequireFromString("-5.00")},
	}

	got := Summarize(txns)

	want := []struct {
		id    string
		count int
		total string
	}{
		{"travel", 1, "300.00"},
		{"food", 2, "19.75"},
		{OtherID, 1, "-5.00"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].ID != w.id || got[i].Count != w.count || got[i].Total.StringFixed(2) != w.total {
			t.Errorf("row %d: got %s/%d/%s, want %s/%d/%s",
				i, got[i].ID, got[i].Count, got[i].Total.StringFixed(2), w.id, w.count, w.total)
		}
	}
}
