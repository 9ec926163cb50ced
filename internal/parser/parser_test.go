package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func TestDetect(t *testing.T) {
	strategies := Strategies(DefaultOptions())

	tests := []struct {
		name        string
		text        string
		filename    string
		expected    models.BankType
		wantMatched bool
	}{
		{"amex by text", "AMERICAN EXPRESS\nStatement", "statement.pdf", models.BankAmex, true},
		{"bofa by text", "Bank of America, N.A.\nStatement", "statement.pdf", models.BankOfAmerica, true},
		{"bofa by domain", "www.bankofamerica.com", "statement.pdf", models.BankOfAmerica, true},
		{"amex by filename", "Statement", "Amex-Gold-Sept.pdf", models.BankAmex, true},
		{"bofa by filename", "Statement", "bofa_2025_09.pdf", models.BankOfAmerica, true},
		{"amex wins priority", "American Express\nPaid from Bank of America checking", "x.pdf", models.BankAmex, true},
		{"unknown falls back to default", "Some Credit Union\nStatement", "x.pdf", models.BankAmex, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := Detect(strategies, tt.text, tt.filename)
			if got.Type() != tt.expected {
				t.Errorf("got %q, want %q", got.Type(), tt.expected)
			}
			if matched != tt.wantMatched {
				t.Errorf("matched: got %v, want %v", matched, tt.wantMatched)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		bankType models.BankType
		wantName string
		wantErr  bool
	}{
		{models.BankAmex, "American Express", false},
		{models.BankOfAmerica, "Bank of America", false},
		{"chase", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.bankType), func(t *testing.T) {
			s, err := New(tt.bankType, DefaultOptions())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.BankName() != tt.wantName {
				t.Errorf("got %q, want %q", s.BankName(), tt.wantName)
			}
		})
	}
}

func TestParseStatement_Empty(t *testing.T) {
	_, err := ParseStatement("  \n\t", "empty.pdf", "", DefaultOptions())
	if !errors.Is(err, ErrEmptyStatement) {
		t.Errorf("got %v, want ErrEmptyStatement", err)
	}
}

func TestParseStatement_UnknownFormatUsesDefault(t *testing.T) {
	text := `Closing Date 09/20/25
08/15/25 CORNER BAKERY
$8.50`

	info, err := ParseStatement(text, "statement.pdf", "", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Bank != models.BankAmex {
		t.Errorf("bank: got %q, want %q", info.Bank, models.BankAmex)
	}
	if len(info.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(info.Transactions))
	}
}

func TestParseStatement_Idempotent(t *testing.T) {
	for _, text := range []string{amexInlineStatement, amexSplitStatement, bofaStatement} {
		first, err := ParseStatement(text, "statement.pdf", "", DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := ParseStatement(text, "statement.pdf", "", DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		a, b := models.Records(first.Transactions), models.Records(second.Transactions)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("second parse differs:\n got %+v\nwant %+v", b, a)
		}
	}
}

func TestParseStatement_FillsMetadata(t *testing.T) {
	info, err := ParseStatement(amexInlineStatement, "gold.pdf", "", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Filename != "gold.pdf" {
		t.Errorf("filename: got %q", info.Filename)
	}
	if info.BankName != "American Express" {
		t.Errorf("bank name: got %q", info.BankName)
	}
	for _, txn := range info.Transactions {
		if txn.Card != info.Card {
			t.Errorf("transaction card %q does not match statement card %q", txn.Card, info.Card)
		}
	}
}
