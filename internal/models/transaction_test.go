package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseBankType(t *testing.T) {
	tests := []struct {
		input    string
		expected BankType
		wantErr  bool
	}{
		{"", "", false},
		{"amex", BankAmex, false},
		{"American Express", BankAmex, false},
		{" BofA ", BankOfAmerica, false},
		{"bank of america", BankOfAmerica, false},
		{"chase", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBankType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTransaction_Record(t *testing.T) {
	txn := Transaction{
		Date:        time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC),
		Description: "UBER EATS help.uber.com CA",
		Amount:      decimal.RequireFromString("-32.1"),
		Bank:        "American Express",
		Card:        "Gold Card",
	}

	rec := txn.Record()

	if rec.Date != "08/05/2025" {
		t.Errorf("date: got %q, want %q", rec.Date, "08/05/2025")
	}
	if rec.Amount != "-32.10" {
		t.Errorf("amount: got %q, want %q", rec.Amount, "-32.10")
	}
	if rec.Merchant != nil {
		t.Errorf("merchant: got %q, want nil", *rec.Merchant)
	}
	if !txn.IsCredit() {
		t.Error("expected negative amount to be a credit")
	}
}

func TestRecords_NeverNil(t *testing.T) {
	if got := Records(nil); got == nil {
		t.Error("got nil, want empty slice")
	}
}
