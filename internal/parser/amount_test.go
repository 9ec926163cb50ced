package parser

import (
	"testing"
)

func TestResolveAmount(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		notation Notation
		ok       bool
	}{
		{"$45.23", "45.23", NotationPlain, true},
		{"$1,234.56", "1234.56", NotationPlain, true},
		{"-$53.97", "-53.97", NotationLeadingMinus, true},
		{"8009256278-$21.99", "-21.99", NotationGluedCredit, true},
		{"45.00 CR", "-45.00", NotationTrailingCR, true},
		{"$45.00-", "-45.00", NotationTrailingCR, true},
		{"+14158799686$21.28⧫", "21.28", NotationPlain, true},
		{"no amount here", "0.00", NotationNone, false},
		{"Total 12.5", "0.00", NotationNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, notation, ok := ResolveAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if got.StringFixed(2) != tt.want {
				t.Errorf("amount: got %s, want %s", got.StringFixed(2), tt.want)
			}
			if notation != tt.notation {
				t.Errorf("notation: got %q, want %q", notation, tt.notation)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"25.99", "25.99", false},
		{"$1,234.56", "1234.56", false},
		{"-25.99", "25.99", false},
		{" 25.99 ", "25.99", false},
		{"25.999", "26.00", false},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMoney(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StringFixed(2) != tt.want {
				t.Errorf("got %s, want %s", got.StringFixed(2), tt.want)
			}
		})
	}
}
