package parser

import (
	"testing"
	"time"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func TestResolvePeriod(t *testing.T) {
	opts := Options{FallbackYear: 2023, FallbackMonth: time.December}

	tests := []struct {
		name  string
		lines []string
		want  models.StatementPeriod
	}{
		{
			name:  "closing date with two-digit year",
			lines: []string{"American Express", "Closing Date 09/20/25"},
			want:  models.StatementPeriod{Month: time.September, Year: 2025, Source: "closing-date"},
		},
		{
			name:  "closing date with colon",
			lines: []string{"Statement Closing Date: 1/15/2025"},
			want:  models.StatementPeriod{Month: time.January, Year: 2025, Source: "closing-date"},
		},
		{
			name:  "period line with hyphen",
			lines: []string{"Statement Period August 21 - September 20, 2025"},
			want:  models.StatementPeriod{Month: time.September, Year: 2025, Source: "period-line"},
		},
		{
			name:  "period line with en dash",
			lines: []string{"December 21 – January 20, 2025"},
			want:  models.StatementPeriod{Month: time.January, Year: 2025, Source: "period-line"},
		},
		{
			name:  "first header line wins",
			lines: []string{"Aug 21 - Sep 20, 2024", "Closing Date 01/20/2025"},
			want:  models.StatementPeriod{Month: time.September, Year: 2024, Source: "period-line"},
		},
		{
			name:  "no metadata uses fallback",
			lines: []string{"nothing useful", "08/15/24 STORE"},
			want:  models.StatementPeriod{Month: time.December, Year: 2023, Source: "fallback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePeriod(tt.lines, opts)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	dec2024 := models.StatementPeriod{Month: time.December, Year: 2024}
	jan2025 := models.StatementPeriod{Month: time.January, Year: 2025}

	tests := []struct {
		name   string
		token  string
		period models.StatementPeriod
		want   string
		ok     bool
	}{
		{"same year when month before closing", "07/04", dec2024, "07/04/2024", true},
		{"previous year when period wraps", "12/20", jan2025, "12/20/2024", true},
		{"closing month keeps year", "01/05", jan2025, "01/05/2025", true},
		{"two-digit year kept", "08/15/24", jan2025, "08/15/2024", true},
		{"four-digit year kept", "8/5/2023", jan2025, "08/05/2023", true},
		{"impossible day", "02/30/24", jan2025, "", false},
		{"bad month", "13/01", jan2025, "", false},
		{"not a date", "abc", jan2025, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.token, tt.period)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if s := got.Format(models.DateLayout); s != tt.want {
				t.Errorf("got %q, want %q", s, tt.want)
			}
		})
	}
}
