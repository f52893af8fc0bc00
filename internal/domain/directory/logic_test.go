package directory

import (
	"errors"
	"testing"
	"time"
)

func TestDeriveUsername(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Mario", "Rossi", "mario.rossi"},
		{"Anna Maria", "De Luca", "annamaria.deluca"},
		{"LUCA", "Bianchi", "luca.bianchi"},
	}
	for _, tc := range cases {
		if got := DeriveUsername(tc.first, tc.last); got != tc.want {
			t.Fatalf("DeriveUsername(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestValidateNewEmployee(t *testing.T) {
	if err := ValidateNewEmployee("Mario", "Rossi"); err != nil {
		t.Fatalf("valid employee rejected: %v", err)
	}
	if err := ValidateNewEmployee("  ", "Rossi"); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
}

func TestValidatePeriod(t *testing.T) {
	start := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	ok := CompanyPeriod{Type: PeriodClosing, StartDate: start, EndDate: start.AddDate(0, 0, 14)}
	if err := ValidatePeriod(ok); err != nil {
		t.Fatalf("valid period rejected: %v", err)
	}
	if err := ValidatePeriod(CompanyPeriod{Type: "holiday", StartDate: start, EndDate: start}); !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
	inverted := CompanyPeriod{Type: PeriodOpening, StartDate: start, EndDate: start.AddDate(0, 0, -1)}
	if err := ValidatePeriod(inverted); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
