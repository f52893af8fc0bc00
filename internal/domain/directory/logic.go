package directory

import (
	"errors"
	"strings"
)

var (
	ErrMissingName    = errors.New("first and last name required")
	ErrInvalidPeriod  = errors.New("period end before start")
	ErrUnknownPeriod  = errors.New("unknown period type")
	ErrDepartmentUsed = errors.New("department still has employees")
)

// DeriveUsername builds the login name handed to a new hire:
// first.last, lowercased, spaces stripped. It doubles as the initial
// password, which must be changed at first login.
func DeriveUsername(firstName, lastName string) string {
	raw := firstName + "." + lastName
	return strings.ReplaceAll(strings.ToLower(raw), " ", "")
}

func ValidateNewEmployee(firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return ErrMissingName
	}
	return nil
}

func ValidatePeriod(p CompanyPeriod) error {
	if p.Type != PeriodOpening && p.Type != PeriodClosing {
		return ErrUnknownPeriod
	}
	if p.EndDate.Before(p.StartDate) {
		return ErrInvalidPeriod
	}
	return nil
}
