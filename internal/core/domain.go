package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk and on-screen representation of a Date.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day without a time component.
	Date struct {
		time.Time
	}

	// Expense is a single recorded spending event. Expenses are never
	// modified once appended to the store.
	Expense struct {
		Date     Date
		Amount   Money
		Category string
		Notes    string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("invalid amount")
)

// DefaultCategories are the categories suggested to the user. Any other
// label is accepted as well.
var DefaultCategories = []string{"Food", "Transport", "Entertainment", "Shopping", "Bills", "Other"}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q must be YYYY-MM-DD", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Today returns the current local calendar day.
func Today() Date {
	y, m, d := time.Now().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// IsEmpty returns true if the date is zero, which marks an open bound in a Filter.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// InMonth reports whether d falls in the given year and month.
func (d Date) InMonth(year, month int) bool {
	return d.Year() == year && d.Month() == month
}

// ValidateMonth checks that month is in 1..12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d must be between 1 and 12", ErrInvalidMonth, month)
	}
	return nil
}

// ValidatePeriod checks a year/month pair selected for a summary. Years
// outside 1..9999 cannot be written as YYYY and are rejected.
func ValidatePeriod(year, month int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d must be between 1 and 9999", ErrInvalidMonth, year)
	}
	return ValidateMonth(month)
}

// Validate checks the invariants every stored expense must hold. Category
// and notes are free text and not checked here.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
