// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and formatting them for display.
package core

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in currency units. Sums are kept exact;
// rounding happens only when formatting.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MustMoney parses s and panics on error. Intended for tests and constants.
func MustMoney(s string) Money {
	m, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return m
}

// maxAmountExponent bounds the decimal exponent of an amount in either
// direction. Anything beyond it is not a plausible expense and would not
// survive conversion to float64 for charting.
const maxAmountExponent = 15

// ParseAmount converts a decimal string to Money.
//
// Only a dot is accepted as decimal separator; thousands separators are
// rejected rather than guessed. Every digit given is kept. Returns
// ErrInvalidAmount for anything that is not a finite positive number.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> ErrInvalidAmount
//	ParseAmount("0")     -> ErrInvalidAmount
//	ParseAmount("1e400") -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.Contains(s, ",") {
		return Money{}, fmt.Errorf("%w: %q is not a number (use . as decimal separator)", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	m := Money{Decimal: d}
	if err := m.Validate(); err != nil {
		return Money{}, fmt.Errorf("%w: %q %s", ErrInvalidAmount, s, reason(err))
	}
	return m, nil
}

var (
	errNotPositive = errors.New("must be positive")
	errOutOfRange  = errors.New("is out of range")
)

// Validate reports ErrInvalidAmount unless m is positive and within the
// representable range.
func (m Money) Validate() error {
	if !m.IsPositive() {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, errNotPositive)
	}
	if exp := m.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, errOutOfRange)
	}
	if f := m.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) || f >= math.Pow10(maxAmountExponent) {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, errOutOfRange)
	}
	return nil
}

func reason(err error) string {
	if errors.Is(err, errOutOfRange) {
		return errOutOfRange.Error()
	}
	return errNotPositive.Error()
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Equal reports whether both amounts have the same value regardless of scale.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// Format renders the amount with two decimals prefixed by symbol, e.g. "$12.50".
func (m Money) Format(symbol string) string {
	return symbol + m.StringFixed(2)
}

// Float64 returns the value as a float64 for display purposes such as chart
// proportions. Use the decimal value for calculations.
func (m Money) Float64() float64 {
	return m.InexactFloat64()
}
