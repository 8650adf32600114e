// Package types provides common type aliases and utilities.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MoneyPtr returns a pointer to a copy of m, for nullable price columns.
func MoneyPtr(m Money) *Money {
	return &m
}

// LineTotal is quantity × unit price.
func LineTotal(quantity int64, price Money) Money {
	return price.Mul(decimal.NewFromInt(quantity))
}

// Cents rounds m half-away-from-zero to two decimal places.
func Cents(m Money) Money {
	return m.Round(2)
}

// HasCents reports whether m fits in two decimal places. Trailing zeros
// beyond the cents are allowed.
func HasCents(m Money) bool {
	return m.Equal(m.Truncate(2))
}

// ValidatePrice rejects negative unit prices and fractions of a cent.
func ValidatePrice(field string, m Money) error {
	if m.IsNegative() {
		return fmt.Errorf("%s must not be negative", field)
	}
	if !HasCents(m) {
		return fmt.Errorf("%s must have at most 2 decimal places", field)
	}
	return nil
}
