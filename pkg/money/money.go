// Package money provides an exact minor-unit representation of currency amounts.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a signed amount of a single currency, counted in the smallest
// currency unit (pence, cents). Amounts are never represented as floats.
type Money struct {
	MinorUnits int64  `json:"minorUnits"`
	Currency   string `json:"currency"`
}

// New creates a Money value from a minor-unit count and a currency code.
func New(minorUnits int64, currency string) Money {
	return Money{MinorUnits: minorUnits, Currency: currency}
}

// Add returns the sum of m and other.
// Mixing currencies is a programming error and panics.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{MinorUnits: m.MinorUnits + other.MinorUnits, Currency: m.Currency}
}

// Sub returns the difference of m and other.
// Mixing currencies is a programming error and panics.
func (m Money) Sub(other Money) Money {
	m.assertSameCurrency(other)
	return Money{MinorUnits: m.MinorUnits - other.MinorUnits, Currency: m.Currency}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{MinorUnits: -m.MinorUnits, Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.MinorUnits == 0
}

// AsDecimal returns the amount as a decimal value in major units,
// e.g. 12345 minor units -> 123.45.
func (m Money) AsDecimal() decimal.Decimal {
	return decimal.New(m.MinorUnits, -2)
}

// String renders the amount with two decimal places, e.g. "123.45".
func (m Money) String() string {
	return m.AsDecimal().StringFixed(2)
}

func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s vs %s", m.Currency, other.Currency))
	}
}
