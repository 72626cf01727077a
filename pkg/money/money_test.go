package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsDecimal(t *testing.T) {
	tests := []struct {
		name       string
		minorUnits int64
		expected   string
	}{
		{"pounds and pence", 12345, "123.45"},
		{"whole pounds", 12000, "120.00"},
		{"negative", -2050, "-20.50"},
		{"zero", 0, "0.00"},
		{"sub-unit", 5, "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.minorUnits, "GBP")
			assert.Equal(t, tt.expected, m.AsDecimal().StringFixed(2))
			assert.Equal(t, tt.expected, m.String())
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := New(10000, "GBP")
	b := New(2500, "GBP")

	assert.Equal(t, New(12500, "GBP"), a.Add(b))
	assert.Equal(t, New(7500, "GBP"), a.Sub(b))
	assert.Equal(t, New(-10000, "GBP"), a.Neg())
	assert.True(t, New(0, "GBP").IsZero())
	assert.False(t, a.IsZero())
}

func TestCurrencyMismatchPanics(t *testing.T) {
	gbp := New(100, "GBP")
	usd := New(100, "USD")

	require.Panics(t, func() { gbp.Add(usd) })
	require.Panics(t, func() { gbp.Sub(usd) })
}
