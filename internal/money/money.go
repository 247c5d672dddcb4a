// Package money provides the fixed-point currency type used for every balance
// and price. Values are stored as integer øre (1/100 DKK) and never leave the
// integer domain.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the display suffix for all amounts.
const Currency = "DKK"

// Money is an amount in minor units (øre).
type Money int64

// New returns a Money of the given minor units.
func New(cents int64) Money {
	return Money(cents)
}

// FromKroner returns a Money of whole kroner.
func FromKroner(kr int64) Money {
	return Money(kr * 100)
}

// Cents returns the raw minor units.
func (m Money) Cents() int64 {
	return int64(m)
}

// Kroner returns the major part, truncated toward zero.
func (m Money) Kroner() int64 {
	return int64(m) / 100
}

// Ore returns the minor part in [0,99]. It is computed on the remainder so
// that math.MinInt64 does not overflow on negation.
func (m Money) Ore() int64 {
	r := int64(m) % 100
	if r < 0 {
		r = -r
	}
	return r
}

func (m Money) Add(o Money) Money { return m + o }

func (m Money) Sub(o Money) Money { return m - o }

// Mul scales the amount by an integer quantity.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// Div divides by an integer, truncating toward zero. It panics on a zero
// divisor like integer division does.
func (m Money) Div(n int) Money {
	return m / Money(n)
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

// CmpCents compares against a raw minor-unit threshold.
func (m Money) CmpCents(cents int64) int {
	return m.Cmp(Money(cents))
}

func (m Money) Less(o Money) bool { return m < o }

// Covers reports whether m is at least cost.
func (m Money) Covers(cost Money) bool { return m >= cost }

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool { return m < 0 }

// String renders "123,45 DKK".
func (m Money) String() string {
	sign := ""
	if m.IsNegative() && m.Kroner() == 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d,%02d %s", sign, m.Kroner(), m.Ore(), Currency)
}

// Decimal returns the amount in kroner with two fractional digits, "50.00".
func (m Money) Decimal() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}

// MarshalJSON encodes the raw minor units.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(m))
}

// UnmarshalJSON accepts an integer number of minor units.
func (m *Money) UnmarshalJSON(data []byte) error {
	var cents int64
	if err := json.Unmarshal(data, &cents); err != nil {
		return fmt.Errorf("money: expected integer minor units: %w", err)
	}
	*m = Money(cents)
	return nil
}

// ParseKroner parses a user-entered kroner amount such as "50", "50,5" or
// "50.25". More than two fractional digits is rejected rather than rounded.
func ParseKroner(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format %q", s)
	}
	scaled := d.Shift(2)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than two decimals", s)
	}
	return Money(scaled.IntPart()), nil
}
