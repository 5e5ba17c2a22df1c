// Package core provides the expense domain types.
//
// This file contains the Amount type: a non-negative decimal quantity kept
// at two fractional digits, stored as a string such as "3.50".
package core

import (
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

type Amount struct {
	value decimal.Decimal
}

// ParseAmount parses a non-negative decimal and rounds it to two places.
//
// Examples:
//   ParseAmount("3.5")   -> 3.50
//   ParseAmount("2.005") -> 2.01 (half away from zero)
//   ParseAmount("-1")    -> error
//   ParseAmount("abc")   -> error
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{value: d.Round(2)}, nil
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d}
}

func (a Amount) Decimal() decimal.Decimal { return a.value }

func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// DivInt divides by n, returning zero for n <= 0.
func (a Amount) DivInt(n int) Amount {
	if n <= 0 {
		return Amount{}
	}
	return Amount{value: a.value.Div(decimal.NewFromInt(int64(n)))}
}

func (a Amount) Cmp(b Amount) int { return a.value.Cmp(b.value) }

func (a Amount) IsZero() bool { return a.value.IsZero() }

func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }

// Float64 is for display and chart data; sums are computed as decimals.
func (a Amount) Float64() float64 {
	f, _ := a.value.Float64()
	return f
}

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.value.StringFixed(2)
}

// USD renders the fixed display currency, e.g. "$1,234.50".
func (a Amount) USD() string {
	sign := ""
	v := a.value.Round(2)
	if v.IsNegative() {
		sign, v = "-", v.Abs()
	}
	fixed := v.StringFixed(2)
	whole := v.Truncate(0)
	return sign + "$" + humanize.Comma(whole.IntPart()) + fixed[len(whole.String()):]
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both "3.50" and 3.5.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return errors.New("amount is null")
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
