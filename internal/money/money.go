package money

import (
	"github.com/pkg/errors"
)

// Money represents an amount of a single currency as whole units plus
// fractional nanos, so arithmetic never goes through floating point.
type Money struct {
	CurrencyCode string `json:"currencyCode"`
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

const nanosPerUnit = 1_000_000_000

var (
	ErrInvalidValue       = errors.New("money: one of the specified values is invalid")
	ErrMismatchedCurrency = errors.New("money: mismatched currency codes")
)

// New builds a normalized Money value.
func New(code string, units int64, nanos int32) Money {
	return normalize(Money{CurrencyCode: code, Units: units, Nanos: nanos})
}

// FromFloat converts a decimal amount into units and nanos. Rounding follows
// the currency converter: floor the units, round the remainder to nanos.
func FromFloat(code string, amount float64) Money {
	units := int64(amount)
	return normalize(Money{CurrencyCode: code, Units: units, Nanos: roundNanos(amount, units)})
}

// Float returns the decimal value of m. Display only; arithmetic stays in
// units and nanos.
func (m Money) Float() float64 {
	return float64(m.Units) + float64(m.Nanos)/nanosPerUnit
}

// IsValid reports whether units and nanos agree in sign and nanos is within
// a single unit.
func (m Money) IsValid() bool {
	if m.Nanos <= -nanosPerUnit || m.Nanos >= nanosPerUnit {
		return false
	}
	sameSign := (m.Units >= 0 && m.Nanos >= 0) || (m.Units <= 0 && m.Nanos <= 0)
	return sameSign
}

// IsZero reports whether m holds no amount.
func (m Money) IsZero() bool { return m.Units == 0 && m.Nanos == 0 }

// Sum adds two amounts of the same currency.
func Sum(l, r Money) (Money, error) {
	if !l.IsValid() || !r.IsValid() {
		return Money{}, ErrInvalidValue
	}
	if l.CurrencyCode != r.CurrencyCode {
		return Money{}, ErrMismatchedCurrency
	}
	return normalize(Money{
		CurrencyCode: l.CurrencyCode,
		Units:        l.Units + r.Units,
		Nanos:        l.Nanos + r.Nanos,
	}), nil
}

// Multiply scales an amount by a non-negative quantity.
func Multiply(m Money, qty int32) Money {
	out := Money{CurrencyCode: m.CurrencyCode}
	for ; qty > 0; qty-- {
		out.Units += m.Units
		out.Nanos += m.Nanos
		out = normalize(out)
	}
	return out
}

// normalize folds nanos overflow into units and aligns signs.
func normalize(m Money) Money {
	units := m.Units
	nanos := int64(m.Nanos)

	units += nanos / nanosPerUnit
	nanos = nanos % nanosPerUnit

	if units > 0 && nanos < 0 {
		units--
		nanos += nanosPerUnit
	} else if units < 0 && nanos > 0 {
		units++
		nanos -= nanosPerUnit
	}

	return Money{CurrencyCode: m.CurrencyCode, Units: units, Nanos: int32(nanos)}
}

func roundNanos(amount float64, units int64) int32 {
	rem := (amount - float64(units)) * nanosPerUnit
	if rem >= 0 {
		return int32(rem + 0.5)
	}
	return int32(rem - 0.5)
}
