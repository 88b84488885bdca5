// Package money implements the fixed-point monetary arithmetic required by
// spec.md §3/§4.9: amounts are numeric(12,2), commission rates numeric(5,4),
// and commission computation uses banker's rounding (round-half-to-even) at
// two fractional digits.
package money

import (
	"github.com/shopspring/decimal"
)

// Amount is a 2-decimal fixed-point monetary value.
type Amount struct {
	d decimal.Decimal
}

// Rate is a 4-decimal fixed-point commission rate.
type Rate struct {
	d decimal.Decimal
}

// NewAmount parses a decimal string (e.g. "189.90") into an Amount.
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d: d.Round(2)}, nil
}

// AmountFromFloat builds an Amount from a float64, rounding to 2 places.
// Only used at the edge (e.g. request DTOs); internal math stays in decimal.
func AmountFromFloat(f float64) Amount {
	return Amount{d: decimal.NewFromFloat(f).Round(2)}
}

// Zero is the zero amount.
var Zero = Amount{d: decimal.Zero}

func (a Amount) String() string { return a.d.StringFixed(2) }

// Float64 returns the value as float64, for JSON encoding at the transport
// boundary only.
func (a Amount) Float64() float64 { f, _ := a.d.Float64(); return f }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d).Round(2)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d).Round(2)} }
func (a Amount) Neg() Amount         { return Amount{d: a.d.Neg()} }
func (a Amount) IsZero() bool        { return a.d.IsZero() }
func (a Amount) IsNegative() bool    { return a.d.IsNegative() }
func (a Amount) Cmp(b Amount) int    { return a.d.Cmp(b.d) }

// Mul multiplies the amount by a dimensionless decimal, e.g. a liability
// ratio, rounding to 2 places.
func (a Amount) Mul(ratio decimal.Decimal) Amount {
	return Amount{d: a.d.Mul(ratio).Round(2)}
}

// MulInt multiplies the amount by a plain integer quantity, e.g. an order
// item's line-item count.
func (a Amount) MulInt(n int) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(n)))}
}

// NewRate parses a decimal string (e.g. "0.1000") into a Rate.
func NewRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, err
	}
	return Rate{d: d.Round(4)}, nil
}

func (r Rate) String() string    { return r.d.StringFixed(4) }
func (r Rate) Float64() float64  { f, _ := r.d.Float64(); return f }
func (r Rate) Decimal() decimal.Decimal { return r.d }

// Commission computes commission = round_half_even(gross * rate, 2) and
// net = gross - commission, per spec.md §4.9.
func Commission(gross Amount, rate Rate) (commission, net Amount) {
	raw := gross.d.Mul(rate.d)
	commission = Amount{d: raw.RoundBank(2)}
	net = Amount{d: gross.d.Sub(commission.d)}
	return commission, net
}
