package money

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
)

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

func pow10(n int) *big.Int {
	if n == 0 {
		return new(big.Int).Set(bigOne)
	}
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// shift returns n * 10^-exp when exp <= 0, otherwise n / 10^exp rounded half
// away from zero: a dropped rest of at least half a unit rounds up for
// positive n and down for negative n.
func shift(n *big.Int, exp int) *big.Int {
	if exp <= 0 {
		return new(big.Int).Mul(n, pow10(-exp))
	}
	div := pow10(exp)
	q, r := new(big.Int).QuoRem(n, div, new(big.Int))
	twice := new(big.Int).Abs(r)
	twice.Lsh(twice, 1)
	if twice.Cmp(div) >= 0 {
		if n.Sign() < 0 {
			q.Sub(q, bigOne)
		} else {
			q.Add(q, bigOne)
		}
	}
	return q
}

// scale multiplies n by d using d's own decimal precision and rounds back to
// n's precision.
func scale(n *big.Int, d decimal.Decimal) *big.Int {
	product := new(big.Int).Mul(n, d.Coefficient())
	return shift(product, -int(d.Exponent()))
}

// fromDecimal converts major units to minor units at precision.
func fromDecimal(d decimal.Decimal, precision int) *big.Int {
	return shift(d.Coefficient(), -(int(d.Exponent()) + precision))
}

// Convert turns amount minor units of from into minor units of to at rate,
// in exact integer arithmetic with a single half-up rounding at the end.
func Convert(amount *big.Int, from, to currency.Code, rate decimal.Decimal) *big.Int {
	product := new(big.Int).Mul(amount, rate.Coefficient())
	exp := to.Precision - from.Precision + int(rate.Exponent())
	return shift(product, -exp)
}

// Multiply scales the amount and the local amount by factor. Currency
// metadata, including the exchange rate, is unchanged.
func (m Value) Multiply(factor decimal.Decimal) Value {
	var local *big.Int
	if m.HasLocal() {
		local = scale(m.localAmount, factor)
	}
	return m.with(scale(m.amt(), factor), local)
}

// Split divides m into len(fractions) parts whose amounts sum exactly to m.
// Rounding remainders go to the first part, separately for amount and local
// amount.
func (m Value) Split(fractions []decimal.Decimal) ([]Value, error) {
	if len(fractions) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSplitTooFew, len(fractions))
	}

	amounts := splitInt(m.amt(), fractions)
	locals := make([]*big.Int, len(fractions))
	if m.HasLocal() {
		locals = splitInt(m.localAmount, fractions)
	}

	parts := make([]Value, len(fractions))
	for i := range parts {
		parts[i] = m.with(amounts[i], locals[i])
	}
	return parts, nil
}

func splitInt(total *big.Int, fractions []decimal.Decimal) []*big.Int {
	parts := make([]*big.Int, len(fractions))
	rest := new(big.Int).Set(total)
	for i, f := range fractions {
		parts[i] = scale(total, f)
		rest.Sub(rest, parts[i])
	}
	parts[0].Add(parts[0], rest)
	return parts
}

// Negate flips the sign of the amount and the local amount.
func (m Value) Negate() Value {
	var local *big.Int
	if m.HasLocal() {
		local = new(big.Int).Neg(m.localAmount)
	}
	return m.with(new(big.Int).Neg(m.amt()), local)
}

// Absolute drops the sign of the amount and the local amount.
func (m Value) Absolute() Value {
	var local *big.Int
	if m.HasLocal() {
		local = new(big.Int).Abs(m.localAmount)
	}
	return m.with(new(big.Int).Abs(m.amt()), local)
}

// IsZero looks at the amount only, never the local amount.
func (m Value) IsZero() bool {
	return m.amt().Sign() == 0
}

// IsPositive uses the local amount when the value has one.
func (m Value) IsPositive() bool {
	return m.sign() > 0
}

// IsNegative uses the local amount when the value has one.
func (m Value) IsNegative() bool {
	return m.sign() < 0
}

func (m Value) sign() int {
	if m.HasLocal() {
		return m.localAmount.Sign()
	}
	return m.amt().Sign()
}
