// Package money implements an immutable, currency-aware amount held in minor
// units, with an optional parallel amount in the ledger's local currency.
package money

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/validation"
)

// Operation errors. These indicate caller misuse on an already valid Value.
var (
	ErrIncomparable = errors.New("values are not comparable")
	ErrSplitTooFew  = errors.New("split needs at least 2 fractions")
)

// Value is an amount in minor units of code. When localCode is set the value
// also carries localAmount, fixed at construction time.
type Value struct {
	amount       *big.Int
	code         currency.Code
	localAmount  *big.Int
	localCode    currency.Code
	exchangeRate decimal.NullDecimal
}

// Params are the raw construction inputs for New.
//
// The amount is Minor when non-nil, otherwise Amount in major units. A code may
// be given by name (Code, LocalCode) or already resolved (Currency,
// LocalCurrency); the resolved form wins when both are set.
type Params struct {
	Amount        decimal.Decimal
	Minor         *big.Int
	Code          string
	Currency      currency.Code
	LocalCode     string
	LocalCurrency currency.Code
	LocalAmount   *big.Int
	ExchangeRate  decimal.NullDecimal
}

// New validates p and builds a Value. Every violated invariant is reported in
// the returned validation.Errors.
func New(p Params) (Value, error) {
	var errs validation.Errors

	code, codeOK := resolveCode(p.Currency, p.Code, "code", true, &errs)
	localCode, localOK := resolveCode(p.LocalCurrency, p.LocalCode, "localCode", false, &errs)
	localGiven := !p.LocalCurrency.IsZero() || p.LocalCode != ""

	if p.ExchangeRate.Valid && !localGiven {
		errs = append(errs, validation.New(validation.KindMissingLocalCode, "localCode", p.ExchangeRate.Decimal.String(),
			"exchange rate %s given without a local currency code", p.ExchangeRate.Decimal))
	}
	if p.LocalAmount != nil && !localGiven {
		errs = append(errs, validation.New(validation.KindMissingLocalAmountCode, "localCode", p.LocalAmount.String(),
			"local amount %s given without a local currency code", p.LocalAmount))
	}
	if localGiven && !p.ExchangeRate.Valid && p.LocalAmount == nil {
		errs = append(errs, validation.New(validation.KindMissingExchangeRate, "exchangeRate", p.LocalCode,
			"local currency %s needs an exchange rate or a local amount", displayName(p.LocalCurrency, p.LocalCode)))
	}
	if p.ExchangeRate.Valid && p.ExchangeRate.Decimal.IsZero() {
		errs = append(errs, validation.New(validation.KindExchangeRateZero, "exchangeRate", p.ExchangeRate.Decimal.String(),
			"exchange rate must not be zero"))
	}
	if codeOK && localOK && code.Equal(localCode) {
		errs = append(errs, validation.New(validation.KindCodeEqualsLocalCode, "localCode", code.Name,
			"code and local code are both %s", code))
	}

	if len(errs) > 0 {
		return Value{}, errs
	}

	v := Value{code: code}
	if p.Minor != nil {
		v.amount = new(big.Int).Set(p.Minor)
	} else {
		v.amount = fromDecimal(p.Amount, code.Precision)
	}

	if localOK {
		v.localCode = localCode
		v.exchangeRate = p.ExchangeRate
		if p.LocalAmount != nil {
			v.localAmount = new(big.Int).Set(p.LocalAmount)
		} else {
			v.localAmount = Convert(v.amount, code, localCode, p.ExchangeRate.Decimal)
		}
	}
	return v, nil
}

// FromMinor builds a Value from exact minor units of an already resolved code.
func FromMinor(minor int64, code currency.Code) Value {
	return Value{amount: big.NewInt(minor), code: code}
}

// FromBig is FromMinor for amounts beyond int64. n is copied.
func FromBig(n *big.Int, code currency.Code) Value {
	return Value{amount: new(big.Int).Set(n), code: code}
}

// Parse builds a Value from a decimal string in major units, e.g. "10.50".
func Parse(amount, code string) (Value, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Value{}, validation.Errors{validation.New(validation.KindInvalidAmount, "amount", amount,
			"parsing amount %q: %v", amount, err)}
	}
	return New(Params{Amount: d, Code: code})
}

func resolveCode(resolved currency.Code, name, field string, required bool, errs *validation.Errors) (currency.Code, bool) {
	if !resolved.IsZero() {
		name = resolved.Name
	}
	if name == "" {
		if required {
			*errs = append(*errs, validation.New(validation.KindInvalidCurrencyCode, field, "",
				"currency code is required"))
		}
		return currency.Code{}, false
	}
	c, err := currency.Lookup(name)
	if err != nil {
		*errs = append(*errs, validation.New(validation.KindInvalidCurrencyCode, field, name,
			"%v", err))
		return currency.Code{}, false
	}
	return c, true
}

func displayName(resolved currency.Code, name string) string {
	if !resolved.IsZero() {
		return resolved.Name
	}
	return name
}

// Amount returns a copy of the amount in minor units.
func (m Value) Amount() *big.Int {
	return new(big.Int).Set(m.amt())
}

// Code returns the currency of Amount.
func (m Value) Code() currency.Code {
	return m.code
}

// LocalAmount returns a copy of the local amount, if the value has one.
func (m Value) LocalAmount() (*big.Int, bool) {
	if !m.HasLocal() {
		return nil, false
	}
	return new(big.Int).Set(m.localAmount), true
}

// LocalCode returns the local currency, if the value has one.
func (m Value) LocalCode() (currency.Code, bool) {
	return m.localCode, m.HasLocal()
}

// ExchangeRate returns the rate used to derive the local amount, if any.
func (m Value) ExchangeRate() (decimal.Decimal, bool) {
	return m.exchangeRate.Decimal, m.exchangeRate.Valid
}

// HasLocal reports whether the value carries a local currency amount.
func (m Value) HasLocal() bool {
	return !m.localCode.IsZero()
}

// LocalOrAmount returns the local amount and code when present, otherwise the
// amount and code themselves.
func (m Value) LocalOrAmount() (*big.Int, currency.Code) {
	if m.HasLocal() {
		return new(big.Int).Set(m.localAmount), m.localCode
	}
	return m.Amount(), m.code
}

// Decimal returns the amount in major units, exactly.
func (m Value) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(m.amt(), -int32(m.code.Precision))
}

// LocalDecimal returns the local amount in major units, if present.
func (m Value) LocalDecimal() (decimal.Decimal, bool) {
	if !m.HasLocal() {
		return decimal.Zero, false
	}
	return decimal.NewFromBigInt(m.localAmount, -int32(m.localCode.Precision)), true
}

// MinorString renders the amount as an integer string for storage.
func (m Value) MinorString() string {
	return m.amt().String()
}

// LocalMinorString renders the local amount as an integer string, or "" when absent.
func (m Value) LocalMinorString() string {
	if !m.HasLocal() {
		return ""
	}
	return m.localAmount.String()
}

func (m Value) String() string {
	s := fmt.Sprintf("%s %s", m.Decimal().StringFixed(int32(m.code.Precision)), m.code)
	if local, ok := m.LocalDecimal(); ok {
		s += fmt.Sprintf(" (%s %s)", local.StringFixed(int32(m.localCode.Precision)), m.localCode)
	}
	return s
}

func (m Value) amt() *big.Int {
	if m.amount == nil {
		return new(big.Int)
	}
	return m.amount
}

// with returns a copy of m carrying new amounts and the same currency metadata.
func (m Value) with(amount, localAmount *big.Int) Value {
	out := m
	out.amount = amount
	if m.HasLocal() {
		out.localAmount = localAmount
	}
	return out
}
