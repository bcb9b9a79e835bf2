package money

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// wireValue keeps minor units as integer strings so they survive any JSON
// decoder without passing through float64.
type wireValue struct {
	Amount       string           `json:"amount"`
	Code         string           `json:"code"`
	LocalAmount  string           `json:"localAmount,omitempty"`
	LocalCode    string           `json:"localCode,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

func (m Value) MarshalJSON() ([]byte, error) {
	w := wireValue{
		Amount:      m.MinorString(),
		Code:        m.code.Name,
		LocalAmount: m.LocalMinorString(),
	}
	if m.HasLocal() {
		w.LocalCode = m.localCode.Name
	}
	if m.exchangeRate.Valid {
		rate := m.exchangeRate.Decimal
		w.ExchangeRate = &rate
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes and re-validates a value written by MarshalJSON.
func (m *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding money value: %w", err)
	}

	p := Params{Code: w.Code, LocalCode: w.LocalCode}
	var err error
	if p.Minor, err = ParseMinor(w.Amount); err != nil {
		return err
	}
	if w.LocalAmount != "" {
		if p.LocalAmount, err = ParseMinor(w.LocalAmount); err != nil {
			return err
		}
	}
	if w.ExchangeRate != nil {
		p.ExchangeRate = decimal.NewNullDecimal(*w.ExchangeRate)
	}

	v, err := New(p)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMinor parses an integer string of minor units.
func ParseMinor(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parsing minor units %q: not an integer", s)
	}
	return n, nil
}
