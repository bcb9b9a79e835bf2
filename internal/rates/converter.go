package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/money"
)

// inversePrecision is the number of decimal places kept when a rate is
// derived from the reverse pair.
const inversePrecision = 10

// Converter resolves rates through a Provider and builds converted values.
type Converter struct {
	rates Provider
}

// NewConverter creates a Converter backed by p.
func NewConverter(p Provider) *Converter {
	return &Converter{rates: p}
}

// Rate returns the from→to rate on date. Equal codes give 1. When only the
// to→from pair is known its inverse is used.
func (c *Converter) Rate(ctx context.Context, date time.Time, from, to currency.Code) (decimal.Decimal, error) {
	if from.Equal(to) {
		return decimal.NewFromInt(1), nil
	}

	rate, err := c.rates.ExchangeRate(ctx, date, from, to)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return decimal.Decimal{}, err
	}

	inverse, ierr := c.rates.ExchangeRate(ctx, date, to, from)
	if ierr != nil {
		if errors.Is(ierr, ErrNotFound) {
			return decimal.Decimal{}, err
		}
		return decimal.Decimal{}, ierr
	}
	if inverse.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("inverting %s/%s: %w", to, from, ErrZeroRate)
	}
	return decimal.NewFromInt(1).DivRound(inverse, inversePrecision), nil
}

// ToLocal gives v a local amount in local using the rate on date. A value
// already in local is returned unchanged.
func (c *Converter) ToLocal(ctx context.Context, date time.Time, v money.Value, local currency.Code) (money.Value, error) {
	if v.Code().Equal(local) {
		return v, nil
	}
	rate, err := c.Rate(ctx, date, v.Code(), local)
	if err != nil {
		return money.Value{}, fmt.Errorf("converting %s to %s: %w", v, local, err)
	}
	return money.New(money.Params{
		Minor:         v.Amount(),
		Currency:      v.Code(),
		LocalCurrency: local,
		ExchangeRate:  decimal.NewNullDecimal(rate),
	})
}
