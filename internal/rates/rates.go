// Package rates looks up exchange rates for converting foreign amounts into
// the ledger's local currency.
package rates

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
)

// DateFormat is the layout rates are keyed by.
const DateFormat = "2006-01-02"

var (
	ErrNotFound = errors.New("exchange rate not found")
	ErrZeroRate = errors.New("exchange rate must not be zero")
)

// Provider returns how many units of to one unit of from was worth on date.
// Implementations must be safe for concurrent use.
//
//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks -source=rates.go Provider
type Provider interface {
	ExchangeRate(ctx context.Context, date time.Time, from, to currency.Code) (decimal.Decimal, error)
}

// Rate is one stored exchange rate.
type Rate struct {
	Date string
	From currency.Code
	To   currency.Code
	Rate decimal.Decimal
}
