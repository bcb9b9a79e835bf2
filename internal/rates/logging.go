package rates

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
)

// loggingProvider decorates a Provider with logging.
type loggingProvider struct {
	logger log.Logger
	next   Provider
}

// NewLoggingProvider returns next with every lookup logged to logger.
func NewLoggingProvider(logger log.Logger, next Provider) Provider {
	return &loggingProvider{logger: logger, next: next}
}

func (p *loggingProvider) ExchangeRate(ctx context.Context, date time.Time, from, to currency.Code) (rate decimal.Decimal, err error) {
	defer func(begin time.Time) {
		p.logger.Log(
			"method", "exchange_rate",
			"date", date.Format(DateFormat),
			"from", from,
			"to", to,
			"rate", rate,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ExchangeRate(ctx, date, from, to)
}
