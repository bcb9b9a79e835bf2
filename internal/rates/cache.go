package rates

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
)

type cacheKey struct {
	date     string
	from, to string
}

// Cache memoizes successful lookups of another Provider until Forget is
// called. Errors are not cached.
type Cache struct {
	next Provider

	mu    sync.RWMutex
	rates map[cacheKey]decimal.Decimal
}

// NewCache wraps next with a cache.
func NewCache(next Provider) *Cache {
	return &Cache{next: next, rates: make(map[cacheKey]decimal.Decimal)}
}

func (c *Cache) ExchangeRate(ctx context.Context, date time.Time, from, to currency.Code) (decimal.Decimal, error) {
	key := cacheKey{date: date.Format(DateFormat), from: from.Name, to: to.Name}

	c.mu.RLock()
	rate, ok := c.rates[key]
	c.mu.RUnlock()
	if ok {
		return rate, nil
	}

	// Concurrent misses for the same key may all reach next; the results are equal.
	rate, err := c.next.ExchangeRate(ctx, date, from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}

	c.mu.Lock()
	c.rates[key] = rate
	c.mu.Unlock()
	return rate, nil
}

// Forget drops every cached rate, e.g. after rates were edited.
func (c *Cache) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates = make(map[cacheKey]decimal.Decimal)
}
