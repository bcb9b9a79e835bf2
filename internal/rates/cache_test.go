package rates_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/rates"
	"github.com/cleared-dev/tally/internal/rates/mocks"
)

func TestCache_HitsNextOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockProvider(ctrl)
	next.EXPECT().
		ExchangeRate(gomock.Any(), day, currency.USD, currency.SEK).
		Return(dec("10.5"), nil).
		Times(1)

	c := rates.NewCache(next)
	for i := 0; i < 3; i++ {
		rate, err := c.ExchangeRate(context.Background(), day, currency.USD, currency.SEK)
		require.NoError(t, err)
		assert.Equal(t, "10.5", rate.String())
	}
}

func TestCache_DoesNotCacheErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockProvider(ctrl)
	gomock.InOrder(
		next.EXPECT().
			ExchangeRate(gomock.Any(), day, currency.EUR, currency.SEK).
			Return(decimal.Decimal{}, rates.ErrNotFound),
		next.EXPECT().
			ExchangeRate(gomock.Any(), day, currency.EUR, currency.SEK).
			Return(dec("11.2"), nil),
	)

	c := rates.NewCache(next)
	_, err := c.ExchangeRate(context.Background(), day, currency.EUR, currency.SEK)
	assert.ErrorIs(t, err, rates.ErrNotFound)

	rate, err := c.ExchangeRate(context.Background(), day, currency.EUR, currency.SEK)
	require.NoError(t, err)
	assert.Equal(t, "11.2", rate.String())
}

func TestCache_KeysByDateAndPair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockProvider(ctrl)
	next.EXPECT().ExchangeRate(gomock.Any(), day, currency.USD, currency.SEK).Return(dec("10.5"), nil)
	next.EXPECT().ExchangeRate(gomock.Any(), day.AddDate(0, 0, 1), currency.USD, currency.SEK).Return(dec("10.6"), nil)
	next.EXPECT().ExchangeRate(gomock.Any(), day, currency.SEK, currency.USD).Return(dec("0.095"), nil)

	c := rates.NewCache(next)
	ctx := context.Background()
	for _, want := range []struct {
		rate     string
		from, to currency.Code
		days     int
	}{
		{"10.5", currency.USD, currency.SEK, 0},
		{"10.6", currency.USD, currency.SEK, 1},
		{"0.095", currency.SEK, currency.USD, 0},
		{"10.5", currency.USD, currency.SEK, 0},
	} {
		rate, err := c.ExchangeRate(ctx, day.AddDate(0, 0, want.days), want.from, want.to)
		require.NoError(t, err)
		assert.Equal(t, want.rate, rate.String())
	}
}

func TestCache_Forget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockProvider(ctrl)
	next.EXPECT().
		ExchangeRate(gomock.Any(), day, currency.USD, currency.SEK).
		Return(dec("10.5"), nil).
		Times(2)

	c := rates.NewCache(next)
	_, err := c.ExchangeRate(context.Background(), day, currency.USD, currency.SEK)
	require.NoError(t, err)
	c.Forget()
	_, err = c.ExchangeRate(context.Background(), day, currency.USD, currency.SEK)
	require.NoError(t, err)
}

func TestCache_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockProvider(ctrl)
	next.EXPECT().
		ExchangeRate(gomock.Any(), day, currency.USD, currency.SEK).
		Return(dec("10.5"), nil).
		MinTimes(1)

	c := rates.NewCache(next)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rate, err := c.ExchangeRate(context.Background(), day, currency.USD, currency.SEK)
			if err == nil && !rate.Equal(dec("10.5")) {
				err = errors.New("wrong rate " + rate.String())
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
