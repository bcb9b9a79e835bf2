package journal

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/validation"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	ids map[int]bool
}

func (m *mockAccounts) Exists(number int) bool {
	return m.ids[number]
}

func newMockAccounts(ids ...int) *mockAccounts {
	m := &mockAccounts{ids: make(map[int]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

var (
	created         = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	defaultAccounts = newMockAccounts(1930, 2440, 2640, 5410, 6570)
)

type line struct {
	account int
	value   money.Value
}

func sek(n int64) money.Value {
	return money.FromMinor(n, currency.SEK)
}

func usdInSEK(t *testing.T, n int64, rate string) money.Value {
	t.Helper()
	v, err := money.New(money.Params{
		Minor:         big.NewInt(n),
		Currency:      currency.USD,
		LocalCurrency: currency.SEK,
		ExchangeRate:  decimal.NewNullDecimal(decimal.RequireFromString(rate)),
	})
	require.NoError(t, err)
	return v
}

func newVerification(t *testing.T, date, name string, lines ...line) *ledger.Verification {
	t.Helper()
	p := ledger.Params{
		UserID:       "user-1",
		FiscalYearID: "2025",
		Date:         date,
		Name:         name,
		Type:         ledger.TypeInvoiceIn,
	}
	for _, l := range lines {
		tr, err := ledger.NewTransaction(l.account, l.value, created)
		require.NoError(t, err)
		p.Transactions = append(p.Transactions, tr)
	}
	v, err := ledger.NewVerification(p, created)
	require.NoError(t, err)
	return v
}

func chairs(t *testing.T, date string) *ledger.Verification {
	t.Helper()
	return newVerification(t, date, "Office chairs",
		line{5410, sek(100000)},
		line{2640, sek(25000)},
		line{2440, sek(-125000)},
	)
}

func TestCheck_Valid(t *testing.T) {
	assert.Empty(t, Check(chairs(t, "2025-01-15"), defaultAccounts))
}

func TestCheck_UnknownAccount(t *testing.T) {
	v := chairs(t, "2025-01-15")
	errs := validation.Errors(Check(v, newMockAccounts(5410, 2440)))

	require.Len(t, errs, 1)
	assert.Equal(t, validation.KindUnknownAccount, errs[0].Kind)
	assert.Equal(t, "transactions[1].accountNumber", errs[0].Field)
	assert.Equal(t, 2640, errs[0].Data)
}

func TestCheck_DeletedLinesIgnoreAccounts(t *testing.T) {
	v := chairs(t, "2025-01-15")
	require.NoError(t, v.File(1, created))
	require.NoError(t, v.RemoveTransaction(2640, created))

	errs := validation.Errors(Check(v, newMockAccounts(5410, 2440)))
	assert.False(t, errs.Has(validation.KindUnknownAccount))
	assert.True(t, errs.Has(validation.KindTransactionSumNotZero))
}

func TestCheck_CarriesLedgerViolations(t *testing.T) {
	v := chairs(t, "2025-01-15")
	v.Name = "no"
	errs := validation.Errors(Check(v, defaultAccounts))
	assert.Equal(t, []validation.Kind{validation.KindNameTooShort}, errs.Kinds())
}
