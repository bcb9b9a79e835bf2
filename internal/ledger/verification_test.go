package ledger

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/validation"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func sek(n int64) money.Value {
	return money.FromMinor(n, currency.SEK)
}

func foreign(t *testing.T, amount int64, code, local, rate string) money.Value {
	t.Helper()
	v, err := money.New(money.Params{
		Minor:        big.NewInt(amount),
		Code:         code,
		LocalCode:    local,
		ExchangeRate: decimal.NewNullDecimal(decimal.RequireFromString(rate)),
	})
	require.NoError(t, err)
	return v
}

func tx(t *testing.T, account int, v money.Value) Transaction {
	t.Helper()
	tr, err := NewTransaction(account, v, now)
	require.NoError(t, err)
	return tr
}

func params(txs ...Transaction) Params {
	return Params{
		UserID:       "user-1",
		FiscalYearID: "fy-2025",
		Date:         "2025-03-14",
		Name:         "Office chairs",
		Type:         TypeInvoiceIn,
		Transactions: txs,
	}
}

func balanced(t *testing.T) *Verification {
	t.Helper()
	v, err := NewVerification(params(tx(t, 5410, sek(100000)), tx(t, 2440, sek(-100000))), now)
	require.NoError(t, err)
	return v
}

func kinds(t *testing.T, err error) []validation.Kind {
	t.Helper()
	require.Error(t, err)
	errs, ok := validation.As(err)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	return errs.Kinds()
}

func violationKinds(vs []validation.Violation) []validation.Kind {
	return validation.Errors(vs).Kinds()
}

func TestNewVerification_Balanced(t *testing.T) {
	v := balanced(t)

	assert.Empty(t, v.Validate())
	assert.NotEmpty(t, v.ID)
	require.NotNil(t, v.TotalAmount)
	assert.Equal(t, int64(100000), v.TotalAmount.Amount().Int64())
	assert.Len(t, v.Transactions, 2)
	assert.False(t, v.IsFiled())
}

func TestNewVerification_Unbalanced(t *testing.T) {
	_, err := NewVerification(params(tx(t, 5410, sek(100000)), tx(t, 2440, sek(-90000))), now)
	assert.Equal(t, []validation.Kind{validation.KindTransactionSumNotZero}, kinds(t, err))

	errs, _ := validation.As(err)
	violation, ok := errs.Find(validation.KindTransactionSumNotZero)
	require.True(t, ok)
	rest, ok := violation.Data.(money.Value)
	require.True(t, ok, "data should carry the remainder")
	assert.Equal(t, int64(10000), rest.Amount().Int64())
	assert.Equal(t, currency.SEK, rest.Code())
}

func TestNewVerification_MultiCurrencyBalanced(t *testing.T) {
	usd := foreign(t, 10000, "USD", "SEK", "10.5") // 100.00 USD = 1050.00 SEK
	v, err := NewVerification(params(tx(t, 5410, usd), tx(t, 1930, sek(-105000))), now)
	require.NoError(t, err)
	assert.Empty(t, v.Validate())

	require.NotNil(t, v.TotalAmount)
	same, err := v.TotalAmount.IsEquallyLarge(sek(105000))
	require.NoError(t, err)
	assert.True(t, same)
}

func TestValidate_LocalCurrencyMismatchSkipsSum(t *testing.T) {
	usd := foreign(t, 100, "USD", "SEK", "10")
	eur := foreign(t, 100, "EUR", "NOK", "11")

	p := params(tx(t, 5410, usd), tx(t, 2440, eur))
	p.TotalAmount = &usd
	_, err := NewVerification(p, now)
	assert.Equal(t, []validation.Kind{validation.KindCurrencyLocalMismatch}, kinds(t, err))
}

func TestValidate_MismatchWithoutTotalReportsOnlyMismatch(t *testing.T) {
	usd := foreign(t, 100, "USD", "SEK", "10")
	eur := foreign(t, 100, "EUR", "NOK", "11")

	_, err := NewVerification(params(tx(t, 5410, usd), tx(t, 2440, eur)), now)
	assert.Equal(t, []validation.Kind{validation.KindCurrencyLocalMismatch}, kinds(t, err))
}

func TestBuild_DoesNotValidate(t *testing.T) {
	p := params(tx(t, 5410, sek(100000)), tx(t, 2440, sek(-90000)))
	p.Name = "ab"

	v, errs := Build(p, now)
	require.NotNil(t, v)
	assert.Empty(t, errs)
	require.NotNil(t, v.TotalAmount)
	assert.Equal(t, int64(100000), v.TotalAmount.Amount().Int64())
	assert.Equal(t,
		[]validation.Kind{validation.KindNameTooShort, validation.KindTransactionSumNotZero},
		violationKinds(v.Validate()))
}

func TestBuild_ReportsDuplicateAccounts(t *testing.T) {
	v, errs := Build(params(tx(t, 5410, sek(100)), tx(t, 5410, sek(-100))), now)
	require.NotNil(t, v)
	assert.Len(t, v.Transactions, 1)
	assert.Equal(t, []validation.Kind{validation.KindDuplicate}, violationKinds(errs))
}

func TestValidate_CommonCodeFromFirstTransaction(t *testing.T) {
	total := sek(100)
	p := params(tx(t, 5410, sek(100)), tx(t, 2440, money.FromMinor(-100, currency.USD)))
	p.TotalAmount = &total
	_, err := NewVerification(p, now)
	assert.Equal(t, []validation.Kind{validation.KindCurrencyLocalMismatch}, kinds(t, err))
}

func TestValidate_TotalAmountMismatch(t *testing.T) {
	total := sek(50000)
	p := params(tx(t, 5410, sek(100000)), tx(t, 2440, sek(-100000)))
	p.TotalAmount = &total
	_, err := NewVerification(p, now)
	assert.Equal(t, []validation.Kind{validation.KindTotalAmountMismatch}, kinds(t, err))
}

func TestValidate_TotalAmountMatchesNegativeLine(t *testing.T) {
	total := sek(-100000)
	p := params(tx(t, 5410, sek(100000)), tx(t, 2440, sek(-100000)))
	p.TotalAmount = &total
	_, err := NewVerification(p, now)
	assert.NoError(t, err)
}

func TestNewFieldValidator(t *testing.T) {
	var v interface{ Struct(any) error }
	require.NotPanics(t, func() { v = newFieldValidator() })
	assert.Error(t, v.Struct(struct {
		Type Type `validate:"verificationtype"`
	}{Type: "bogus"}))
}

func TestValidate_Fields(t *testing.T) {
	p := params(tx(t, 5410, sek(100)), tx(t, 2440, sek(-100)))
	p.Name = "ab"
	p.InternalName = "x"
	p.Type = "bogus"
	p.Date = "2025/03/14"

	_, err := NewVerification(p, now)
	assert.ElementsMatch(t, []validation.Kind{
		validation.KindNameTooShort,
		validation.KindInternalNameTooShort,
		validation.KindInvalidType,
		validation.KindInvalidDate,
	}, kinds(t, err))
}

func TestValidate_NoTransactions(t *testing.T) {
	_, err := NewVerification(params(), now)
	assert.Equal(t, []validation.Kind{validation.KindNoTransactions}, kinds(t, err))
}

func TestValidate_DuplicateAccountInParams(t *testing.T) {
	_, err := NewVerification(params(tx(t, 5410, sek(100)), tx(t, 5410, sek(-100))), now)
	errs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, errs.Has(validation.KindDuplicate))
}

func TestValidate_TransactionViolationsAreCollected(t *testing.T) {
	v := balanced(t)
	v.Transactions[0].AccountNumber = 999
	v.Transactions[1].Currency = sek(0)

	errs := validation.Errors(v.Validate())
	assert.True(t, errs.Has(validation.KindAccountOutOfRange))
	assert.True(t, errs.Has(validation.KindAmountIsZero))
	oor, _ := errs.Find(validation.KindAccountOutOfRange)
	assert.Equal(t, "transactions[0].accountNumber", oor.Field)
}

func TestValidate_FilingRules(t *testing.T) {
	v := balanced(t)
	v.Number = 7
	assert.Equal(t, []validation.Kind{validation.KindNumberWithoutFiled}, violationKinds(v.Validate()))

	v = balanced(t)
	early := now.Add(-time.Hour)
	v.DateFiled = &early
	assert.ElementsMatch(t, []validation.Kind{
		validation.KindFiledWithoutNumber,
		validation.KindFiledBeforeCreated,
	}, violationKinds(v.Validate()))
}

func TestFile(t *testing.T) {
	v := balanced(t)
	require.Error(t, v.File(0, now))

	filedAt := now.Add(time.Hour)
	require.NoError(t, v.File(1, filedAt))
	assert.True(t, v.IsFiled())
	assert.Equal(t, 1, v.Number)
	assert.Equal(t, filedAt, *v.DateFiled)
	assert.Equal(t, filedAt, v.Modified)
	assert.Empty(t, v.Validate())

	assert.ErrorIs(t, v.File(2, filedAt), ErrAlreadyFiled)
}

func TestAddTransaction_Duplicate(t *testing.T) {
	v := balanced(t)
	err := v.AddTransaction(tx(t, 5410, sek(5)))
	assert.ErrorIs(t, err, ErrDuplicateAccount)
	assert.Len(t, v.Transactions, 2)

	require.NoError(t, v.AddTransaction(tx(t, 2640, sek(25000))))
	assert.Len(t, v.Transactions, 3)
}

func TestRemoveTransaction_Unfiled(t *testing.T) {
	v := balanced(t)
	later := now.Add(time.Minute)

	require.NoError(t, v.RemoveTransaction(5410, later))
	require.Len(t, v.Transactions, 1)
	assert.Equal(t, 2440, v.Transactions[0].AccountNumber)
	assert.Equal(t, later, v.Modified)

	assert.ErrorIs(t, v.RemoveTransaction(5410, later), ErrTransactionNotFound)
}

func TestRemoveTransaction_FiledIsSoftDelete(t *testing.T) {
	v := balanced(t)
	require.NoError(t, v.File(1, now))
	later := now.Add(time.Minute)

	require.NoError(t, v.RemoveTransaction(5410, later))
	require.Len(t, v.Transactions, 2, "filed verifications keep the line")
	assert.True(t, v.Transactions[0].IsDeleted())
	assert.Equal(t, later, *v.Transactions[0].Deleted)
	assert.Equal(t, later, v.Transactions[0].Modified)
	assert.Len(t, v.ActiveTransactions(), 1)

	// The remaining credit no longer balances.
	assert.Equal(t, []validation.Kind{validation.KindTransactionSumNotZero}, violationKinds(v.Validate()))

	// The account is free again once its line is deleted.
	require.NoError(t, v.AddTransaction(tx(t, 5410, sek(100000))))
	assert.Empty(t, v.Validate())
	assert.Len(t, v.Transactions, 3)

	assert.ErrorIs(t, v.RemoveTransaction(1930, later), ErrTransactionNotFound)
}

func TestValidate_Idempotent(t *testing.T) {
	v := balanced(t)
	v.Transactions[0].Currency = sek(1)
	v.Name = "x"

	first := v.Validate()
	second := v.Validate()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestRecordValidate(t *testing.T) {
	assert.Equal(t, []validation.Kind{validation.KindMissingID}, violationKinds(Record{}.Validate()))
	assert.Equal(t, []validation.Kind{validation.KindMissingID}, violationKinds(Record{ID: "nope"}.Validate()))

	r := NewRecord(now)
	assert.Empty(t, r.Validate())

	r.Modified = now.Add(-time.Minute)
	deleted := now.Add(-time.Hour)
	r.Deleted = &deleted
	assert.Equal(t, []validation.Kind{
		validation.KindModifiedBeforeCreated,
		validation.KindDeletedBeforeCreated,
	}, violationKinds(r.Validate()))
}

func TestNewTransaction_Violations(t *testing.T) {
	_, err := NewTransaction(999, sek(0), now)
	assert.Equal(t, []validation.Kind{validation.KindAccountOutOfRange, validation.KindAmountIsZero}, kinds(t, err))

	_, err = NewTransaction(MaxAccountNumber+1, sek(1), now)
	assert.Equal(t, []validation.Kind{validation.KindAccountOutOfRange}, kinds(t, err))

	for _, account := range []int{MinAccountNumber, MaxAccountNumber} {
		_, err = NewTransaction(account, sek(-1), now)
		assert.NoError(t, err, "account %d", account)
	}
}

func TestComparable(t *testing.T) {
	a := balanced(t)
	b, err := NewVerification(params(tx(t, 2440, sek(-100000)), tx(t, 5410, sek(100000))), now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, IsEqualTo(a.Comparable(), b.Comparable()), "order and identity do not matter")

	c := balanced(t)
	c.Date = "2025-03-15"
	assert.False(t, IsEqualTo(a.Comparable(), c.Comparable()))

	d, err := NewVerification(params(tx(t, 5410, sek(100001)), tx(t, 2440, sek(-100001))), now)
	require.NoError(t, err)
	assert.False(t, IsEqualTo(a.Comparable(), d.Comparable()))

	usd := params(tx(t, 5410, money.FromMinor(100000, currency.USD)), tx(t, 2440, money.FromMinor(-100000, currency.USD)))
	e, err := NewVerification(usd, now)
	require.NoError(t, err)
	assert.False(t, IsEqualTo(a.Comparable(), e.Comparable()), "incomparable amounts differ")
}
