package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolation_Error(t *testing.T) {
	v := New(KindAmountIsZero, "currency", 0, "amount must not be %s", "zero")
	assert.Equal(t, "amount-is-zero [currency]: amount must not be zero", v.Error())

	v.Field = ""
	assert.Equal(t, "amount-is-zero: amount must not be zero", v.Error())
}

func TestErrors(t *testing.T) {
	errs := Errors{
		New(KindNameTooShort, "name", "ab", "too short"),
		New(KindNoTransactions, "transactions", nil, "none"),
	}

	assert.Equal(t, "validation failed: name-too-short [name]: too short; no-transactions [transactions]: none", errs.Error())
	assert.True(t, errs.Has(KindNoTransactions))
	assert.False(t, errs.Has(KindDuplicate))
	assert.Equal(t, []Kind{KindNameTooShort, KindNoTransactions}, errs.Kinds())

	v, ok := errs.Find(KindNameTooShort)
	require.True(t, ok)
	assert.Equal(t, "ab", v.Data)
	_, ok = errs.Find(KindInvalidDate)
	assert.False(t, ok)
}

func TestErrorsIsInvalid(t *testing.T) {
	wrapped := fmt.Errorf("saving: %w", Errors{New(KindMissingID, "id", "", "missing")})
	assert.ErrorIs(t, wrapped, ErrInvalid)
	assert.False(t, errors.Is(Errors{}, ErrInvalid))
	assert.False(t, errors.Is(errors.New("other"), ErrInvalid))
}

func TestFrom(t *testing.T) {
	assert.NoError(t, From(nil))

	err := From([]Violation{New(KindInvalidType, "type", "x", "bad")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", From([]Violation{New(KindInvalidType, "type", "x", "bad")}))
	errs, ok := As(wrapped)
	require.True(t, ok)
	assert.Len(t, errs, 1)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
