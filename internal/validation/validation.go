package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid matches every Errors value via errors.Is.
var ErrInvalid = errors.New("validation failed")

// Kind names the invariant a Violation broke.
type Kind string

const (
	KindInvalidCurrencyCode    Kind = "invalid-currency-code"
	KindMissingExchangeRate    Kind = "missing-exchange-rate"
	KindMissingLocalCode       Kind = "missing-local-code"
	KindMissingLocalAmountCode Kind = "missing-local-amount-code"
	KindCodeEqualsLocalCode    Kind = "code-equals-local-code"
	KindExchangeRateZero       Kind = "exchange-rate-zero"
	KindInvalidAmount          Kind = "invalid-amount"
	KindAmountIsZero           Kind = "amount-is-zero"
	KindAccountOutOfRange      Kind = "account-number-out-of-range"
	KindUnknownAccount         Kind = "unknown-account"
	KindTransactionSumNotZero  Kind = "transaction-sum-not-zero"
	KindCurrencyLocalMismatch  Kind = "currency-local-mismatch"
	KindTotalAmountMismatch    Kind = "total-amount-mismatch"
	KindNumberWithoutFiled     Kind = "number-without-date-filed"
	KindFiledWithoutNumber     Kind = "date-filed-without-number"
	KindFiledBeforeCreated     Kind = "date-filed-before-created"
	KindNameTooShort           Kind = "name-too-short"
	KindInternalNameTooShort   Kind = "internal-name-too-short"
	KindInvalidType            Kind = "invalid-type"
	KindInvalidDate            Kind = "invalid-date"
	KindMissingID              Kind = "missing-id"
	KindModifiedBeforeCreated  Kind = "modified-before-created"
	KindDeletedBeforeCreated   Kind = "deleted-before-created"
	KindNoTransactions         Kind = "no-transactions"
	KindDuplicate              Kind = "duplicate"
)

// Violation describes a single invariant violation and the data that broke it.
type Violation struct {
	Kind    Kind
	Field   string
	Message string
	Data    any
}

func (v Violation) Error() string {
	if v.Field == "" {
		return fmt.Sprintf("%s: %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", v.Kind, v.Field, v.Message)
}

// New is shorthand for building a Violation with a formatted message.
func New(kind Kind, field string, data any, format string, args ...any) Violation {
	return Violation{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Data:    data,
	}
}

// Errors is every violation found by one construction or validation pass.
type Errors []Violation

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is lets errors.Is(err, ErrInvalid) match any non-empty Errors.
func (e Errors) Is(target error) bool {
	return target == ErrInvalid && len(e) > 0
}

// Has reports whether a violation of kind is present.
func (e Errors) Has(kind Kind) bool {
	for _, v := range e {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Kinds returns the kinds in the order they were reported.
func (e Errors) Kinds() []Kind {
	kinds := make([]Kind, len(e))
	for i, v := range e {
		kinds[i] = v.Kind
	}
	return kinds
}

// Find returns the first violation of kind.
func (e Errors) Find(kind Kind) (Violation, bool) {
	for _, v := range e {
		if v.Kind == kind {
			return v, true
		}
	}
	return Violation{}, false
}

// From returns nil for an empty list so callers can `return validation.From(vs)`.
func From(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return Errors(violations)
}

// As extracts the violation list from err, if it carries one.
func As(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
