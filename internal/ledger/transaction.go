package ledger

import (
	"time"

	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/validation"
)

// Valid account numbers, inclusive.
const (
	MinAccountNumber = 1000
	MaxAccountNumber = 9999
)

// Transaction is one debit (positive) or credit (negative) line of a Verification.
type Transaction struct {
	Record
	AccountNumber int
	Currency      money.Value
}

// NewTransaction builds and validates a transaction line.
func NewTransaction(accountNumber int, value money.Value, now time.Time) (Transaction, error) {
	t := Transaction{
		Record:        NewRecord(now),
		AccountNumber: accountNumber,
		Currency:      value,
	}
	if errs := t.Validate(); len(errs) > 0 {
		return Transaction{}, validation.Errors(errs)
	}
	return t, nil
}

// Validate runs the record checks, then the transaction's own.
func (t Transaction) Validate() []validation.Violation {
	errs := t.Record.Validate()

	if t.AccountNumber < MinAccountNumber || t.AccountNumber > MaxAccountNumber {
		errs = append(errs, validation.New(validation.KindAccountOutOfRange, "accountNumber", t.AccountNumber,
			"account %d outside %d..%d", t.AccountNumber, MinAccountNumber, MaxAccountNumber))
	}
	if t.Currency.IsZero() {
		errs = append(errs, validation.New(validation.KindAmountIsZero, "currency", t.Currency,
			"amount must not be zero"))
	}
	return errs
}
