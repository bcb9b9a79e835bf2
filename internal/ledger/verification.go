package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/validation"
)

// Operation errors.
var (
	ErrDuplicateAccount    = errors.New("account already has a transaction")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyFiled        = errors.New("verification already filed")
)

// DateFormat is the ISO layout of Verification.Date.
const DateFormat = "2006-01-02"

// Type is the kind of business event a verification records.
type Type string

const (
	TypeInvoiceIn         Type = "invoice-in"
	TypeInvoiceInPayment  Type = "invoice-in-payment"
	TypeInvoiceOut        Type = "invoice-out"
	TypeInvoiceOutPayment Type = "invoice-out-payment"
	TypeTransfer          Type = "transfer"
	TypeTax               Type = "tax"
	TypeSalary            Type = "salary"
	TypeOther             Type = "other"
)

// Types lists every valid Type.
var Types = []Type{
	TypeInvoiceIn, TypeInvoiceInPayment, TypeInvoiceOut, TypeInvoiceOutPayment,
	TypeTransfer, TypeTax, TypeSalary, TypeOther,
}

// Valid reports whether t is one of Types.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Verification is one business event posted as two or more balanced transactions.
// It is not safe for concurrent mutation; Validate reads a single snapshot.
type Verification struct {
	Record
	UserID       string
	FiscalYearID string
	Number       int        // 0 until filed
	DateFiled    *time.Time // nil until filed
	Date         string     `validate:"datetime=2006-01-02"`
	Name         string     `validate:"min=3"`
	InternalName string     `validate:"omitempty,min=3"`
	Description  string
	Type         Type `validate:"verificationtype"`
	InvoiceID    string
	PaymentID    string
	TotalAmount  *money.Value `validate:"-"`
	Transactions []Transaction `validate:"-"`
}

// Params are the inputs of NewVerification.
type Params struct {
	UserID       string
	FiscalYearID string
	Date         string
	Name         string
	InternalName string
	Description  string
	Type         Type
	InvoiceID    string
	PaymentID    string
	TotalAmount  *money.Value // computed from the transactions when nil
	Transactions []Transaction
}

// Build assembles a verification from p without validating it: the
// transactions are added in order and TotalAmount is computed when not
// supplied. Transactions colliding on an account are returned as duplicate
// violations and left out.
func Build(p Params, now time.Time) (*Verification, []validation.Violation) {
	v := &Verification{
		Record:       NewRecord(now),
		UserID:       p.UserID,
		FiscalYearID: p.FiscalYearID,
		Date:         p.Date,
		Name:         p.Name,
		InternalName: p.InternalName,
		Description:  p.Description,
		Type:         p.Type,
		InvoiceID:    p.InvoiceID,
		PaymentID:    p.PaymentID,
		TotalAmount:  p.TotalAmount,
	}

	var errs []validation.Violation
	for _, t := range p.Transactions {
		if err := v.AddTransaction(t); err != nil {
			errs = append(errs, validation.New(validation.KindDuplicate, "transactions", t.AccountNumber, "%v", err))
		}
	}

	// Incomparable lines leave TotalAmount nil; Validate reports them as a
	// currency mismatch.
	if v.TotalAmount == nil {
		if total, ok, err := v.ComputeTotalAmount(); err == nil && ok {
			v.TotalAmount = &total
		}
	}
	return v, errs
}

// NewVerification is Build followed by Validate. It returns a verification
// only when no violation was found.
func NewVerification(p Params, now time.Time) (*Verification, error) {
	v, errs := Build(p, now)
	errs = append(errs, v.Validate()...)
	if len(errs) > 0 {
		return nil, validation.Errors(errs)
	}
	return v, nil
}

// IsFiled reports whether the verification has been given a number or a
// filing date. Filed verifications only allow soft deletes.
func (v *Verification) IsFiled() bool {
	return v.Number > 0 || v.DateFiled != nil
}

// ActiveTransactions returns the transactions that are not soft deleted.
func (v *Verification) ActiveTransactions() []Transaction {
	active := make([]Transaction, 0, len(v.Transactions))
	for _, t := range v.Transactions {
		if !t.IsDeleted() {
			active = append(active, t)
		}
	}
	return active
}

// AddTransaction appends t unless a non-deleted transaction already uses its account.
func (v *Verification) AddTransaction(t Transaction) error {
	for _, existing := range v.Transactions {
		if !existing.IsDeleted() && existing.AccountNumber == t.AccountNumber {
			return fmt.Errorf("%w: %d", ErrDuplicateAccount, t.AccountNumber)
		}
	}
	v.Transactions = append(v.Transactions, t)
	return nil
}

// RemoveTransaction removes the non-deleted transaction on accountNumber.
// A filed verification keeps the line and marks it deleted at now.
func (v *Verification) RemoveTransaction(accountNumber int, now time.Time) error {
	for i, t := range v.Transactions {
		if t.IsDeleted() || t.AccountNumber != accountNumber {
			continue
		}
		if v.IsFiled() {
			v.Transactions[i].markDeleted(now)
			v.Modified = now
			return nil
		}
		kept := make([]Transaction, 0, len(v.Transactions)-1)
		kept = append(kept, v.Transactions[:i]...)
		v.Transactions = append(kept, v.Transactions[i+1:]...)
		v.Modified = now
		return nil
	}
	return fmt.Errorf("%w: account %d", ErrTransactionNotFound, accountNumber)
}

// File assigns the verification its permanent number and filing date.
func (v *Verification) File(number int, at time.Time) error {
	if v.IsFiled() {
		return fmt.Errorf("%w: %s is number %d", ErrAlreadyFiled, v.ID, v.Number)
	}
	if number <= 0 {
		return fmt.Errorf("filing %s: number must be positive, got %d", v.ID, number)
	}
	v.Number = number
	v.DateFiled = &at
	v.Modified = at
	return nil
}

// ComputeTotalAmount returns the absolute value of the active transaction with
// the largest magnitude. ok is false when there are no active transactions.
func (v *Verification) ComputeTotalAmount() (total money.Value, ok bool, err error) {
	for _, t := range v.ActiveTransactions() {
		if !ok {
			total, ok = t.Currency, true
			continue
		}
		larger, err := t.Currency.IsLargerThan(total)
		if err != nil {
			return money.Value{}, false, fmt.Errorf("computing total amount: %w", err)
		}
		if larger {
			total = t.Currency
		}
	}
	return total.Absolute(), ok, nil
}
