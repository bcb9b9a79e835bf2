package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/go-playground/validator/v10"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/validation"
)

var fields = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("verificationtype", func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("registering verificationtype validation: %v", err))
	}
	return v
}

// fieldKinds maps struct fields checked by tags to the violation they report.
var fieldKinds = map[string]validation.Kind{
	"Date":         validation.KindInvalidDate,
	"Name":         validation.KindNameTooShort,
	"InternalName": validation.KindInternalNameTooShort,
	"Type":         validation.KindInvalidType,
}

// Validate checks every invariant and returns all violations found. It never
// mutates v, so calling it twice on an unmodified verification gives the same
// result.
func (v *Verification) Validate() []validation.Violation {
	errs := v.Record.Validate()
	errs = append(errs, v.validateFields()...)

	for i, t := range v.Transactions {
		for _, e := range t.Validate() {
			e.Field = fmt.Sprintf("transactions[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
	}

	active := v.ActiveTransactions()
	if len(active) == 0 {
		errs = append(errs, validation.New(validation.KindNoTransactions, "transactions", nil,
			"verification has no transactions"))
	} else {
		balance := checkBalance(active)
		errs = append(errs, balance...)
		// Lines in different currencies have no common magnitude to hold
		// TotalAmount against.
		if !validation.Errors(balance).Has(validation.KindCurrencyLocalMismatch) {
			errs = append(errs, v.checkTotalAmount(active)...)
		}
	}

	return append(errs, v.checkFiling()...)
}

func (v *Verification) validateFields() []validation.Violation {
	err := fields.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []validation.Violation{validation.New(validation.KindInvalidType, "", nil, "%v", err)}
	}

	var errs []validation.Violation
	for _, fe := range fieldErrs {
		kind, ok := fieldKinds[fe.StructField()]
		if !ok {
			kind = validation.KindInvalidType
		}
		errs = append(errs, validation.New(kind, lowerFirst(fe.StructField()), fe.Value(),
			"%s fails %q (got %q)", fe.StructField(), fe.ActualTag(), fmt.Sprint(fe.Value())))
	}
	return errs
}

// commonLocalCode is the first local code among txs, or the first
// transaction's own code when none has a local code.
func commonLocalCode(txs []Transaction) currency.Code {
	for _, t := range txs {
		if code, ok := t.Currency.LocalCode(); ok {
			return code
		}
	}
	return txs[0].Currency.Code()
}

// checkBalance requires the local amounts of txs to sum to zero. When the
// lines do not share one local currency the sum is not attempted.
func checkBalance(txs []Transaction) []validation.Violation {
	common := commonLocalCode(txs)

	var errs []validation.Violation
	sum := new(big.Int)
	for _, t := range txs {
		amount, code := t.Currency.LocalOrAmount()
		if !code.Equal(common) {
			errs = append(errs, validation.New(validation.KindCurrencyLocalMismatch, "transactions", code.Name,
				"account %d is booked in %s, expected %s", t.AccountNumber, code, common))
			continue
		}
		sum.Add(sum, amount)
	}
	if len(errs) > 0 {
		return errs
	}

	if sum.Sign() != 0 {
		rest := money.FromBig(sum, common)
		errs = append(errs, validation.New(validation.KindTransactionSumNotZero, "transactions", rest,
			"transactions sum to %s, not zero", rest))
	}
	return errs
}

// checkTotalAmount requires TotalAmount to be equally large as one of txs.
func (v *Verification) checkTotalAmount(txs []Transaction) []validation.Violation {
	if v.TotalAmount == nil {
		return []validation.Violation{validation.New(validation.KindTotalAmountMismatch, "totalAmount", nil,
			"total amount is missing")}
	}
	for _, t := range txs {
		if same, err := v.TotalAmount.IsEquallyLarge(t.Currency); err == nil && same {
			return nil
		}
	}
	return []validation.Violation{validation.New(validation.KindTotalAmountMismatch, "totalAmount", *v.TotalAmount,
		"total amount %s matches no transaction", v.TotalAmount)}
}

func (v *Verification) checkFiling() []validation.Violation {
	var errs []validation.Violation
	if v.Number != 0 && v.DateFiled == nil {
		errs = append(errs, validation.New(validation.KindNumberWithoutFiled, "dateFiled", v.Number,
			"number %d is set but date filed is not", v.Number))
	}
	if v.DateFiled != nil {
		if v.Number == 0 {
			errs = append(errs, validation.New(validation.KindFiledWithoutNumber, "number", *v.DateFiled,
				"date filed is set but number is not"))
		}
		if v.DateFiled.Before(v.Created) {
			errs = append(errs, validation.New(validation.KindFiledBeforeCreated, "dateFiled", *v.DateFiled,
				"date filed %s is before created %s", v.DateFiled.Format(DateFormat), v.Created.Format(DateFormat)))
		}
	}
	return errs
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]+'a'-'A') + s[1:]
}
