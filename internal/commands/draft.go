package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/validation"
)

// draft is the YAML form of a verification read by `verification add` and
// `verification validate`. Amounts are in major units.
type draft struct {
	Date         string       `yaml:"date"`
	Name         string       `yaml:"name"`
	InternalName string       `yaml:"internal_name"`
	Description  string       `yaml:"description"`
	Type         string       `yaml:"type"`
	InvoiceID    string       `yaml:"invoice_id"`
	PaymentID    string       `yaml:"payment_id"`
	UserID       string       `yaml:"user_id"`
	FiscalYearID string       `yaml:"fiscal_year_id"`
	TotalAmount  *draftAmount `yaml:"total_amount"`
	Transactions []draftLine  `yaml:"transactions"`
}

type draftAmount struct {
	Amount string `yaml:"amount"`
	Code   string `yaml:"code"`
}

// draftLine books amount in code (default: the local currency). Foreign lines
// take their local amount from exchange_rate, local_amount, or the rate store.
type draftLine struct {
	Account      int    `yaml:"account"`
	Amount       string `yaml:"amount"`
	Code         string `yaml:"code"`
	LocalAmount  string `yaml:"local_amount"`
	ExchangeRate string `yaml:"exchange_rate"`
}

// localConverter is satisfied by *rates.Converter.
type localConverter interface {
	ToLocal(ctx context.Context, date time.Time, v money.Value, local currency.Code) (money.Value, error)
}

func readDraft(path string) (*draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening draft: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var d draft
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing draft %s: %w", path, err)
	}
	return &d, nil
}

// build turns d into an unvalidated verification. Lines that cannot become
// transactions fail the build with their violations collected; violations
// found while assembling the verification are returned for the caller to
// report along with Validate and the account checks.
func (d *draft) build(ctx context.Context, local currency.Code, conv localConverter, now time.Time) (*ledger.Verification, []validation.Violation, error) {
	date, err := time.Parse(ledger.DateFormat, d.Date)
	if err != nil {
		return nil, nil, validation.Errors{validation.New(validation.KindInvalidDate, "date", d.Date,
			"date %q is not YYYY-MM-DD", d.Date)}
	}

	var errs validation.Errors
	p := ledger.Params{
		UserID:       d.UserID,
		FiscalYearID: d.FiscalYearID,
		Date:         d.Date,
		Name:         d.Name,
		InternalName: d.InternalName,
		Description:  d.Description,
		Type:         ledger.Type(d.Type),
		InvoiceID:    d.InvoiceID,
		PaymentID:    d.PaymentID,
	}

	for i, l := range d.Transactions {
		field := fmt.Sprintf("transactions[%d]", i)
		v, err := l.value(ctx, date, local, conv)
		if err != nil {
			if !collect(&errs, field, err) {
				return nil, nil, fmt.Errorf("%s: %w", field, err)
			}
			continue
		}
		t, err := ledger.NewTransaction(l.Account, v, now)
		if err != nil {
			collect(&errs, field, err)
			continue
		}
		p.Transactions = append(p.Transactions, t)
	}

	if d.TotalAmount != nil {
		total, err := money.Parse(d.TotalAmount.Amount, d.TotalAmount.Code)
		if err != nil {
			collect(&errs, "totalAmount", err)
		} else {
			p.TotalAmount = &total
		}
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	v, built := ledger.Build(p, now)
	return v, built, nil
}

func (l draftLine) value(ctx context.Context, date time.Time, local currency.Code, conv localConverter) (money.Value, error) {
	amount, err := decimal.NewFromString(l.Amount)
	if err != nil {
		return money.Value{}, validation.Errors{validation.New(validation.KindInvalidAmount, "amount", l.Amount,
			"parsing amount %q: %v", l.Amount, err)}
	}
	if l.Code == "" {
		return money.New(money.Params{Amount: amount, Currency: local})
	}
	code, err := currency.Lookup(l.Code)
	if err != nil || code.Equal(local) {
		return money.New(money.Params{Amount: amount, Code: l.Code})
	}

	p := money.Params{Amount: amount, Currency: code, LocalCurrency: local}
	if l.ExchangeRate != "" {
		rate, err := decimal.NewFromString(l.ExchangeRate)
		if err != nil {
			return money.Value{}, validation.Errors{validation.New(validation.KindInvalidAmount, "exchangeRate", l.ExchangeRate,
				"parsing exchange rate %q: %v", l.ExchangeRate, err)}
		}
		p.ExchangeRate = decimal.NewNullDecimal(rate)
	}
	if l.LocalAmount != "" {
		localValue, err := money.Parse(l.LocalAmount, local.Name)
		if err != nil {
			return money.Value{}, err
		}
		p.LocalAmount = localValue.Amount()
	}
	if p.ExchangeRate.Valid || p.LocalAmount != nil {
		return money.New(p)
	}

	foreign, err := money.New(money.Params{Amount: amount, Currency: code})
	if err != nil {
		return money.Value{}, err
	}
	return conv.ToLocal(ctx, date, foreign, local)
}

// collect appends the violations in err to errs with field prefixed. It
// reports false when err carries no violations.
func collect(errs *validation.Errors, field string, err error) bool {
	vs, ok := validation.As(err)
	if !ok {
		return false
	}
	for _, v := range vs {
		if v.Field != "" {
			v.Field = field + "." + v.Field
		} else {
			v.Field = field
		}
		*errs = append(*errs, v)
	}
	return true
}

// printViolations writes one line per violation.
func printViolations(w io.Writer, vs validation.Errors) {
	for _, v := range vs {
		fmt.Fprintf(w, "  - %s\n", v.Error())
	}
}

var errInvalidDraft = errors.New("draft is not a valid verification")
