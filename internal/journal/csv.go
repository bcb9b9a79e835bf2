package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/money"
)

// Header is the CSV header for journal.csv. Each row is one transaction; the
// verification columns repeat on every row of the same verification.
const Header = "verification_id,number,date,date_filed,type,name,internal_name,description,user_id,fiscal_year_id,invoice_id,payment_id," +
	"total_amount,total_code,total_local_amount,total_local_code,total_rate,created,modified," +
	"transaction_id,account,amount,code,local_amount,local_code,rate,tx_created,tx_modified,tx_deleted"

const (
	numFields = 29
	timeFmt   = time.RFC3339Nano

	colVerID     = 0
	colNumber    = 1
	colDate      = 2
	colFiled     = 3
	colType      = 4
	colName      = 5
	colInternal  = 6
	colDesc      = 7
	colUser      = 8
	colFiscal    = 9
	colInvoice   = 10
	colPayment   = 11
	colTotal     = 12 // 5 money columns
	colCreated   = 17
	colModified  = 18
	colTxID      = 19
	colAccount   = 20
	colAmount    = 21 // 5 money columns
	colTxCreated = 26
	colTxMod     = 27
	colTxDeleted = 28
)

// ReadVerifications reads all verifications from a journal.csv reader. Rows
// sharing a verification_id are grouped in file order.
func ReadVerifications(r io.Reader) ([]*ledger.Verification, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []*ledger.Verification
	byID := make(map[string]*ledger.Verification)
	for i, rec := range records[1:] {
		v, ok := byID[rec[colVerID]]
		if !ok {
			v, err = unmarshalVerification(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			byID[v.ID] = v
			out = append(out, v)
		}
		t, err := unmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		v.Transactions = append(v.Transactions, t)
	}
	return out, nil
}

// WriteVerifications writes vs to a journal.csv writer (including header).
func WriteVerifications(w io.Writer, vs []*ledger.Verification) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return writeRows(cw, vs)
}

// AppendVerifications appends vs to an existing journal.csv writer (no header).
func AppendVerifications(w io.Writer, vs []*ledger.Verification) error {
	return writeRows(csv.NewWriter(w), vs)
}

func writeRows(cw *csv.Writer, vs []*ledger.Verification) error {
	for _, v := range vs {
		if err := cw.WriteAll(MarshalVerification(v)); err != nil {
			return fmt.Errorf("writing verification %s: %w", v.ID, err)
		}
	}
	return cw.Error()
}

// MarshalVerification converts v to one CSV row per transaction.
func MarshalVerification(v *ledger.Verification) [][]string {
	rows := make([][]string, 0, len(v.Transactions))
	for _, t := range v.Transactions {
		row := make([]string, numFields)
		row[colVerID] = v.ID
		if v.Number > 0 {
			row[colNumber] = strconv.Itoa(v.Number)
		}
		row[colDate] = v.Date
		row[colFiled] = formatTime(v.DateFiled)
		row[colType] = string(v.Type)
		row[colName] = v.Name
		row[colInternal] = v.InternalName
		row[colDesc] = v.Description
		row[colUser] = v.UserID
		row[colFiscal] = v.FiscalYearID
		row[colInvoice] = v.InvoiceID
		row[colPayment] = v.PaymentID
		if v.TotalAmount != nil {
			copy(row[colTotal:], marshalMoney(*v.TotalAmount))
		}
		row[colCreated] = v.Created.Format(timeFmt)
		row[colModified] = v.Modified.Format(timeFmt)

		row[colTxID] = t.ID
		row[colAccount] = strconv.Itoa(t.AccountNumber)
		copy(row[colAmount:], marshalMoney(t.Currency))
		row[colTxCreated] = t.Created.Format(timeFmt)
		row[colTxMod] = t.Modified.Format(timeFmt)
		row[colTxDeleted] = formatTime(t.Deleted)
		rows = append(rows, row)
	}
	return rows
}

func unmarshalVerification(rec []string) (*ledger.Verification, error) {
	v := &ledger.Verification{
		Date:         rec[colDate],
		Type:         ledger.Type(rec[colType]),
		Name:         rec[colName],
		InternalName: rec[colInternal],
		Description:  rec[colDesc],
		UserID:       rec[colUser],
		FiscalYearID: rec[colFiscal],
		InvoiceID:    rec[colInvoice],
		PaymentID:    rec[colPayment],
	}
	v.ID = rec[colVerID]

	var err error
	if rec[colNumber] != "" {
		if v.Number, err = strconv.Atoi(rec[colNumber]); err != nil {
			return nil, fmt.Errorf("parsing number %q: %w", rec[colNumber], err)
		}
	}
	if v.DateFiled, err = parseOptionalTime(rec[colFiled]); err != nil {
		return nil, fmt.Errorf("parsing date_filed: %w", err)
	}
	if rec[colTotal+1] != "" {
		total, err := unmarshalMoney(rec[colTotal : colTotal+5])
		if err != nil {
			return nil, fmt.Errorf("parsing total amount: %w", err)
		}
		v.TotalAmount = &total
	}
	if v.Created, err = time.Parse(timeFmt, rec[colCreated]); err != nil {
		return nil, fmt.Errorf("parsing created: %w", err)
	}
	if v.Modified, err = time.Parse(timeFmt, rec[colModified]); err != nil {
		return nil, fmt.Errorf("parsing modified: %w", err)
	}
	return v, nil
}

func unmarshalTransaction(rec []string) (ledger.Transaction, error) {
	var t ledger.Transaction
	t.ID = rec[colTxID]

	var err error
	if t.AccountNumber, err = strconv.Atoi(rec[colAccount]); err != nil {
		return t, fmt.Errorf("parsing account %q: %w", rec[colAccount], err)
	}
	if t.Currency, err = unmarshalMoney(rec[colAmount : colAmount+5]); err != nil {
		return t, fmt.Errorf("parsing amount of account %d: %w", t.AccountNumber, err)
	}
	if t.Created, err = time.Parse(timeFmt, rec[colTxCreated]); err != nil {
		return t, fmt.Errorf("parsing tx_created: %w", err)
	}
	if t.Modified, err = time.Parse(timeFmt, rec[colTxMod]); err != nil {
		return t, fmt.Errorf("parsing tx_modified: %w", err)
	}
	if t.Deleted, err = parseOptionalTime(rec[colTxDeleted]); err != nil {
		return t, fmt.Errorf("parsing tx_deleted: %w", err)
	}
	return t, nil
}

// marshalMoney renders amount, code, local amount, local code and rate.
// Amounts stay in minor units so the round-trip is exact.
func marshalMoney(m money.Value) []string {
	cols := []string{m.MinorString(), m.Code().Name, m.LocalMinorString(), "", ""}
	if code, ok := m.LocalCode(); ok {
		cols[3] = code.Name
	}
	if rate, ok := m.ExchangeRate(); ok {
		cols[4] = rate.String()
	}
	return cols
}

func unmarshalMoney(cols []string) (money.Value, error) {
	p := money.Params{Code: cols[1], LocalCode: cols[3]}

	var err error
	if p.Minor, err = money.ParseMinor(cols[0]); err != nil {
		return money.Value{}, err
	}
	if cols[2] != "" {
		if p.LocalAmount, err = money.ParseMinor(cols[2]); err != nil {
			return money.Value{}, err
		}
	}
	if cols[4] != "" {
		rate, err := decimal.NewFromString(cols[4])
		if err != nil {
			return money.Value{}, fmt.Errorf("parsing rate %q: %w", cols[4], err)
		}
		p.ExchangeRate = decimal.NewNullDecimal(rate)
	}
	return money.New(p)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFmt)
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(timeFmt, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
