package accounts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Columns of chart-of-accounts.csv, in file order.
var columns = []string{"account_number", "account_name", "account_type", "vat_code", "description"}

const (
	colNumber = iota
	colName
	colType
	colVAT
	colDesc
)

// ReadAccounts reads chart-of-accounts.csv. The header must name the columns
// in order, and an account number may appear only once.
func ReadAccounts(r io.Reader) ([]Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts header: %w", err)
	}
	if !slices.Equal(head, columns) {
		return nil, fmt.Errorf("unexpected accounts header %q", head)
	}

	var accounts []Account
	seen := make(map[int]int)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return accounts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading accounts CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, dup := seen[acct.Number]; dup {
			return nil, fmt.Errorf("line %d: account %d already defined on line %d", line, acct.Number, first)
		}
		seen[acct.Number] = line
		accounts = append(accounts, acct)
	}
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []Account) error {
	cw := csv.NewWriter(w)
	rows := make([][]string, 0, len(accounts)+1)
	rows = append(rows, columns)
	for _, acct := range accounts {
		rows = append(rows, MarshalAccount(acct))
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing accounts CSV: %w", err)
	}
	return nil
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct Account) []string {
	return []string{strconv.Itoa(acct.Number), acct.Name, string(acct.Type), acct.VATCode, acct.Description}
}

// UnmarshalAccount converts a CSV row to an Account. The number must lie in
// the BAS range; an empty type is derived from the number's class and a
// given type must be one the class allows.
func UnmarshalAccount(record []string) (Account, error) {
	if len(record) != len(columns) {
		return Account{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(record))
	}

	number, err := strconv.Atoi(record[colNumber])
	if err != nil {
		return Account{}, fmt.Errorf("parsing account_number %q: %w", record[colNumber], err)
	}
	derived, ok := TypeOf(number)
	if !ok {
		return Account{}, fmt.Errorf("account number %d out of range", number)
	}
	if record[colName] == "" {
		return Account{}, fmt.Errorf("account %d has no name", number)
	}

	typ := Type(record[colType])
	switch {
	case typ == "":
		typ = derived
	case !typ.Valid():
		return Account{}, fmt.Errorf("unknown account_type %q", record[colType])
	case !Allows(number, typ):
		return Account{}, fmt.Errorf("account %d is in class %d, which does not hold %s accounts", number, number/1000, typ)
	}

	if vat := record[colVAT]; vat != "" {
		if rate, err := strconv.Atoi(vat); err != nil || rate < 0 || rate > 100 {
			return Account{}, fmt.Errorf("account %d: vat_code %q is not a percentage", number, vat)
		}
	}

	return Account{
		Number:      number,
		Name:        record[colName],
		Type:        typ,
		VATCode:     record[colVAT],
		Description: record[colDesc],
	}, nil
}
