package accounts

import "github.com/cleared-dev/tally/internal/ledger"

// Type classifies accounts in the chart of accounts.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Types lists every account type.
var Types = []Type{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense}

// Valid reports whether t is one of Types.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Account is one row of chart-of-accounts.csv.
type Account struct {
	Number      int
	Name        string
	Type        Type
	VATCode     string // e.g. "25" for 25 % VAT, empty when not applicable
	Description string
}

// TypeOf derives the type of a BAS account from its class (first digit).
// Accounts 2000-2099 are equity; the rest of class 2 are liabilities.
func TypeOf(number int) (Type, bool) {
	if number < ledger.MinAccountNumber || number > ledger.MaxAccountNumber {
		return "", false
	}
	switch class := number / 1000; {
	case class == 1:
		return TypeAsset, true
	case class == 2 && number < 2100:
		return TypeEquity, true
	case class == 2:
		return TypeLiability, true
	case class == 3:
		return TypeRevenue, true
	default:
		return TypeExpense, true
	}
}

// Allows reports whether a BAS account number may carry type t. Class 2
// holds equity and liabilities; classes 8 and 9 hold both financial income
// and expenses.
func Allows(number int, t Type) bool {
	if _, ok := TypeOf(number); !ok {
		return false
	}
	switch number / 1000 {
	case 1:
		return t == TypeAsset
	case 2:
		return t == TypeEquity || t == TypeLiability
	case 3:
		return t == TypeRevenue
	case 8, 9:
		return t == TypeRevenue || t == TypeExpense
	default:
		return t == TypeExpense
	}
}
