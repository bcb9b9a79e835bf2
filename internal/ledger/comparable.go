package ledger

import (
	"sort"

	"github.com/cleared-dev/tally/internal/money"
)

// Line is the comparable part of a transaction.
type Line struct {
	AccountNumber int
	Amount        money.Value
}

// Comparable is the part of a verification that identifies the business event,
// independent of IDs and audit timestamps. Used to detect duplicates.
type Comparable struct {
	Date        string
	Type        Type
	TotalAmount *money.Value
	Lines       []Line // active transactions, sorted by account
}

// Comparable snapshots v for IsEqualTo.
func (v *Verification) Comparable() Comparable {
	active := v.ActiveTransactions()
	lines := make([]Line, len(active))
	for i, t := range active {
		lines[i] = Line{AccountNumber: t.AccountNumber, Amount: t.Currency}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].AccountNumber < lines[j].AccountNumber })

	c := Comparable{Date: v.Date, Type: v.Type, Lines: lines}
	if v.TotalAmount != nil {
		total := *v.TotalAmount
		c.TotalAmount = &total
	}
	return c
}

// IsEqualTo reports whether a and b describe the same event. Amounts that
// cannot be compared count as different.
func IsEqualTo(a, b Comparable) bool {
	if a.Date != b.Date || a.Type != b.Type || len(a.Lines) != len(b.Lines) {
		return false
	}
	if (a.TotalAmount == nil) != (b.TotalAmount == nil) {
		return false
	}
	if a.TotalAmount != nil && !sameAmount(*a.TotalAmount, *b.TotalAmount) {
		return false
	}
	for i := range a.Lines {
		if a.Lines[i].AccountNumber != b.Lines[i].AccountNumber {
			return false
		}
		if !sameAmount(a.Lines[i].Amount, b.Lines[i].Amount) {
			return false
		}
	}
	return true
}

func sameAmount(a, b money.Value) bool {
	eq, err := a.IsEqualTo(b)
	return err == nil && eq
}
