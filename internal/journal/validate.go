package journal

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/validation"
)

// AccountChecker tests whether an account number exists in the chart of accounts.
type AccountChecker interface {
	Exists(number int) bool
}

// Check runs the ledger invariants on v and requires every active
// transaction to book against a known account.
func Check(v *ledger.Verification, accounts AccountChecker) []validation.Violation {
	errs := v.Validate()
	for i, t := range v.Transactions {
		if t.IsDeleted() || accounts.Exists(t.AccountNumber) {
			continue
		}
		errs = append(errs, validation.New(validation.KindUnknownAccount,
			fmt.Sprintf("transactions[%d].accountNumber", i), t.AccountNumber,
			"unknown account %d", t.AccountNumber))
	}
	return errs
}
