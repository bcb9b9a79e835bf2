package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Service provides in-memory lookup over the chart of accounts. It
// implements journal.AccountChecker.
type Service struct {
	accounts []Account
	byNumber map[int]Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []Account) *Service {
	byNumber := make(map[int]Account, len(accounts))
	for _, a := range accounts {
		byNumber[a.Number] = a
	}
	return &Service{accounts: accounts, byNumber: byNumber}
}

// Path is where the chart lives under a books root.
func Path(root string) string {
	return filepath.Join(root, "accounts", "chart-of-accounts.csv")
}

// Load reads the chart of accounts under root and returns a Service.
func Load(root string) (*Service, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []Account {
	return s.accounts
}

// Get returns an account by number.
func (s *Service) Get(number int) (Account, bool) {
	a, ok := s.byNumber[number]
	return a, ok
}

// Exists reports whether an account number exists.
func (s *Service) Exists(number int) bool {
	_, ok := s.byNumber[number]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(t Type) []Account {
	var result []Account
	for _, a := range s.accounts {
		if a.Type == t {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts under root.
func (s *Service) Save(root string) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

func sortByNumber(accounts []Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Number < accounts[j].Number })
}
