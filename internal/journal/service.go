package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/validation"
)

var (
	ErrNotFound  = errors.New("verification not found")
	ErrExists    = errors.New("verification already stored")
	ErrDuplicate = errors.New("verification duplicates a stored one")
)

// Service stores verifications in one journal.csv per month.
type Service struct {
	root     string
	accounts AccountChecker
}

// NewService creates a journal Service rooted at root.
func NewService(root string, accounts AccountChecker) *Service {
	return &Service{root: root, accounts: accounts}
}

// Save validates v and appends it to the journal of its month. A verification
// equal to a stored one (see ledger.IsEqualTo) is rejected with ErrDuplicate.
func (s *Service) Save(v *ledger.Verification) error {
	if err := validation.From(Check(v, s.accounts)); err != nil {
		return err
	}
	year, month, err := monthOf(v.Date)
	if err != nil {
		return err
	}

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return err
	}
	candidate := v.Comparable()
	for _, e := range existing {
		if e.ID == v.ID {
			return fmt.Errorf("%w: %s", ErrExists, v.ID)
		}
		if ledger.IsEqualTo(e.Comparable(), candidate) {
			return fmt.Errorf("%w: %s matches %s", ErrDuplicate, v.ID, e.ID)
		}
	}

	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendVerifications(f, []*ledger.Verification{v}); err != nil {
		return fmt.Errorf("appending verification: %w", err)
	}
	return nil
}

// ReadMonth reads all verifications for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]*ledger.Verification, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	vs, err := ReadVerifications(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return vs, nil
}

// Get returns the verification id dated date.
func (s *Service) Get(id, date string) (*ledger.Verification, error) {
	_, v, err := s.find(id, date)
	return v, err
}

// FindLabel returns the filed verification with label, e.g. "A2025-0007".
func (s *Service) FindLabel(label string) (*ledger.Verification, error) {
	year, number, err := ParseLabel(label)
	if err != nil {
		return nil, err
	}
	for month := 1; month <= 12; month++ {
		vs, err := s.ReadMonth(year, month)
		if err != nil {
			return nil, err
		}
		for _, v := range vs {
			if v.Number == number {
				return v, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
}

// File gives the verification id the next number of its year and stamps it
// filed at at.
func (s *Service) File(id, date string, at time.Time) (*ledger.Verification, error) {
	vs, v, err := s.find(id, date)
	if err != nil {
		return nil, err
	}
	year, month, _ := monthOf(date)
	number, err := s.NextNumber(year)
	if err != nil {
		return nil, err
	}
	if err := v.File(number, at); err != nil {
		return nil, err
	}
	if err := s.writeMonth(year, month, vs); err != nil {
		return nil, err
	}
	return v, nil
}

// Remove drops the transaction on account from verification id. Lines of
// filed verifications are soft deleted. An unfiled verification whose last
// line is removed disappears from the journal.
func (s *Service) Remove(id, date string, account int, at time.Time) (*ledger.Verification, error) {
	vs, v, err := s.find(id, date)
	if err != nil {
		return nil, err
	}
	if err := v.RemoveTransaction(account, at); err != nil {
		return nil, err
	}
	year, month, _ := monthOf(date)
	if err := s.writeMonth(year, month, vs); err != nil {
		return nil, err
	}
	return v, nil
}

// NextNumber returns one past the highest number filed in year.
func (s *Service) NextNumber(year int) (int, error) {
	highest := 0
	for month := 1; month <= 12; month++ {
		vs, err := s.ReadMonth(year, month)
		if err != nil {
			return 0, err
		}
		for _, v := range vs {
			if v.Number > highest {
				highest = v.Number
			}
		}
	}
	return highest + 1, nil
}

func (s *Service) find(id, date string) ([]*ledger.Verification, *ledger.Verification, error) {
	year, month, err := monthOf(date)
	if err != nil {
		return nil, nil, err
	}
	vs, err := s.ReadMonth(year, month)
	if err != nil {
		return nil, nil, err
	}
	for _, v := range vs {
		if v.ID == id {
			return vs, v, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s on %s", ErrNotFound, id, date)
}

// writeMonth replaces the month's journal through a temp file and rename.
func (s *Service) writeMonth(year, month int, vs []*ledger.Verification) error {
	path := s.monthPath(year, month)
	tmp, err := os.CreateTemp(filepath.Dir(path), "journal-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp journal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteVerifications(tmp, vs); err != nil {
		tmp.Close()
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp journal: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing journal %s: %w", path, err)
	}
	return nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}

func monthOf(date string) (year, month int, err error) {
	d, err := time.Parse(ledger.DateFormat, date)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing verification date %q: %w", date, err)
	}
	return d.Year(), int(d.Month()), nil
}
