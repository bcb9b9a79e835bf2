package rates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
)

// Schema creates the rate table. Rates are stored as decimal text so they
// never pass through float64.
const Schema = `
CREATE TABLE IF NOT EXISTS exchange_rates (
	rate_date  TEXT NOT NULL,
	from_code  TEXT NOT NULL,
	to_code    TEXT NOT NULL,
	rate       TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (rate_date, from_code, to_code)
);

CREATE INDEX IF NOT EXISTS idx_exchange_rates_pair ON exchange_rates(from_code, to_code);
`

// Store keeps exchange rates in SQLite. It implements Provider.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the rate database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating rates directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("opening rates database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging rates database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing rates schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Set stores rate for (date, from, to), replacing any earlier value.
func (s *Store) Set(ctx context.Context, date time.Time, from, to currency.Code, rate decimal.Decimal) error {
	if rate.IsZero() {
		return fmt.Errorf("setting %s/%s: %w", from, to, ErrZeroRate)
	}
	if from.Equal(to) {
		return fmt.Errorf("setting %s/%s: currencies must differ", from, to)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (rate_date, from_code, to_code, rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(rate_date, from_code, to_code) DO UPDATE SET
			rate = excluded.rate,
			updated_at = CURRENT_TIMESTAMP
	`, date.Format(DateFormat), from.Name, to.Name, rate.String())
	if err != nil {
		return fmt.Errorf("storing rate %s/%s on %s: %w", from, to, date.Format(DateFormat), err)
	}
	return nil
}

// ExchangeRate returns the stored rate or an error wrapping ErrNotFound.
func (s *Store) ExchangeRate(ctx context.Context, date time.Time, from, to currency.Code) (decimal.Decimal, error) {
	day := date.Format(DateFormat)
	var text string
	err := s.db.QueryRowContext(ctx, `
		SELECT rate FROM exchange_rates
		WHERE rate_date = ? AND from_code = ? AND to_code = ?
	`, day, from.Name, to.Name).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s/%s on %s", ErrNotFound, from, to, day)
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("querying rate %s/%s on %s: %w", from, to, day, err)
	}

	rate, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing stored rate %q: %w", text, err)
	}
	return rate, nil
}

// List returns every rate stored for date, ordered by pair.
func (s *Store) List(ctx context.Context, date time.Time) ([]Rate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rate_date, from_code, to_code, rate FROM exchange_rates
		WHERE rate_date = ?
		ORDER BY from_code, to_code
	`, date.Format(DateFormat))
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}
	defer rows.Close()

	var out []Rate
	for rows.Next() {
		var day, from, to, text string
		if err := rows.Scan(&day, &from, &to, &text); err != nil {
			return nil, fmt.Errorf("scanning rate: %w", err)
		}
		r := Rate{Date: day}
		if r.From, err = currency.Lookup(from); err != nil {
			return nil, err
		}
		if r.To, err = currency.Lookup(to); err != nil {
			return nil, err
		}
		if r.Rate, err = decimal.NewFromString(text); err != nil {
			return nil, fmt.Errorf("parsing stored rate %q: %w", text, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
