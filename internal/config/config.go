package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/currency"
)

// FileName is the config file at the root of a books directory.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Currency CurrencyConfig `yaml:"currency"`
	Rates    RatesConfig    `yaml:"rates"`
	Log      LogConfig      `yaml:"log"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name      string `yaml:"name"`
	Form      string `yaml:"form"` // "ab" or "ef", picks the default chart
	OrgNumber string `yaml:"org_number,omitempty"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// CurrencyConfig sets the ledger's local currency.
type CurrencyConfig struct {
	Local string `yaml:"local"`
}

// RatesConfig locates the exchange-rate database.
type RatesConfig struct {
	Database string `yaml:"database"` // relative paths are resolved against the books root
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls committing the books after each change.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for new books.
func Default(businessName, form string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
			Form: form,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Currency: CurrencyConfig{
			Local: currency.SEK.Name,
		},
		Rates: RatesConfig{
			Database: filepath.Join(".tally", "rates.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Tally",
			AuthorEmail: "books@tally.local",
		},
	}
}

// Validate checks the values the rest of the program relies on.
func (c *Config) Validate() error {
	if _, err := currency.Lookup(c.Currency.Local); err != nil {
		return fmt.Errorf("currency.local: %w", err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if c.Rates.Database == "" {
		return fmt.Errorf("rates.database: must be set")
	}
	return nil
}

// LocalCurrency returns the configured local currency. Call Validate first.
func (c *Config) LocalCurrency() currency.Code {
	code, err := currency.Lookup(c.Currency.Local)
	if err != nil {
		return currency.Unset
	}
	return code
}

// RatesPath resolves the rate database path against root.
func (c *Config) RatesPath(root string) string {
	if filepath.IsAbs(c.Rates.Database) {
		return c.Rates.Database
	}
	return filepath.Join(root, c.Rates.Database)
}
