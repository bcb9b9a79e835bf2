package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/currency"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test AB", "ab")
	cfg.Business.OrgNumber = "556677-8899"
	cfg.Currency.Local = "EUR"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company", "ef")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "ef", cfg.Business.Form)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "SEK", cfg.Currency.Local)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Tally", cfg.Git.AuthorName)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, currency.SEK, cfg.LocalCurrency())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unterminated"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test AB", "ab")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test AB")
	assert.Contains(t, contents, "form: ab")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "local: SEK")
	assert.Contains(t, contents, "auto_commit: true")
	assert.NotContains(t, contents, "org_number")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown currency", func(c *Config) { c.Currency.Local = "XXX" }, "currency.local"},
		{"empty currency", func(c *Config) { c.Currency.Local = "" }, "currency.local"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"no rates db", func(c *Config) { c.Rates.Database = "" }, "rates.database"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("X", "ab")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRatesPath(t *testing.T) {
	cfg := Default("X", "ab")
	assert.Equal(t, filepath.Join("/books", ".tally", "rates.db"), cfg.RatesPath("/books"))

	cfg.Rates.Database = "/var/lib/tally/rates.db"
	assert.Equal(t, "/var/lib/tally/rates.db", cfg.RatesPath("/books"))
}

func TestOverlay_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TALLY_LOCAL_CURRENCY=NOK\nTALLY_LOG_LEVEL=debug\n"), 0o644))

	cfg := Default("X", "ab")
	require.NoError(t, Overlay(cfg, envFile))
	assert.Equal(t, "NOK", cfg.Currency.Local)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(".tally", "rates.db"), cfg.Rates.Database, "unset keys keep the file value")
}

func TestOverlay_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TALLY_LOCAL_CURRENCY=NOK\n"), 0o644))
	t.Setenv(EnvLocalCurrency, "EUR")
	t.Setenv(EnvRatesDB, "/tmp/rates.db")

	cfg := Default("X", "ab")
	require.NoError(t, Overlay(cfg, envFile))
	assert.Equal(t, "EUR", cfg.Currency.Local)
	assert.Equal(t, "/tmp/rates.db", cfg.Rates.Database)
}

func TestOverlay_MissingFile(t *testing.T) {
	cfg := Default("X", "ab")
	require.NoError(t, Overlay(cfg, filepath.Join(t.TempDir(), ".env")))
	require.NoError(t, Overlay(cfg, ""))
	assert.Equal(t, "SEK", cfg.Currency.Local)
}
