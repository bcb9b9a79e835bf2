package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment overrides. Process environment beats the .env file, which
// beats tally.yaml.
const (
	EnvLocalCurrency = "TALLY_LOCAL_CURRENCY"
	EnvRatesDB       = "TALLY_RATES_DB"
	EnvLogLevel      = "TALLY_LOG_LEVEL"
)

// Overlay applies environment overrides to cfg. envFile may be empty or
// missing.
func Overlay(cfg *Config, envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		read, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("reading %s: %w", envFile, err)
		default:
			vars = read
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	if v, ok := lookup(EnvLocalCurrency); ok {
		cfg.Currency.Local = v
	}
	if v, ok := lookup(EnvRatesDB); ok {
		cfg.Rates.Database = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	return nil
}
