package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/audit"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/journal"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/rates"
)

// app is an opened books directory.
type app struct {
	root   string
	cfg    *config.Config
	logger log.Logger
	opts   *rootOptions
}

func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	root, err := filepath.Abs(o.books)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a books directory (run tally init)", root)
	}
	if err != nil {
		return nil, err
	}

	envFile := o.envFile
	if envFile == "" {
		envFile = filepath.Join(root, ".env")
	}
	if err := config.Overlay(cfg, envFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &app{root: root, cfg: cfg, logger: logger, opts: o}, nil
}

func (a *app) accounts() (*accounts.Service, error) {
	return accounts.Load(a.root)
}

func (a *app) journal() (*journal.Service, error) {
	accts, err := a.accounts()
	if err != nil {
		return nil, err
	}
	return journal.NewService(a.root, accts), nil
}

// rateBook is the opened rate store with a converter reading through a cache.
type rateBook struct {
	store *rates.Store
	cache *rates.Cache
	conv  *rates.Converter
}

func (b *rateBook) Close() error {
	return b.store.Close()
}

// openRates opens the books' rate store. Cache misses are logged at debug
// level.
func (a *app) openRates() (*rateBook, error) {
	store, err := rates.Open(a.cfg.RatesPath(a.root))
	if err != nil {
		return nil, err
	}
	logger := logging.Component(a.logger, "rates")
	level.Debug(logger).Log("msg", "opened rate store", "path", store.Path())

	cache := rates.NewCache(rates.NewLoggingProvider(level.Debug(logger), store))
	return &rateBook{store: store, cache: cache, conv: rates.NewConverter(cache)}, nil
}

// record appends e to the audit log and, when enabled, commits the books.
func (a *app) record(ctx context.Context, e audit.Entry, message string) error {
	e.Timestamp = a.opts.now()
	e.Actor = a.opts.actor
	if err := audit.Append(a.root, e); err != nil {
		return err
	}

	if !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.root) {
		return nil
	}
	hash, err := gitops.CommitAll(ctx, a.root, message, gitops.Author{
		Name:  a.cfg.Git.AuthorName,
		Email: a.cfg.Git.AuthorEmail,
	})
	if err != nil {
		return fmt.Errorf("committing books: %w", err)
	}
	level.Info(a.logger).Log("msg", "committed books", "commit", hash, "action", e.Action)
	return nil
}
