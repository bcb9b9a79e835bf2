package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/audit"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var name, form, local string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new books directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.books
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name, form)
			cfg.Currency.Local = local
			if err := cfg.Validate(); err != nil {
				return err
			}
			if noGit {
				cfg.Git.AutoCommit = false
			}
			return runInit(cmd, opts, absDir, cfg)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&form, "form", accounts.FormLimitedCompany, "business form: ab or ef")
	cmd.Flags().StringVar(&local, "currency", "SEK", "local currency of the ledger")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, dir string, cfg *config.Config) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	for _, d := range []string{filepath.Join(dir, "accounts"), filepath.Join(dir, "logs"), filepath.Dir(cfg.RatesPath(dir))} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.NewService(accounts.DefaultChart(cfg.Business.Form)).Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// The rate database and local overrides stay out of version control.
	gitignore := ".tally/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := audit.Append(dir, audit.Entry{
		Timestamp: opts.now(),
		Actor:     opts.actor,
		Action:    audit.ActionInit,
		Details:   cfg.Business.Name,
	}); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !cfg.Git.AutoCommit {
		fmt.Fprintf(out, "Initialized books at %s\n", dir)
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+cfg.Business.Name, gitops.Author{
		Name:  cfg.Git.AuthorName,
		Email: cfg.Git.AuthorEmail,
	})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized books at %s (%s)\n", dir, hash)
	return nil
}
