package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	books   string
	envFile string
	actor   string
	now     func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{now: time.Now})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Multi-currency double-entry bookkeeping",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.books, "books", ".", "books directory")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file with TALLY_* overrides (default <books>/.env)")
	flags.StringVar(&opts.actor, "user", os.Getenv("USER"), "who makes the change, recorded in the audit log")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAccountsCommand(opts),
		newMoneyCommand(opts),
		newRatesCommand(opts),
		newVerificationCommand(opts),
	)

	return rootCmd
}
