package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
)

func newAccountsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect the chart of accounts",
	}
	cmd.AddCommand(newAccountsListCommand(opts))
	return cmd
}

func newAccountsListCommand(opts *rootOptions) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, optionally of one type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if typ != "" && !accounts.Type(typ).Valid() {
				return fmt.Errorf("unknown account type %q (want one of %v)", typ, accounts.Types)
			}
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			svc, err := a.accounts()
			if err != nil {
				return err
			}

			list := svc.All()
			if typ != "" {
				list = svc.ByType(accounts.Type(typ))
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tNAME\tTYPE\tVAT")
			for _, acct := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", acct.Number, acct.Name, acct.Type, acct.VATCode)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only accounts of this type: asset, liability, equity, revenue or expense")
	return cmd
}
