package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/audit"
	"github.com/cleared-dev/tally/internal/journal"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/validation"
)

func newVerificationCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verification",
		Aliases: []string{"ver"},
		Short:   "Record, file and inspect verifications",
	}
	cmd.AddCommand(
		newVerificationAddCommand(opts),
		newVerificationValidateCommand(opts),
		newVerificationFileCommand(opts),
		newVerificationRemoveCommand(opts),
		newVerificationListCommand(opts),
	)
	return cmd
}

// loadDraft reads the draft at path and builds its unvalidated verification,
// converting foreign lines with the books' rate store.
func (a *app) loadDraft(cmd *cobra.Command, path string) (*ledger.Verification, []validation.Violation, error) {
	d, err := readDraft(path)
	if err != nil {
		return nil, nil, err
	}
	book, err := a.openRates()
	if err != nil {
		return nil, nil, err
	}
	defer book.Close()
	return d.build(commandContext(cmd), a.cfg.LocalCurrency(), book.conv, a.opts.now())
}

func newVerificationAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <draft.yaml>",
		Short: "Add a verification to the journal of its month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			v, built, err := a.loadDraft(cmd, args[0])
			if err != nil {
				return reportInvalid(cmd, err)
			}
			accts, err := a.accounts()
			if err != nil {
				return err
			}
			if len(built) > 0 {
				return reportInvalid(cmd, validation.From(append(built, journal.Check(v, accts)...)))
			}
			if err := journal.NewService(a.root, accts).Save(v); err != nil {
				return reportInvalid(cmd, err)
			}

			entry := audit.Entry{Action: audit.ActionVerificationAdd, VerificationID: v.ID, Details: v.Name}
			if err := a.record(commandContext(cmd), entry, "verification: Add "+v.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", v.ID)
			return nil
		},
	}
}

func newVerificationValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <draft.yaml>",
		Short: "Check a draft without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			v, built, err := a.loadDraft(cmd, args[0])
			if err != nil {
				return reportInvalid(cmd, err)
			}
			accts, err := a.accounts()
			if err != nil {
				return err
			}
			if err := validation.From(append(built, journal.Check(v, accts)...)); err != nil {
				return reportInvalid(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newVerificationFileCommand(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "file <id>",
		Short: "Give a verification its permanent number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			svc, err := a.journal()
			if err != nil {
				return err
			}
			v, err := svc.File(args[0], date, opts.now())
			if err != nil {
				return err
			}

			label := journal.Label(v)
			entry := audit.Entry{Action: audit.ActionVerificationFile, VerificationID: v.ID, Label: label}
			if err := a.record(commandContext(cmd), entry, "verification: File "+label); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "verification date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newVerificationRemoveCommand(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "remove <id|label> <account>",
		Short: "Remove the line on an account; filed verifications keep it as deleted",
		Long: "Remove the line on an account. A verification is named by its id and --date,\n" +
			"or, once filed, by its label (e.g. A2025-0007) alone.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parsing account %q: %w", args[1], err)
			}
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			svc, err := a.journal()
			if err != nil {
				return err
			}

			id := args[0]
			if strings.HasPrefix(id, journal.Series) {
				filed, err := svc.FindLabel(id)
				if err != nil {
					return err
				}
				id, date = filed.ID, filed.Date
			} else if date == "" {
				return fmt.Errorf("--date is required when removing by id")
			}
			v, err := svc.Remove(id, date, account, opts.now())
			if err != nil {
				return err
			}

			entry := audit.Entry{
				Action:         audit.ActionVerificationRemove,
				VerificationID: v.ID,
				Label:          journal.Label(v),
				Details:        "account " + args[1],
			}
			if err := a.record(commandContext(cmd), entry, fmt.Sprintf("verification: Remove account %d from %s", account, v.ID)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed account %d from %s\n", account, v.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "verification date, YYYY-MM-DD (required with an id)")
	return cmd
}

func newVerificationListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <YYYY-MM>",
		Short: "List the verifications of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := time.Parse("2006-01", args[0])
			if err != nil {
				return fmt.Errorf("month %q is not YYYY-MM", args[0])
			}
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			svc, err := a.journal()
			if err != nil {
				return err
			}
			vs, err := svc.ReadMonth(month.Year(), int(month.Month()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(vs) == 0 {
				fmt.Fprintf(out, "No verifications in %s\n", args[0])
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tDATE\tID\tNAME\tTOTAL")
			for _, v := range vs {
				label := journal.Label(v)
				if label == "" {
					label = "-"
				}
				total := ""
				if v.TotalAmount != nil {
					total = v.TotalAmount.String()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", label, v.Date, v.ID, v.Name, total)
			}
			return tw.Flush()
		},
	}
}

// reportInvalid prints the violations carried by err and returns a short
// error in their place. Other errors are returned unchanged.
func reportInvalid(cmd *cobra.Command, err error) error {
	vs, ok := validation.As(err)
	if !ok {
		return err
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "%d problem(s):\n", len(vs))
	printViolations(out, vs)
	return fmt.Errorf("%w: %w", errInvalidDraft, err)
}
