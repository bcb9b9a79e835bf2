package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/rates"
)

func newMoneyCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "money",
		Short: "Convert, split and compare amounts",
	}
	cmd.AddCommand(
		newMoneyConvertCommand(opts),
		newMoneySplitCommand(),
		newMoneyCompareCommand(opts),
	)
	return cmd
}

func newMoneyConvertCommand(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount using the stored exchange rate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := money.Parse(args[0], args[1])
			if err != nil {
				return err
			}
			to, err := currency.Lookup(args[2])
			if err != nil {
				return err
			}
			on, err := parseDate(date, opts.now)
			if err != nil {
				return err
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			book, err := a.openRates()
			if err != nil {
				return err
			}
			defer book.Close()

			converted, err := book.conv.ToLocal(commandContext(cmd), on, v, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), converted)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "rate date, YYYY-MM-DD (default today)")
	return cmd
}

func newMoneySplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split <amount> <code> <fraction> <fraction>...",
		Short: "Split an amount into parts that sum exactly to it",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := money.Parse(args[0], args[1])
			if err != nil {
				return err
			}
			fractions := make([]decimal.Decimal, 0, len(args)-2)
			for _, s := range args[2:] {
				f, err := decimal.NewFromString(s)
				if err != nil {
					return fmt.Errorf("parsing fraction %q: %w", s, err)
				}
				fractions = append(fractions, f)
			}
			parts, err := v.Split(fractions)
			if err != nil {
				return err
			}
			for _, p := range parts {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newMoneyCompareCommand(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "compare <amount> <code> <amount> <code>",
		Short: "Compare two amounts, converting to the local currency when codes differ",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := money.Parse(args[0], args[1])
			if err != nil {
				return err
			}
			b, err := money.Parse(args[2], args[3])
			if err != nil {
				return err
			}

			if !a.IsComparableTo(b) {
				on, err := parseDate(date, opts.now)
				if err != nil {
					return err
				}
				books, err := opts.open(cmd)
				if err != nil {
					return err
				}
				book, err := books.openRates()
				if err != nil {
					return err
				}
				defer book.Close()

				ctx, local := commandContext(cmd), books.cfg.LocalCurrency()
				if a, err = book.conv.ToLocal(ctx, on, a, local); err != nil {
					return err
				}
				if b, err = book.conv.ToLocal(ctx, on, b, local); err != nil {
					return err
				}
			}

			c, err := a.Compare(b)
			if err != nil {
				return err
			}
			op := "="
			switch {
			case c < 0:
				op = "<"
			case c > 0:
				op = ">"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", a, op, b)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "rate date, YYYY-MM-DD (default today)")
	return cmd
}

// parseDate reads a YYYY-MM-DD flag, defaulting to today.
func parseDate(s string, now func() time.Time) (time.Time, error) {
	if s == "" {
		t := now()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(rates.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", s)
	}
	return t, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
