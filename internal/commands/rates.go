package commands

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/audit"
	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/rates"
)

func newRatesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage stored exchange rates",
	}
	cmd.AddCommand(
		newRatesSetCommand(opts),
		newRatesGetCommand(opts),
		newRatesListCommand(opts),
	)
	return cmd
}

func newRatesSetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <date> <from> <to> <rate>",
		Short: "Store how many units of <to> one <from> was worth on <date>",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseDate(args[0], opts.now)
			if err != nil {
				return err
			}
			from, to, err := lookupPair(args[1], args[2])
			if err != nil {
				return err
			}
			rate, err := decimal.NewFromString(args[3])
			if err != nil {
				return fmt.Errorf("parsing rate %q: %w", args[3], err)
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

			ctx := commandContext(cmd)
			previous, err := book.cache.ExchangeRate(ctx, on, from, to)
			replaced := err == nil
			if err != nil && !errors.Is(err, rates.ErrNotFound) {
				return err
			}
			if err := book.store.Set(ctx, on, from, to, rate); err != nil {
				return err
			}
			book.cache.Forget()
			stored, err := book.conv.Rate(ctx, on, from, to)
			if err != nil {
				return fmt.Errorf("reading back rate: %w", err)
			}

			details := fmt.Sprintf("%s %s/%s %s", on.Format(rates.DateFormat), from, to, stored)
			if replaced {
				details += fmt.Sprintf(" (was %s)", previous)
			}
			if err := a.record(ctx, audit.Entry{Action: audit.ActionRateSet, Details: details}, "rates: Set "+details); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", details)
			return nil
		},
	}
}

func newRatesGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <date> <from> <to>",
		Short: "Show the rate for a pair, derived from the reverse pair if needed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseDate(args[0], opts.now)
			if err != nil {
				return err
			}
			from, to, err := lookupPair(args[1], args[2])
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

			rate, err := book.conv.Rate(commandContext(cmd), on, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rate)
			return nil
		},
	}
}

func newRatesListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <date>",
		Short: "List the rates stored for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseDate(args[0], opts.now)
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

			stored, err := book.store.List(commandContext(cmd), on)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(stored) == 0 {
				fmt.Fprintf(out, "No rates stored for %s\n", on.Format(rates.DateFormat))
				return nil
			}
			for _, r := range stored {
				fmt.Fprintf(out, "%s %s/%s %s\n", r.Date, r.From, r.To, r.Rate)
			}
			return nil
		},
	}
}

func lookupPair(from, to string) (currency.Code, currency.Code, error) {
	f, err := currency.Lookup(from)
	if err != nil {
		return currency.Code{}, currency.Code{}, err
	}
	t, err := currency.Lookup(to)
	if err != nil {
		return currency.Code{}, currency.Code{}, err
	}
	return f, t, nil
}
