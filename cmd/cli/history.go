package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fingenie-expense-tracker/internal/domain/payment"
	"github.com/fingenie-expense-tracker/internal/export"
	"github.com/fingenie-expense-tracker/internal/history"
	"github.com/fingenie-expense-tracker/internal/normalizer"
	"github.com/fingenie-expense-tracker/internal/reconciler"
)

type historyOptions struct {
	params     history.Params
	direction  string
	exportPath string
	asJSON     bool
}

func newHistoryCmd(a *app) *cobra.Command {
	opts := &historyOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, filter and export saved expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.params.SearchTerm, "search", "", "Match description, category, payment method or amount")
	flags.StringVar(&opts.params.Category, "category", "", "Only this category")
	flags.StringVar(&opts.params.PaymentMethod, "payment", "", "Only this payment method")
	flags.StringVar(&opts.params.SortField, "sort", history.SortByDate, "Sort by date, amount, description, category or paymentMethod")
	flags.StringVar(&opts.direction, "direction", string(history.Desc), "Sort direction (asc or desc)")
	flags.StringVar(&opts.exportPath, "export", "", "Write the rows to a CSV file instead of printing them")
	flags.BoolVar(&opts.asJSON, "json", false, "Print rows as JSON")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, opts *historyOptions) error {
	if opts.direction != string(history.Asc) && opts.direction != string(history.Desc) {
		return fmt.Errorf("invalid direction %q", opts.direction)
	}
	params := opts.params
	params.SortDirection = history.SortDirection(opts.direction)

	raws, err := a.client().ListTransactions(cmd.Context())
	if err != nil {
		return err
	}
	result := history.Query(normalizer.NormalizeAll(raws), params)

	switch {
	case opts.exportPath != "":
		if len(result.Rows) == 0 {
			return fmt.Errorf("no transactions to export")
		}
		w := &export.CSVWriter{}
		if err := w.WriteToFile(opts.exportPath, result.Rows); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported %d transactions to %s\n", len(result.Rows), opts.exportPath)
		return nil
	case opts.asJSON:
		return a.printJSON(result)
	}

	if len(result.Rows) == 0 {
		fmt.Fprintln(a.out, "No transactions found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tMETHOD\tAMOUNT\tSPLIT WITH")
	for _, r := range result.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			r.Date, truncate(r.Description, 32), r.Category, payment.Icon(r.PaymentMethod)+" "+r.PaymentMethod, r.Amount,
			reconciler.JoinParticipants(r.SplitWith))
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t%.2f\t\n", result.Total)
	return tw.Flush()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
