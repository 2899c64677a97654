package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fingenie-expense-tracker/internal/domain/payment"
	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/history"
	"github.com/fingenie-expense-tracker/internal/normalizer"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		server bool
		recent int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show spending totals by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dash summary.Dashboard
			client := a.client()
			if !server {
				records, err := client.ListTransactions(cmd.Context())
				if err != nil {
					return err
				}
				dash = history.Summarize(normalizer.NormalizeAll(records), recent)
			} else {
				var err error
				if dash, err = client.Stats(cmd.Context()); err != nil {
					return err
				}
			}

			if asJSON {
				return a.printJSON(dash)
			}
			return a.printDashboard(dash)
		},
	}

	cmd.Flags().BoolVar(&server, "server", false, "Use the dashboard computed by the server")
	cmd.Flags().IntVar(&recent, "recent", history.DefaultRecentLimit, "Recent transactions to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard as JSON")
	return cmd
}

func (a *app) printDashboard(dash summary.Dashboard) error {
	fmt.Fprintf(a.out, "Transactions: %d  Total: %.2f  Average: %.2f\n\n", dash.Count, dash.Total, dash.Average)

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tCATEGORY\tCOUNT\tTOTAL")
	for _, line := range dash.Breakdown {
		category := line.Category
		if category == "" {
			category = "(none)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", line.Icon, category, line.Count, line.Total)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(dash.Recent) == 0 {
		return nil
	}
	fmt.Fprintln(a.out, "\nRecent:")
	for _, r := range dash.Recent {
		fmt.Fprintf(a.out, "  %s  %-24s %10.2f  %s %s\n",
			r.Date, truncate(r.Description, 24), r.Amount, payment.Icon(r.PaymentMethod), r.PaymentMethod)
	}
	return nil
}
