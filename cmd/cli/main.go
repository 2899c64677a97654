package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/logger"
	"github.com/fingenie-expense-tracker/internal/platform/apiclient"
	"github.com/fingenie-expense-tracker/internal/session"
)

// apiClient is the part of the HTTP client the commands use.
type apiClient interface {
	session.Parser
	session.Store
	ListTransactions(ctx context.Context) ([]transaction.Raw, error)
	Stats(ctx context.Context) (summary.Dashboard, error)
}

type app struct {
	baseURL string
	timeout time.Duration
	verbose bool

	in  io.Reader
	out io.Writer
	err io.Writer

	newClient func(baseURL string, timeout time.Duration) apiClient
	keys      session.KeyGenerator
}

func main() {
	a := &app{
		in:  os.Stdin,
		out: os.Stdout,
		err: os.Stderr,
		newClient: func(baseURL string, timeout time.Duration) apiClient {
			return apiclient.New(baseURL, timeout)
		},
		keys: session.ULIDGenerator{},
	}

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fingenie",
		Short:         "FinGenie CLI tool",
		Long:          `Record expenses from a spoken or typed sentence and browse your spending history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.err)

	rootCmd.PersistentFlags().StringVar(&a.baseURL, "url", "http://localhost:8080", "Base URL of the FinGenie API")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log session activity to stderr")

	rootCmd.AddCommand(newRecordCmd(a), newHistoryCmd(a), newStatsCmd(a))
	return rootCmd
}

func (a *app) client() apiClient {
	return a.newClient(a.baseURL, a.timeout)
}

func (a *app) logger() *slog.Logger {
	return logger.NewCLILogger(a.err, a.verbose)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
