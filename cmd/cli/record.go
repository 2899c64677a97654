package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/reconciler"
	"github.com/fingenie-expense-tracker/internal/session"
)

type recordOptions struct {
	description string
	amount      string
	category    string
	method      string
	date        string
	split       string
	note        string
	key         string
	dryRun      bool
}

func newRecordCmd(a *app) *cobra.Command {
	opts := &recordOptions{}
	cmd := &cobra.Command{
		Use:   "record [transcript]",
		Short: "Parse a sentence into an expense and save it",
		Long: `Parse a sentence such as "paid 250 for lunch with Rahul by UPI" into an expense,
apply any field overrides and save it. Without arguments the transcript is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRecord(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.description, "description", "", "Override the description")
	flags.StringVar(&opts.amount, "amount", "", "Override the amount")
	flags.StringVar(&opts.category, "category", "", "Override the category")
	flags.StringVar(&opts.method, "payment", "", "Override the payment method")
	flags.StringVar(&opts.date, "date", "", "Override the date (YYYY-MM-DD)")
	flags.StringVar(&opts.split, "split-with", "", "Comma-separated people to split with")
	flags.StringVar(&opts.note, "note", "", "Attach a note")
	flags.StringVar(&opts.key, "idempotency-key", "", "Reuse the key of a failed save so a retry cannot store it twice")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the submission without saving")
	return cmd
}

func (a *app) runRecord(cmd *cobra.Command, args []string, opts *recordOptions) error {
	transcript := strings.Join(args, " ")
	if strings.TrimSpace(transcript) == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}
		transcript = string(data)
	}

	keys := a.keys
	if opts.key != "" {
		keys = fixedKey(opts.key)
	}
	client := a.client()
	s := session.New(&session.TextCapture{Transcript: transcript}, client, client, keys, a.logger())

	ctx := cmd.Context()
	if err := s.Start(ctx); err != nil {
		return err
	}
	if err := s.Err(); err != nil {
		var captureErr session.CaptureError
		if errors.As(err, &captureErr) && captureErr.Code == session.NoSpeechCode {
			return errors.New("no transcript given")
		}
		return err
	}

	if edits := opts.edits(cmd); !edits.IsEmpty() {
		if err := s.Edit(edits); err != nil {
			return err
		}
	}

	sub, err := s.Preview()
	if err != nil {
		return err
	}
	if opts.dryRun {
		return a.printJSON(sub)
	}

	ack, err := s.Save(ctx)
	if err != nil {
		fmt.Fprintf(a.err, "The draft was not saved. Retry with --idempotency-key %s\n", s.IdempotencyKey())
		return err
	}

	fmt.Fprintf(a.out, "%s Saved %s %.2f (%s, %s)\n",
		transaction.CategoryIcon(sub.Category), describe(sub), sub.Amount, sub.Category, sub.Mode)
	fmt.Fprintf(a.out, "id: %s status: %s\n", ack.ID, ack.Status)
	return nil
}

// edits returns only the overrides the user actually passed.
func (o *recordOptions) edits(cmd *cobra.Command) transaction.Edits {
	var e transaction.Edits
	set := func(name string, value string, dst **string) {
		if cmd.Flags().Changed(name) {
			v := value
			*dst = &v
		}
	}
	set("description", o.description, &e.Description)
	set("amount", o.amount, &e.Amount)
	set("category", o.category, &e.Category)
	set("payment", o.method, &e.PaymentMethod)
	set("date", o.date, &e.Date)
	set("split-with", o.split, &e.SplitWith)
	set("note", o.note, &e.Note)
	return e
}

func describe(sub transaction.Submission) string {
	if sub.Description != "" {
		return fmt.Sprintf("%q", sub.Description)
	}
	if len(sub.SplitWith) > 0 {
		return "split with " + reconciler.JoinParticipants(sub.SplitWith)
	}
	return "expense"
}

// fixedKey issues the same idempotency key for every draft.
type fixedKey string

func (k fixedKey) Generate() string { return string(k) }
