// Package reconciler overlays review-form edits onto a canonical transaction and translates
// the result into the store's submission shape.
package reconciler

import (
	"strconv"
	"strings"

	"github.com/fingenie-expense-tracker/internal/domain/payment"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/normalizer"
)

// ParticipantSeparator joins split participants for the edit surface.
const ParticipantSeparator = ", "

// Merge applies every present edit to base field by field. Amount text that cannot be
// parsed becomes 0 and a payment edit is canonicalized, so a blank one becomes Cash.
func Merge(base transaction.Transaction, edits transaction.Edits) transaction.Transaction {
	out := base
	out.SplitWith = append([]string{}, base.SplitWith...)

	if edits.Description != nil {
		out.Description = *edits.Description
	}
	if edits.Amount != nil {
		amount, _ := normalizer.ParseAmountText(*edits.Amount)
		out.Amount = amount
	}
	if edits.Category != nil {
		out.Category = *edits.Category
	}
	if edits.PaymentMethod != nil {
		out.PaymentMethod = payment.Canonicalize(*edits.PaymentMethod)
	}
	if edits.Date != nil {
		out.Date = *edits.Date
	}
	if edits.SplitWith != nil {
		out.SplitWith = SplitParticipants(*edits.SplitWith)
	}
	if edits.Note != nil {
		out.Note = *edits.Note
	}
	return out
}

// ToSubmission renames canonical fields to the keys the store expects.
func ToSubmission(t transaction.Transaction) transaction.Submission {
	split := append([]string{}, t.SplitWith...)
	return transaction.Submission{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Mode:        t.PaymentMethod,
		Date:        t.Date,
		SplitWith:   split,
		Note:        t.Note,
	}
}

// ApplyEdits merges edits over base and returns the submission shape.
func ApplyEdits(base transaction.Transaction, edits transaction.Edits) transaction.Submission {
	return ToSubmission(Merge(base, edits))
}

// EditsFromTransaction populates an edit surface from a canonical transaction, with the
// amount and participants rendered as text.
func EditsFromTransaction(t transaction.Transaction) transaction.Edits {
	amount := strconv.FormatFloat(t.Amount, 'f', -1, 64)
	split := JoinParticipants(t.SplitWith)
	description, category, method, date, note := t.Description, t.Category, t.PaymentMethod, t.Date, t.Note
	return transaction.Edits{
		Description:   &description,
		Amount:        &amount,
		Category:      &category,
		PaymentMethod: &method,
		Date:          &date,
		SplitWith:     &split,
		Note:          &note,
	}
}

// SplitParticipants splits comma-delimited names, trimming each and dropping empty
// segments. Order is preserved.
func SplitParticipants(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func JoinParticipants(names []string) string {
	return strings.Join(names, ParticipantSeparator)
}
