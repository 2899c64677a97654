package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/normalizer"
)

func strPtr(s string) *string { return &s }

func sampleTransaction() transaction.Transaction {
	return transaction.Transaction{
		ID:            "65f1a2b3c4d5e6f708192a3b",
		Description:   "Dinner",
		Amount:        1200.5,
		Category:      "food",
		PaymentMethod: "GPay",
		Date:          "2024-05-03",
		SplitWith:     []string{"John", "Jane"},
		Note:          "birthday",
	}
}

func TestSplitParticipants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"John, Jane, , Bob", []string{"John", "Jane", "Bob"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"Solo", []string{"Solo"}},
		{"  Ann  ,Ben", []string{"Ann", "Ben"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitParticipants(tt.in))
		})
	}
}

func TestJoinParticipants(t *testing.T) {
	assert.Equal(t, "John, Jane", JoinParticipants([]string{"John", "Jane"}))
	assert.Equal(t, "", JoinParticipants(nil))
}

func TestApplyEdits_SplitWithText(t *testing.T) {
	sub := ApplyEdits(sampleTransaction(), transaction.Edits{SplitWith: strPtr("John, Jane, , Bob")})
	assert.Equal(t, []string{"John", "Jane", "Bob"}, sub.SplitWith)
}

func TestApplyEdits_Fields(t *testing.T) {
	base := sampleTransaction()
	edits := transaction.Edits{
		Description:   strPtr("Team dinner"),
		Amount:        strPtr("1500"),
		Category:      strPtr("entertainment"),
		PaymentMethod: strPtr("Card"),
		Date:          strPtr("2024-05-04"),
		Note:          strPtr(""),
	}

	sub := ApplyEdits(base, edits)

	assert.Equal(t, transaction.Submission{
		ID:          base.ID,
		Description: "Team dinner",
		Amount:      1500,
		Category:    "entertainment",
		Mode:        "Card",
		Date:        "2024-05-04",
		SplitWith:   []string{"John", "Jane"},
		Note:        "",
	}, sub)
	assert.Equal(t, "Dinner", base.Description, "base is not modified")
}

func TestApplyEdits_UnparsableAmountIsZero(t *testing.T) {
	for _, text := range []string{"", "twelve", "-4"} {
		sub := ApplyEdits(sampleTransaction(), transaction.Edits{Amount: strPtr(text)})
		assert.Zero(t, sub.Amount, text)
	}
}

func TestMerge_PaymentEditIsCanonical(t *testing.T) {
	tests := []struct {
		name string
		edit string
		want string
	}{
		{"Blank", "", "Cash"},
		{"Whitespace", "   ", "Cash"},
		{"Synonym", "google pay", "GPay"},
		{"AlreadyCanonical", "NetBanking", "NetBanking"},
		{"Unknown", "crypto", "Crypto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(sampleTransaction(), transaction.Edits{PaymentMethod: strPtr(tt.edit)})
			assert.Equal(t, tt.want, merged.PaymentMethod)
			assert.Equal(t, tt.want, ToSubmission(merged).Mode)
		})
	}
}

func TestMerge_DoesNotAliasSplitWith(t *testing.T) {
	base := sampleTransaction()
	merged := Merge(base, transaction.Edits{})
	merged.SplitWith[0] = "Changed"
	assert.Equal(t, "John", base.SplitWith[0])
}

func TestRoundTrip(t *testing.T) {
	cases := []transaction.Transaction{
		sampleTransaction(),
		normalizer.Normalize(transaction.Raw{}),
		normalizer.Normalize(transaction.Raw{"amount": "150", "payment_method": "googlepay"}),
		{Description: "Rent", Amount: 15000, Category: "rent", PaymentMethod: "NetBanking",
			Date: "2024-01-01", SplitWith: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			got := normalizer.Normalize(ToSubmission(Merge(tc, transaction.Edits{})).Raw())
			assert.Equal(t, tc, got)
		})
	}
}

func TestEditsFromTransaction_RoundTrip(t *testing.T) {
	base := sampleTransaction()
	edits := EditsFromTransaction(base)

	assert.Equal(t, "John, Jane", *edits.SplitWith)
	assert.Equal(t, "1200.5", *edits.Amount)
	assert.Equal(t, ToSubmission(base), ApplyEdits(base, edits))
}
