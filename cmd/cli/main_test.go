package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) ParseTranscript(ctx context.Context, transcript string) (transaction.Raw, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Raw), args.Error(1)
}

func (m *MockAPIClient) SaveTransaction(ctx context.Context, sub transaction.Submission, key string) (*transaction.Ack, error) {
	args := m.Called(ctx, sub, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Ack), args.Error(1)
}

func (m *MockAPIClient) ListTransactions(ctx context.Context) ([]transaction.Raw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Raw), args.Error(1)
}

func (m *MockAPIClient) Stats(ctx context.Context) (summary.Dashboard, error) {
	args := m.Called(ctx)
	return args.Get(0).(summary.Dashboard), args.Error(1)
}

func runCLI(t *testing.T, client apiClient, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIWithStderr(t, client, stdin, args...)
	return out, err
}

func runCLIWithStderr(t *testing.T, client apiClient, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{
		in:  strings.NewReader(stdin),
		out: &out,
		err: &errOut,
		newClient: func(baseURL string, timeout time.Duration) apiClient {
			return client
		},
		keys: fixedKey("key-1"),
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func lunchParse() transaction.Raw {
	return transaction.Raw{
		"description": "Lunch",
		"amount":      250.0,
		"category":    "food",
		"mode":        "upi",
		"date":        "2025-07-01",
		"split_with":  []any{"Rahul"},
	}
}

func TestRecordCmd(t *testing.T) {
	t.Run("SavesParsedTransaction", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ParseTranscript", mock.Anything, "lunch 250 with Rahul by upi").Return(lunchParse(), nil)
		client.On("SaveTransaction", mock.Anything, transaction.Submission{
			Description: "Lunch",
			Amount:      250,
			Category:    "food",
			Mode:        "UPI",
			Date:        "2025-07-01",
			SplitWith:   []string{"Rahul"},
		}, "key-1").Return(&transaction.Ack{ID: "abc", Status: shared.TransactionStatusPending}, nil)

		out, err := runCLI(t, client, "", "record", "lunch", "250", "with", "Rahul", "by", "upi")

		require.NoError(t, err)
		assert.Contains(t, out, `Saved "Lunch" 250.00 (food, UPI)`)
		assert.Contains(t, out, "id: abc status: PENDING")
		client.AssertExpectations(t)
	})

	t.Run("AppliesOverrides", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ParseTranscript", mock.Anything, "lunch").Return(lunchParse(), nil)
		client.On("SaveTransaction", mock.Anything, mock.MatchedBy(func(sub transaction.Submission) bool {
			return sub.Amount == 300 &&
				sub.Category == "food" &&
				sub.Mode == "Card" &&
				assert.ObjectsAreEqual([]string{"Rahul", "Sneha"}, sub.SplitWith) &&
				sub.Note == "office"
		}), "key-1").Return(&transaction.Ack{ID: "abc", Status: shared.TransactionStatusPending}, nil)

		_, err := runCLI(t, client, "", "record", "lunch",
			"--amount", "₹300", "--payment", "Card", "--split-with", "Rahul, Sneha,", "--note", "office")

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("DryRunDoesNotSave", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ParseTranscript", mock.Anything, "lunch 250").Return(lunchParse(), nil)

		out, err := runCLI(t, client, "lunch 250\n", "record", "--dry-run")

		require.NoError(t, err)
		var sub map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &sub))
		assert.Equal(t, "UPI", sub["mode"])
		assert.Equal(t, []any{"Rahul"}, sub["split_with"])
		client.AssertNotCalled(t, "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyTranscript", func(t *testing.T) {
		client := new(MockAPIClient)

		_, err := runCLI(t, client, "   \n", "record")

		require.EqualError(t, err, "no transcript given")
		client.AssertNotCalled(t, "ParseTranscript", mock.Anything, mock.Anything)
	})

	t.Run("ParseFailure", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ParseTranscript", mock.Anything, "gibberish").Return(nil, errors.New("bad gateway"))

		_, err := runCLI(t, client, "", "record", "gibberish")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad gateway")
	})

	t.Run("SaveFailure", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ParseTranscript", mock.Anything, "lunch").Return(lunchParse(), nil)
		client.On("SaveTransaction", mock.Anything, mock.Anything, "key-1").Return(nil, errors.New("unavailable"))

		_, stderr, err := runCLIWithStderr(t, client, "", "record", "lunch")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unavailable")
		assert.Contains(t, stderr, "--idempotency-key key-1")
	})

	t.Run("RetryReusesKey", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ParseTranscript", mock.Anything, "lunch").Return(lunchParse(), nil)
		client.On("SaveTransaction", mock.Anything, mock.Anything, "01J2ZQ6Y2C7V3H8K0M4N5P6Q7R").
			Return(&transaction.Ack{ID: "abc", Status: shared.TransactionStatusCompleted}, nil)

		out, err := runCLI(t, client, "", "record", "lunch", "--idempotency-key", "01J2ZQ6Y2C7V3H8K0M4N5P6Q7R")

		require.NoError(t, err)
		assert.Contains(t, out, "status: COMPLETED")
		client.AssertExpectations(t)
	})
}

func storedRecords() []transaction.Raw {
	return []transaction.Raw{
		{"_id": "1", "description": "Dinner", "amount": "900", "category": "food", "mode": "gpay", "date": "2025-07-01", "split_with": []any{"Rahul", "Sneha"}},
		{"_id": "2", "description": "Cab", "amount": 150.0, "category": "transport", "payment_method": "cash", "date": "2025-07-03"},
		{"_id": "3", "description": "Snacks", "amount": 60.0, "category": "food", "mode": "upi", "date": "2025-06-28"},
	}
}

func TestHistoryCmd(t *testing.T) {
	t.Run("TableFilteredByCategory", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ListTransactions", mock.Anything).Return(storedRecords(), nil)

		out, err := runCLI(t, client, "", "history", "--category", "food")

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[1], "Dinner")
		assert.Contains(t, lines[1], "Rahul, Sneha")
		assert.Contains(t, lines[2], "Snacks")
		assert.Contains(t, lines[3], "960.00")
		assert.NotContains(t, out, "Cab")
	})

	t.Run("JSONSortedByAmount", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ListTransactions", mock.Anything).Return(storedRecords(), nil)

		out, err := runCLI(t, client, "", "history", "--json", "--sort", "amount", "--direction", "asc")

		require.NoError(t, err)
		var result struct {
			Rows  []transaction.Transaction `json:"rows"`
			Total float64                   `json:"total"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Rows, 3)
		assert.Equal(t, "Snacks", result.Rows[0].Description)
		assert.Equal(t, "Dinner", result.Rows[2].Description)
		assert.Equal(t, 1110.0, result.Total)
	})

	t.Run("ExportWritesCSV", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ListTransactions", mock.Anything).Return(storedRecords(), nil)
		path := filepath.Join(t.TempDir(), "expenses.csv")

		out, err := runCLI(t, client, "", "history", "--search", "dinner", "--export", path)

		require.NoError(t, err)
		assert.Contains(t, out, "Exported 1 transactions")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t,
			"Date,Description,Category,Payment Method,Amount,Split With,Note\n2025-07-01,Dinner,food,GPay,900.00,Rahul; Sneha,\n",
			string(data))
	})

	t.Run("ExportWithoutRows", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ListTransactions", mock.Anything).Return([]transaction.Raw{}, nil)

		_, err := runCLI(t, client, "", "history", "--export", filepath.Join(t.TempDir(), "x.csv"))

		assert.EqualError(t, err, "no transactions to export")
	})

	t.Run("EmptyHistory", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ListTransactions", mock.Anything).Return([]transaction.Raw{}, nil)

		out, err := runCLI(t, client, "", "history")

		require.NoError(t, err)
		assert.Equal(t, "No transactions found\n", out)
	})

	t.Run("InvalidDirection", func(t *testing.T) {
		client := new(MockAPIClient)

		_, err := runCLI(t, client, "", "history", "--direction", "sideways")

		assert.Error(t, err)
		client.AssertNotCalled(t, "ListTransactions", mock.Anything)
	})
}

func TestStatsCmd(t *testing.T) {
	t.Run("FromServer", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("Stats", mock.Anything).Return(summary.Dashboard{
			Count:   2,
			Total:   300,
			Average: 150,
			Breakdown: []summary.CategoryShare{
				{Category: "food", Icon: "🍽️", Count: 2, Total: 300},
			},
			Recent: []transaction.Transaction{},
		}, nil)

		out, err := runCLI(t, client, "", "stats", "--server")

		require.NoError(t, err)
		assert.Contains(t, out, "Transactions: 2  Total: 300.00  Average: 150.00")
		assert.Contains(t, out, "food")
		assert.NotContains(t, out, "Recent:")
	})

	t.Run("LocalSummary", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("ListTransactions", mock.Anything).Return(storedRecords(), nil)

		out, err := runCLI(t, client, "", "stats", "--json", "--recent", "1")

		require.NoError(t, err)
		var dash summary.Dashboard
		require.NoError(t, json.Unmarshal([]byte(out), &dash))
		assert.Equal(t, int64(3), dash.Count)
		assert.Equal(t, 1110.0, dash.Total)
		require.Len(t, dash.Recent, 1)
		assert.Equal(t, "Cab", dash.Recent[0].Description)
		client.AssertNotCalled(t, "Stats", mock.Anything)
	})

	t.Run("ServerError", func(t *testing.T) {
		client := new(MockAPIClient)
		client.On("Stats", mock.Anything).Return(summary.Dashboard{}, errors.New("down"))

		_, err := runCLI(t, client, "", "stats", "--server")

		assert.EqualError(t, err, "down")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
