// Package history filters, orders and aggregates canonical transactions.
package history

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/normalizer"
)

// SortDirection orders query rows.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Sortable fields. Any other field name compares as raw text.
const (
	SortByDate          = "date"
	SortByAmount        = "amount"
	SortByDescription   = "description"
	SortByCategory      = "category"
	SortByPaymentMethod = "paymentMethod"
)

// Params is a history query. Empty filters impose no constraint and an empty SortField
// keeps input order.
type Params struct {
	SearchTerm    string        `json:"search,omitempty"`
	Category      string        `json:"category,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	SortField     string        `json:"sort,omitempty"`
	SortDirection SortDirection `json:"direction,omitempty"`
}

// Result holds the filtered, ordered rows and the sum of their amounts.
type Result struct {
	Rows  []transaction.Transaction `json:"rows"`
	Total float64                   `json:"total"`
}

// Query is pure: the input slice is never reordered. The search term is matched as typed,
// without trimming.
func Query(records []transaction.Transaction, params Params) Result {
	term := strings.ToLower(params.SearchTerm)

	rows := make([]transaction.Transaction, 0, len(records))
	for _, r := range records {
		if matches(r, term, params) {
			rows = append(rows, r)
		}
	}

	if params.SortField != "" {
		less := comparator(params.SortField)
		desc := strings.EqualFold(string(params.SortDirection), string(Desc))
		sort.SliceStable(rows, func(i, j int) bool {
			if desc {
				return less(rows[j], rows[i])
			}
			return less(rows[i], rows[j])
		})
	}

	return Result{Rows: rows, Total: Total(rows)}
}

// Total sums amounts in decimal to avoid float drift across many rows. The result is the
// exact decimal sum rounded once to float64, so it may differ from a running float64 sum
// in the last bit (0.1 + 0.2 gives 0.3, not 0.30000000000000004).
func Total(rows []transaction.Transaction) float64 {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(decimal.NewFromFloat(r.Amount))
	}
	return sum.InexactFloat64()
}

func matches(r transaction.Transaction, term string, params Params) bool {
	if params.Category != "" && r.Category != params.Category {
		return false
	}
	if params.PaymentMethod != "" && r.PaymentMethod != params.PaymentMethod {
		return false
	}
	if term == "" {
		return true
	}
	for _, field := range []string{
		r.Description,
		r.Category,
		r.PaymentMethod,
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func comparator(field string) func(a, b transaction.Transaction) bool {
	switch field {
	case SortByDate:
		return func(a, b transaction.Transaction) bool {
			return normalizer.SortKey(a.Date).Before(normalizer.SortKey(b.Date))
		}
	case SortByAmount:
		return func(a, b transaction.Transaction) bool { return a.Amount < b.Amount }
	default:
		return func(a, b transaction.Transaction) bool { return fieldText(a, field) < fieldText(b, field) }
	}
}

func fieldText(t transaction.Transaction, field string) string {
	switch field {
	case SortByDescription:
		return t.Description
	case SortByCategory:
		return t.Category
	case SortByPaymentMethod, "payment_method", "mode":
		return t.PaymentMethod
	case "note":
		return t.Note
	case "id":
		return t.ID
	default:
		return ""
	}
}
