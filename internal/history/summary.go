package history

import (
	"github.com/shopspring/decimal"

	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// DefaultRecentLimit is the number of recent transactions shown on the dashboard.
const DefaultRecentLimit = 5

// Summarize builds the dashboard from canonical records. Blank categories are grouped
// under a blank breakdown line rather than being folded into "other".
func Summarize(records []transaction.Transaction, recentLimit int) summary.Dashboard {
	return summary.Build(CategoryTotals(records), Recent(records, recentLimit))
}

// CategoryTotals groups records by category in first-seen order.
func CategoryTotals(records []transaction.Transaction) []*summary.CategoryTotal {
	index := map[string]*summary.CategoryTotal{}
	totals := []*summary.CategoryTotal{}
	for _, r := range records {
		ct, ok := index[r.Category]
		if !ok {
			ct = &summary.CategoryTotal{Category: r.Category, Total: decimal.Zero}
			index[r.Category] = ct
			totals = append(totals, ct)
		}
		ct.Count++
		ct.Total = ct.Total.Add(decimal.NewFromFloat(r.Amount))
	}
	return totals
}

// Recent returns up to limit records, newest date first. Records with equal dates keep
// their input order. A non-positive limit uses DefaultRecentLimit.
func Recent(records []transaction.Transaction, limit int) []transaction.Transaction {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows := Query(records, Params{SortField: SortByDate, SortDirection: Desc}).Rows
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
