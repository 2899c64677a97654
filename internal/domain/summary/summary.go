// Package summary holds the per-category running totals and the dashboard view built from them.
package summary

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// CategoryTotal is the projection row kept for one category. A blank category is its own row.
type CategoryTotal struct {
	Category  string          `json:"category"`
	Count     int64           `json:"count"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Repository maintains the category projection
type Repository interface {
	// Add increments the category's count by one and its total by amount.
	Add(ctx context.Context, category string, amount decimal.Decimal) error
	List(ctx context.Context) ([]*CategoryTotal, error)
	WithTx(tx pgx.Tx) Repository
}

// CategoryShare is one line of the dashboard breakdown.
type CategoryShare struct {
	Category string  `json:"category"`
	Icon     string  `json:"icon"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
}

// Dashboard is the overview shown to the user.
type Dashboard struct {
	Count     int64                     `json:"count"`
	Total     float64                   `json:"total"`
	Average   float64                   `json:"average"`
	Breakdown []CategoryShare           `json:"breakdown"`
	Recent    []transaction.Transaction `json:"recent"`
}

// Build assembles a dashboard. Breakdown is ordered by total descending, then by category.
func Build(totals []*CategoryTotal, recent []transaction.Transaction) Dashboard {
	var count int64
	sum := decimal.Zero
	breakdown := make([]CategoryShare, 0, len(totals))
	for _, ct := range totals {
		count += ct.Count
		sum = sum.Add(ct.Total)
		breakdown = append(breakdown, CategoryShare{
			Category: ct.Category,
			Icon:     transaction.CategoryIcon(ct.Category),
			Count:    ct.Count,
			Total:    ct.Total.InexactFloat64(),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	avg := decimal.Zero
	if count > 0 {
		avg = sum.Div(decimal.NewFromInt(count)).Round(2)
	}
	if recent == nil {
		recent = []transaction.Transaction{}
	}

	return Dashboard{
		Count:     count,
		Total:     sum.InexactFloat64(),
		Average:   avg.InexactFloat64(),
		Breakdown: breakdown,
		Recent:    recent,
	}
}
