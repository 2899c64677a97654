package normalizer

import (
	"strings"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

var dateLayouts = []string{
	transaction.DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDate parses a calendar date in any of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date-like value as YYYY-MM-DD.
func FormatDate(v any) (string, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return "", false
		}
		return val.Format(transaction.DateLayout), true
	case *time.Time:
		if val == nil {
			return "", false
		}
		return FormatDate(*val)
	case string:
		t, ok := ParseDate(val)
		if !ok {
			return "", false
		}
		return t.Format(transaction.DateLayout), true
	default:
		return "", false
	}
}

// SortKey returns the instant used to order a canonical date. Empty and unparsable
// dates sort as the earliest instant.
func SortKey(date string) time.Time {
	t, ok := ParseDate(date)
	if !ok {
		return time.Time{}
	}
	return t
}
