// Package normalizer converts raw parse results and stored records into canonical transactions.
package normalizer

import (
	"fmt"
	"strconv"

	"github.com/fingenie-expense-tracker/internal/domain/payment"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// Normalizer applies a fixed set of defaults. The zero value is not usable; use New.
type Normalizer struct {
	defaults transaction.Defaults
}

func New(defaults transaction.Defaults) *Normalizer {
	if defaults.PaymentMethod == "" {
		defaults.PaymentMethod = payment.DefaultMethod
	}
	return &Normalizer{defaults: defaults}
}

var std = New(transaction.DefaultValues)

// Normalize uses transaction.DefaultValues.
func Normalize(raw transaction.Raw) transaction.Transaction {
	return std.Normalize(raw)
}

// NormalizeAll normalizes every record with transaction.DefaultValues, preserving order.
func NormalizeAll(raws []transaction.Raw) []transaction.Transaction {
	return std.NormalizeAll(raws)
}

// Normalize never fails: every field falls back to its default.
func (n *Normalizer) Normalize(raw transaction.Raw) transaction.Transaction {
	d := n.defaults
	t := transaction.Transaction{
		ID:            stringOr(raw, IDKeys, ""),
		Description:   stringOr(raw, DescriptionKeys, d.Description),
		Category:      stringOr(raw, CategoryKeys, d.Category),
		PaymentMethod: d.PaymentMethod,
		Date:          d.Date,
		Amount:        d.Amount,
		SplitWith:     []string{},
		Note:          stringOr(raw, NoteKeys, d.Note),
	}

	if v, ok := raw.Lookup(AmountKeys...); ok {
		if amount, ok := ParseAmount(v); ok {
			t.Amount = amount
		}
	}

	if v, ok := raw.Lookup(PaymentMethodKeys...); ok {
		if s, ok := stringValue(v); ok {
			t.PaymentMethod = payment.Canonicalize(s)
		}
	}

	if v, ok := raw.Lookup(DateKeys...); ok {
		if date, ok := FormatDate(v); ok {
			t.Date = date
		}
	}

	if v, ok := raw.Lookup(SplitWithKeys...); ok {
		t.SplitWith = listValue(v)
	}

	return t
}

func (n *Normalizer) NormalizeAll(raws []transaction.Raw) []transaction.Transaction {
	out := make([]transaction.Transaction, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Normalize(raw))
	}
	return out
}

func stringOr(raw transaction.Raw, keys []string, fallback string) string {
	v, ok := raw.Lookup(keys...)
	if !ok {
		return fallback
	}
	if s, ok := stringValue(v); ok {
		return s
	}
	return fallback
}

// stringValue accepts strings and scalars; structured values are rejected.
func stringValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// listValue passes list-shaped values through. Delimited text is not split here; that
// conversion only happens on the edit side.
func listValue(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []string:
		out = append(out, val...)
	case []any:
		for _, item := range val {
			if s, ok := stringValue(item); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
