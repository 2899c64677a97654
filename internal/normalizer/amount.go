package normalizer

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

var currencyMarks = strings.NewReplacer("₹", "", "$", "", ",", "", "INR", "", "inr", "", "Rs.", "", "Rs", "", "rs", "")

// ParseAmount reads a monetary amount from a loosely typed value. Text is parsed
// permissively: currency marks and thousands separators are dropped, and a leading
// numeric prefix is accepted ("150 rupees" is 150). Negative, NaN and infinite values
// are rejected.
func ParseAmount(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		return ParseAmountText(val.String())
	case decimal.Decimal:
		f = val.InexactFloat64()
	case string:
		return ParseAmountText(val)
	default:
		return 0, false
	}
	return validAmount(f)
}

// ParseAmountText is ParseAmount for user-typed or model-produced text.
func ParseAmountText(s string) (float64, bool) {
	s = strings.TrimSpace(currencyMarks.Replace(strings.TrimSpace(s)))
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		prefix := numericPrefix.FindString(s)
		if prefix == "" {
			return 0, false
		}
		if d, err = decimal.NewFromString(prefix); err != nil {
			return 0, false
		}
	}
	return validAmount(d.InexactFloat64())
}

func validAmount(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
