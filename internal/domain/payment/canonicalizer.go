// Package payment maps free-text payment descriptors onto a bounded set of canonical labels.
package payment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical payment method labels.
const (
	GPay       = "GPay"
	PhonePe    = "PhonePe"
	Paytm      = "Paytm"
	UPI        = "UPI"
	Card       = "Card"
	NetBanking = "NetBanking"
	Wallet     = "Wallet"
	Cash       = "Cash"
)

// DefaultMethod is returned for empty input.
const DefaultMethod = Cash

// Mapping pairs a lowercase pattern with the label it resolves to.
type Mapping struct {
	Pattern string
	Label   string
}

// Table is walked in order; the first matching entry wins. "bank" sits last so that
// more specific patterns containing it are tried first.
var Table = []Mapping{
	{"gpay", GPay},
	{"google pay", GPay},
	{"googlepay", GPay},
	{"phonepe", PhonePe},
	{"paytm", Paytm},
	{"upi", UPI},
	{"card", Card},
	{"debit", Card},
	{"credit", Card},
	{"netbanking", NetBanking},
	{"net banking", NetBanking},
	{"wallet", Wallet},
	{"cash", Cash},
	{"bank", NetBanking},
}

// Canonicalize resolves a raw payment label. Exact matches are preferred over substring
// matches; unknown non-empty labels keep their text with the first letter upper-cased.
func Canonicalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultMethod
	}
	lower := strings.ToLower(trimmed)

	for _, m := range Table {
		if lower == m.Pattern {
			return m.Label
		}
	}
	for _, m := range Table {
		if strings.Contains(lower, m.Pattern) {
			return m.Label
		}
	}
	return capitalize(trimmed)
}

// IsCanonical reports whether label is one of the fixed canonical labels.
func IsCanonical(label string) bool {
	for _, m := range Table {
		if m.Label == label {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
