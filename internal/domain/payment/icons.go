package payment

import "strings"

const DefaultIcon = "💳"

var icons = map[string]string{
	"cash":       "💵",
	"gpay":       "📱",
	"phonepe":    "📱",
	"paytm":      "📱",
	"upi":        "📱",
	"card":       "💳",
	"netbanking": "🏦",
	"wallet":     "👛",
}

// Icon returns the display icon for a payment method label.
func Icon(method string) string {
	if icon, ok := icons[strings.ToLower(strings.TrimSpace(method))]; ok {
		return icon
	}
	return DefaultIcon
}
