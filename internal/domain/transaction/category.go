package transaction

import "strings"

// DefaultCategoryIcon is shown for blank or unrecognised categories.
const DefaultCategoryIcon = "📝"

var categoryIcons = map[string]string{
	"food":          "🍽️",
	"groceries":     "🛒",
	"rent":          "🏠",
	"transport":     "🚗",
	"shopping":      "🛍️",
	"entertainment": "🎬",
	"healthcare":    "🏥",
	"health":        "🏥",
	"travel":        "✈️",
	"miscellaneous": "📝",
	"other":         "📝",
}

// CategoryIcon returns the display icon for a category, case-insensitively.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[strings.ToLower(strings.TrimSpace(category))]; ok {
		return icon
	}
	return DefaultCategoryIcon
}
