package history

import "github.com/fingenie-expense-tracker/internal/domain/transaction"

// Facets lists the filter values present in a collection.
type Facets struct {
	Categories     []string `json:"categories"`
	PaymentMethods []string `json:"payment_methods"`
}

// CollectFacets returns the distinct non-empty categories and payment methods in
// first-seen order.
func CollectFacets(records []transaction.Transaction) Facets {
	f := Facets{Categories: []string{}, PaymentMethods: []string{}}
	seenCategory := map[string]struct{}{}
	seenMethod := map[string]struct{}{}
	for _, r := range records {
		if _, ok := seenCategory[r.Category]; !ok && r.Category != "" {
			seenCategory[r.Category] = struct{}{}
			f.Categories = append(f.Categories, r.Category)
		}
		if _, ok := seenMethod[r.PaymentMethod]; !ok && r.PaymentMethod != "" {
			seenMethod[r.PaymentMethod] = struct{}{}
			f.PaymentMethods = append(f.PaymentMethods, r.PaymentMethod)
		}
	}
	return f
}
