// Package transaction holds the canonical transaction shape shared by every component,
// together with the loosely typed raw input it is built from and the submission shape
// the store expects.
package transaction

// Transaction is the canonical, fully defaulted record the rest of the system consumes.
type Transaction struct {
	ID            string   `json:"id,omitempty"`
	Description   string   `json:"description"`
	Amount        float64  `json:"amount"`
	Category      string   `json:"category"`
	PaymentMethod string   `json:"paymentMethod"`
	Date          string   `json:"date"`
	SplitWith     []string `json:"splitWith"`
	Note          string   `json:"note,omitempty"`
}

// Raw is an externally sourced parse result or stored record. Keys are not fixed and the
// same logical field may arrive under several names.
type Raw map[string]any

// Lookup returns the value of the first key that is present with a non-nil value.
func (r Raw) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Defaults are the fallback values applied when a field is missing or unusable.
type Defaults struct {
	Description   string
	Amount        float64
	Category      string
	PaymentMethod string
	Date          string // empty sorts as the earliest instant
	Note          string
}

// DefaultValues is the configuration used by the normalizer unless one is supplied.
var DefaultValues = Defaults{
	PaymentMethod: "Cash",
}

// DateLayout is the ISO calendar date format used for Transaction.Date.
const DateLayout = "2006-01-02"
