package transaction

// Edits carries the fields a user changed in the review form. Nil means untouched.
// Amount and SplitWith arrive as text exactly as typed.
type Edits struct {
	Description   *string `json:"description,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	Category      *string `json:"category,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Date          *string `json:"date,omitempty"`
	SplitWith     *string `json:"splitWith,omitempty"`
	Note          *string `json:"note,omitempty"`
}

// Merge overlays the fields set in next onto e.
func (e Edits) Merge(next Edits) Edits {
	if next.Description != nil {
		e.Description = next.Description
	}
	if next.Amount != nil {
		e.Amount = next.Amount
	}
	if next.Category != nil {
		e.Category = next.Category
	}
	if next.PaymentMethod != nil {
		e.PaymentMethod = next.PaymentMethod
	}
	if next.Date != nil {
		e.Date = next.Date
	}
	if next.SplitWith != nil {
		e.SplitWith = next.SplitWith
	}
	if next.Note != nil {
		e.Note = next.Note
	}
	return e
}

// IsEmpty reports whether no field was edited.
func (e Edits) IsEmpty() bool {
	return e == Edits{}
}
