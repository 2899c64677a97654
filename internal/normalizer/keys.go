package normalizer

// Synonym keys probed for each canonical field, highest priority first. The lists are the
// union of every key shape observed from the parser and from stored records.
var (
	IDKeys            = []string{"id", "_id"}
	DescriptionKeys   = []string{"description", "desc"}
	AmountKeys        = []string{"amount", "amt"}
	CategoryKeys      = []string{"category"}
	PaymentMethodKeys = []string{"payment_mthod", "payment_method", "paymentMethod", "mode", "method", "payment"}
	DateKeys          = []string{"date", "transaction_date"}
	SplitWithKeys     = []string{"split_with", "splitWith"}
	NoteKeys          = []string{"note", "notes"}
)
