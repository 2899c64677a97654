package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// recordDocument is the stored form of a transaction record. The submission keys are kept
// as the store has always written them so that older documents read back the same way.
type recordDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Description    string             `bson:"description"`
	Amount         float64            `bson:"amount"`
	Category       string             `bson:"category"`
	Mode           string             `bson:"mode"`
	Date           string             `bson:"date"`
	SplitWith      []string           `bson:"split_with"`
	Note           string             `bson:"note,omitempty"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty"`
	CorrelationID  string             `bson:"correlation_id,omitempty"`
	Status         string             `bson:"status"`
	FailureReason  string             `bson:"failure_reason,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	ProcessedAt    *time.Time         `bson:"processed_at,omitempty"`
}

func newRecordDocument(r *transaction.Record) (*recordDocument, error) {
	oid, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", r.ID, err)
	}
	splitWith := r.SplitWith
	if splitWith == nil {
		splitWith = []string{}
	}
	return &recordDocument{
		ID:             oid,
		Description:    r.Description,
		Amount:         r.Amount,
		Category:       r.Category,
		Mode:           r.Mode,
		Date:           r.Date,
		SplitWith:      splitWith,
		Note:           r.Note,
		IdempotencyKey: r.IdempotencyKey,
		CorrelationID:  r.CorrelationID,
		Status:         string(r.Status),
		FailureReason:  r.FailureReason,
		CreatedAt:      r.CreatedAt,
		ProcessedAt:    r.ProcessedAt,
	}, nil
}

func (d *recordDocument) toRecord() *transaction.Record {
	splitWith := d.SplitWith
	if splitWith == nil {
		splitWith = []string{}
	}
	return &transaction.Record{
		ID:             d.ID.Hex(),
		Description:    d.Description,
		Amount:         d.Amount,
		Category:       d.Category,
		Mode:           d.Mode,
		Date:           d.Date,
		SplitWith:      splitWith,
		Note:           d.Note,
		IdempotencyKey: d.IdempotencyKey,
		CorrelationID:  d.CorrelationID,
		Status:         shared.TransactionStatus(d.Status),
		FailureReason:  d.FailureReason,
		CreatedAt:      d.CreatedAt,
		ProcessedAt:    d.ProcessedAt,
	}
}

// toRaw converts a stored document into a raw record. _id becomes id as a hex string and
// BSON container types become their plain Go counterparts; every other key is untouched.
// toRaw exposes _id as id. When a document also carries its own id field, _id wins: it is
// the key every lookup uses.
func toRaw(doc bson.M) transaction.Raw {
	raw := make(transaction.Raw, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		raw[k] = plainValue(v)
	}
	if id, ok := doc["_id"]; ok {
		raw["id"] = plainValue(id)
	}
	return raw
}

func plainValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	case bson.M:
		return map[string]any(toRaw(val))
	case primitive.D:
		return map[string]any(toRaw(val.Map()))
	case primitive.Decimal128:
		return val.String()
	default:
		return v
	}
}
