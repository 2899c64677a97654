package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// listProjection hides processing metadata from raw listings.
var listProjection = bson.M{
	"idempotency_key": 0,
	"correlation_id":  0,
	"failure_reason":  0,
}

// TransactionRepository implements the transaction.Repository interface for MongoDB
type TransactionRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction repository
func NewTransactionRepository(logger *slog.Logger, collection *mongo.Collection) transaction.Repository {
	return &TransactionRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create stores a new record. Returns ErrDuplicateRecord if a record with the same ID exists.
func (r *TransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	doc, err := newRecordDocument(record)
	if err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return transaction.ErrDuplicateRecord{ID: record.ID}
		}
		r.logger.Error("Failed to create transaction record",
			"transaction_id", record.ID,
			"error", err)
		return fmt.Errorf("failed to create transaction record: %w", err)
	}

	return nil
}

// GetByID retrieves a record by its ID.
// Returns ErrRecordNotFound if no record exists or the ID is not a valid ObjectID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, transaction.ErrRecordNotFound{ID: id}
	}

	var doc recordDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrRecordNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction record",
			"transaction_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return doc.toRecord(), nil
}

// GetByIdempotencyKey retrieves a record using its idempotency key.
// Returns nil if no record exists, enabling idempotent saves.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*transaction.Record, error) {
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	var doc recordDocument
	err := r.collection.FindOne(ctx, bson.M{"idempotency_key": idempotencyKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction record by idempotency key",
			"idempotency_key", idempotencyKey,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record by idempotency key: %w", err)
	}

	return doc.toRecord(), nil
}

// List returns every record that did not fail processing, oldest first.
func (r *TransactionRepository) List(ctx context.Context) ([]transaction.Raw, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(listProjection)

	return r.find(ctx, opts)
}

// ListRecent returns up to limit records, newest first.
func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]transaction.Raw, error) {
	if limit <= 0 {
		return []transaction.Raw{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(listProjection)

	return r.find(ctx, opts)
}

func (r *TransactionRepository) find(ctx context.Context, opts *options.FindOptions) ([]transaction.Raw, error) {
	filter := bson.M{"status": bson.M{"$ne": string(shared.TransactionStatusFailed)}}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list transaction records", "error", err)
		return nil, fmt.Errorf("failed to list transaction records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode transaction records", "error", err)
		return nil, fmt.Errorf("failed to decode transaction records: %w", err)
	}

	records := make([]transaction.Raw, 0, len(docs))
	for _, doc := range docs {
		records = append(records, toRaw(doc))
	}
	return records, nil
}

// UpdateStatus updates the record's status, failure reason, and processed timestamp.
// Returns ErrRecordNotFound if the record doesn't exist.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status shared.TransactionStatus, reason string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return transaction.ErrRecordNotFound{ID: id}
	}

	update := bson.M{
		"$set": bson.M{
			"status":         string(status),
			"failure_reason": reason,
			"processed_at":   time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error("Failed to update transaction record status",
			"transaction_id", id,
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update transaction record status: %w", err)
	}

	if result.MatchedCount == 0 {
		return transaction.ErrRecordNotFound{ID: id}
	}

	return nil
}
