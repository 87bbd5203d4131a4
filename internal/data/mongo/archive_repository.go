// Package mongo provides the MongoDB implementation of the transaction
// history archive.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/itonse/account/internal/domain/transaction"
)

const (
	// ArchiveCollectionName is the name of the history collection in MongoDB
	ArchiveCollectionName = "transaction_events"
)

// ArchiveRepository implements transaction.ArchiveRepository for MongoDB
type ArchiveRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewArchiveRepository creates a new MongoDB archive repository
func NewArchiveRepository(logger *slog.Logger, db *mongo.Database) transaction.ArchiveRepository {
	return &ArchiveRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert stores an event keyed by transaction ID. Replays from the outbox
// or Kafka overwrite the identical document, so the archiver stays
// idempotent without coordination.
func (r *ArchiveRepository) Upsert(ctx context.Context, event *transaction.Event) error {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"transaction_id": event.TransactionID}
	update := bson.M{"$set": event}

	_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to upsert archive event", "transaction_id", event.TransactionID, "error", err)
		return fmt.Errorf("failed to upsert archive event: %w", err)
	}

	return nil
}

// ListByAccountNumber retrieves a page of events for an account, newest first
func (r *ArchiveRepository) ListByAccountNumber(ctx context.Context, accountNumber string, limit, offset int) ([]*transaction.Event, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"account_number": accountNumber}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "transacted_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("Failed to list archive events", "account_number", accountNumber, "error", err)
		return nil, fmt.Errorf("failed to list archive events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*transaction.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode archive events", "account_number", accountNumber, "error", err)
		return nil, fmt.Errorf("failed to decode archive events: %w", err)
	}

	return events, nil
}

// CountByAccountNumber counts all archived events for an account
func (r *ArchiveRepository) CountByAccountNumber(ctx context.Context, accountNumber string) (int64, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"account_number": accountNumber})
	if err != nil {
		r.logger.Error("Failed to count archive events", "account_number", accountNumber, "error", err)
		return 0, fmt.Errorf("failed to count archive events: %w", err)
	}

	return count, nil
}
