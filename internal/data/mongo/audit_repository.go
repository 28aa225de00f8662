package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/persistence"
)

// AuditRepository implements the ledger.AuditRepository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) ledger.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new audit entry.
// Returns ErrDuplicateAuditEntry when the unique event id index rejects the insert.
func (r *AuditRepository) Create(ctx context.Context, entry *ledger.AuditEntry) error {
	collection := r.db.Collection(persistence.AuditCollection)

	if _, err := collection.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateAuditEntry{EventID: entry.EventID}
		}
		r.logger.Error("Failed to create audit entry",
			"event_id", entry.EventID.String(),
			"type", string(entry.Type),
			"error", err)
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

// GetByEventID retrieves an audit entry by its event ID.
// Returns ErrAuditEntryNotFound if the event was never recorded.
func (r *AuditRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*ledger.AuditEntry, error) {
	collection := r.db.Collection(persistence.AuditCollection)

	var entry ledger.AuditEntry
	err := collection.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrAuditEntryNotFound{EventID: eventID}
		}
		r.logger.Error("Failed to get audit entry",
			"event_id", eventID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get audit entry: %w", err)
	}

	return &entry, nil
}

// ListByType retrieves paginated audit entries of one event type, newest first
func (r *AuditRepository) ListByType(ctx context.Context, eventType shared.EventType, limit, offset int) ([]*ledger.AuditEntry, error) {
	collection := r.db.Collection(persistence.AuditCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{"type": eventType}, opts)
	if err != nil {
		r.logger.Error("Failed to list audit entries",
			"type", string(eventType),
			"error", err)
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*ledger.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode audit entries",
			"type", string(eventType),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	return entries, nil
}

// CountByType counts the audit entries recorded for an event type
func (r *AuditRepository) CountByType(ctx context.Context, eventType shared.EventType) (int64, error) {
	collection := r.db.Collection(persistence.AuditCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"type": eventType})
	if err != nil {
		r.logger.Error("Failed to count audit entries",
			"type", string(eventType),
			"error", err)
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return count, nil
}
