package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wallet-ledger/internal/domain/shared"
)

// AuditEntry is the auditor's record of one ledger event
type AuditEntry struct {
	EventID       uuid.UUID        `json:"event_id" bson:"event_id"`
	Type          shared.EventType `json:"type" bson:"type"`
	AggregateID   string           `json:"aggregate_id" bson:"aggregate_id"`
	CorrelationID string           `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Payload       string           `json:"payload" bson:"payload"`
	OccurredAt    time.Time        `json:"occurred_at" bson:"occurred_at"`
	RecordedAt    time.Time        `json:"recorded_at" bson:"recorded_at"`
}

// NewAuditEntry builds an entry for event, stamped with the recording time
func NewAuditEntry(event *shared.LedgerEvent) *AuditEntry {
	return &AuditEntry{
		EventID:       event.EventID,
		Type:          event.Type,
		AggregateID:   event.AggregateID,
		CorrelationID: event.CorrelationID,
		Payload:       string(event.Payload),
		OccurredAt:    event.OccurredAt,
		RecordedAt:    time.Now().UTC(),
	}
}

// DecodePayload unmarshals the stored payload into v
func (e *AuditEntry) DecodePayload(v interface{}) error {
	return json.Unmarshal([]byte(e.Payload), v)
}

// AuditRepository manages audit entries with pagination support
type AuditRepository interface {
	Create(ctx context.Context, entry *AuditEntry) error
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*AuditEntry, error)
	ListByType(ctx context.Context, eventType shared.EventType, limit, offset int) ([]*AuditEntry, error)
	CountByType(ctx context.Context, eventType shared.EventType) (int64, error)
}

// ErrAuditEntryNotFound indicates missing audit entry
type ErrAuditEntryNotFound struct {
	EventID uuid.UUID
}

func (e ErrAuditEntryNotFound) Error() string {
	return "audit entry not found: " + e.EventID.String()
}

func (e ErrAuditEntryNotFound) Kind() shared.Kind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrAuditEntryNotFound
func (e ErrAuditEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrAuditEntryNotFound)
	if !ok {
		return false
	}
	// If the target EventID is empty, consider it a match for any ErrAuditEntryNotFound
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}

// ErrDuplicateAuditEntry indicates the event was already recorded
type ErrDuplicateAuditEntry struct {
	EventID uuid.UUID
}

func (e ErrDuplicateAuditEntry) Error() string {
	return "duplicate audit entry: " + e.EventID.String()
}

func (e ErrDuplicateAuditEntry) Kind() shared.Kind { return shared.KindConflict }

// Is implements the errors.Is interface for ErrDuplicateAuditEntry
func (e ErrDuplicateAuditEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateAuditEntry)
	if !ok {
		return false
	}
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}
