package service

import (
	"context"

	"github.com/wallet-ledger/internal/domain/shared"
)

// AuditService records ledger events consumed from the event stream
type AuditService interface {
	// RecordEvent stores event once. Invalid events are recorded as failures and
	// acknowledged; only infrastructure errors are returned.
	RecordEvent(ctx context.Context, event *shared.LedgerEvent) error
}

// EventValidator validates ledger events before they are recorded
type EventValidator interface {
	Validate(ctx context.Context, event *shared.LedgerEvent) error
	// CheckIdempotency reports whether the event was already recorded
	CheckIdempotency(ctx context.Context, event *shared.LedgerEvent) (bool, error)
}

// FailureRecorder handles events that cannot be recorded
type FailureRecorder interface {
	RecordFailure(ctx context.Context, event *shared.LedgerEvent, failureReason string) error
}
