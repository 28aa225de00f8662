package schedule

import (
	"context"

	"github.com/wallet-ledger/internal/domain/shared"
)

// Repository persists scheduled transfers as an overlay on top of seed entries
type Repository interface {
	List(ctx context.Context) ([]ScheduledTransfer, error)
	GetByID(ctx context.Context, id string) (*ScheduledTransfer, error)
	Save(ctx context.Context, transfer *ScheduledTransfer) error
	// Update applies fn to the transfer and saves it under one lock. Nothing is saved when fn fails.
	Update(ctx context.Context, id string, fn func(*ScheduledTransfer) error) (*ScheduledTransfer, error)
}

// ErrScheduledTransferNotFound indicates an unknown scheduled transfer id
type ErrScheduledTransferNotFound struct {
	TransferID string
}

func (e ErrScheduledTransferNotFound) Error() string {
	return "scheduled transfer not found: " + e.TransferID
}

func (e ErrScheduledTransferNotFound) Kind() shared.Kind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrScheduledTransferNotFound
func (e ErrScheduledTransferNotFound) Is(target error) bool {
	t, ok := target.(ErrScheduledTransferNotFound)
	if !ok {
		return false
	}
	if t.TransferID == "" {
		return true
	}
	return e.TransferID == t.TransferID
}

// ErrScheduledTransferInactive rejects changes to a cancelled or completed scheduled transfer
type ErrScheduledTransferInactive struct {
	TransferID string
}

func (e ErrScheduledTransferInactive) Error() string {
	return "scheduled transfer is not active: " + e.TransferID
}

func (e ErrScheduledTransferInactive) Kind() shared.Kind { return shared.KindConflict }

// Is implements the errors.Is interface for ErrScheduledTransferInactive
func (e ErrScheduledTransferInactive) Is(target error) bool {
	t, ok := target.(ErrScheduledTransferInactive)
	if !ok {
		return false
	}
	if t.TransferID == "" {
		return true
	}
	return e.TransferID == t.TransferID
}
