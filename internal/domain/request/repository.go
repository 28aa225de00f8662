package request

import (
	"context"
	"fmt"

	"github.com/wallet-ledger/internal/domain/shared"
)

// Repository persists money requests as an overlay on top of seed requests
type Repository interface {
	// List returns seed requests followed by persisted ones, persisted versions replacing seed entries
	List(ctx context.Context) ([]MoneyRequest, error)
	GetByID(ctx context.Context, id string) (*MoneyRequest, error)
	Save(ctx context.Context, req *MoneyRequest) error
	// Update applies fn to the request and saves it under one lock. Nothing is saved when fn fails.
	Update(ctx context.Context, id string, fn func(*MoneyRequest) error) (*MoneyRequest, error)
	// Delete removes a request from the persisted overlay once check accepts it.
	// Requests that only exist in the seed are reported as not found.
	Delete(ctx context.Context, id string, check func(*MoneyRequest) error) (*MoneyRequest, error)
}

// ErrMoneyRequestNotFound indicates an unknown request id
type ErrMoneyRequestNotFound struct {
	RequestID string
}

func (e ErrMoneyRequestNotFound) Error() string {
	return "money request not found: " + e.RequestID
}

func (e ErrMoneyRequestNotFound) Kind() shared.Kind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrMoneyRequestNotFound
func (e ErrMoneyRequestNotFound) Is(target error) bool {
	t, ok := target.(ErrMoneyRequestNotFound)
	if !ok {
		return false
	}
	if t.RequestID == "" {
		return true
	}
	return e.RequestID == t.RequestID
}

// ErrInvalidRequestState rejects a transition that is not allowed from the current status
type ErrInvalidRequestState struct {
	RequestID string
	Status    Status
	Action    string
}

func (e ErrInvalidRequestState) Error() string {
	return fmt.Sprintf("cannot %s money request %s in status %s", e.Action, e.RequestID, e.Status)
}

func (e ErrInvalidRequestState) Kind() shared.Kind { return shared.KindConflict }

// Is implements the errors.Is interface for ErrInvalidRequestState
func (e ErrInvalidRequestState) Is(target error) bool {
	t, ok := target.(ErrInvalidRequestState)
	if !ok {
		return false
	}
	if t.RequestID == "" {
		return true
	}
	return e.RequestID == t.RequestID
}
