package contact

import (
	"context"

	"github.com/wallet-ledger/internal/domain/shared"
)

// Repository persists contacts
type Repository interface {
	List(ctx context.Context) ([]Contact, error)
	GetByID(ctx context.Context, id string) (*Contact, error)
	// Save inserts or replaces the contact with the same id
	Save(ctx context.Context, contact *Contact) error
	// AddRecentTransfer prepends rt to the contact's history, keeping the newest limit entries,
	// and returns the updated contact
	AddRecentTransfer(ctx context.Context, id string, rt RecentTransfer, limit int) (*Contact, error)
}

// ErrContactNotFound indicates an unknown contact id
type ErrContactNotFound struct {
	ContactID string
}

func (e ErrContactNotFound) Error() string {
	return "contact not found: " + e.ContactID
}

func (e ErrContactNotFound) Kind() shared.Kind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrContactNotFound
func (e ErrContactNotFound) Is(target error) bool {
	t, ok := target.(ErrContactNotFound)
	if !ok {
		return false
	}
	if t.ContactID == "" {
		return true
	}
	return e.ContactID == t.ContactID
}
