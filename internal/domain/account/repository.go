package account

import (
	"context"

	"github.com/wallet-ledger/internal/domain/shared"
)

// Repository persists the account and its cards
type Repository interface {
	// Get returns the persisted account, or the seed account when nothing was persisted
	Get(ctx context.Context) (*Account, error)
	Save(ctx context.Context, account *Account) error
	ListCards(ctx context.Context) ([]Card, error)
	SaveCards(ctx context.Context, cards []Card) error
}

// ErrCardNotFound indicates an unknown card id
type ErrCardNotFound struct {
	CardID string
}

func (e ErrCardNotFound) Error() string {
	return "card not found: " + e.CardID
}

func (e ErrCardNotFound) Kind() shared.Kind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrCardNotFound
func (e ErrCardNotFound) Is(target error) bool {
	t, ok := target.(ErrCardNotFound)
	if !ok {
		return false
	}
	// An empty target id matches any ErrCardNotFound
	if t.CardID == "" {
		return true
	}
	return e.CardID == t.CardID
}
