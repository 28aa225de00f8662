// Package kv implements the domain repositories on top of a kvstore.Store.
// Every repository merges its persisted overlay with the built-in seed dataset at read time.
package kv

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/wallet-ledger/internal/domain/account"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/seed"
)

// AccountRepository persists the account under "account" and the card list under "cards"
type AccountRepository struct {
	store  kvstore.Store
	seed   *seed.Dataset
	mu     sync.Mutex
	logger *slog.Logger
}

var _ account.Repository = (*AccountRepository)(nil)

func NewAccountRepository(logger *slog.Logger, store kvstore.Store, data *seed.Dataset) *AccountRepository {
	return &AccountRepository{
		store:  store,
		seed:   data,
		logger: logger.With("component", "account_repository"),
	}
}

func (r *AccountRepository) Get(ctx context.Context) (*account.Account, error) {
	acc, found, err := kvstore.Lookup[account.Account](ctx, r.store, kvstore.KeyAccount)
	if err != nil {
		r.logger.Error("failed to load account", "error", err)
		return nil, err
	}
	if !found {
		acc = r.seed.Account
	}
	return &acc, nil
}

func (r *AccountRepository) Save(ctx context.Context, acc *account.Account) error {
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyAccount, acc); err != nil {
		r.logger.Error("failed to persist account", "account_id", acc.ID, "error", err)
		return err
	}
	r.logger.Debug("account persisted", "account_id", acc.ID, "balance", acc.Balance.String())
	return nil
}

func (r *AccountRepository) ListCards(ctx context.Context) ([]account.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadCards(ctx)
}

func (r *AccountRepository) SaveCards(ctx context.Context, cards []account.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyCards, cards); err != nil {
		r.logger.Error("failed to persist cards", "error", err)
		return err
	}
	return nil
}

func (r *AccountRepository) loadCards(ctx context.Context) ([]account.Card, error) {
	cards, found, err := kvstore.Lookup[[]account.Card](ctx, r.store, kvstore.KeyCards)
	if err != nil {
		r.logger.Error("failed to load cards", "error", err)
		return nil, err
	}
	if !found {
		return slices.Clone(r.seed.Cards), nil
	}
	return cards, nil
}
