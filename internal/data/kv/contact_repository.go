package kv

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/wallet-ledger/internal/domain/contact"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/seed"
)

// ContactRepository persists the whole contact list under "contacts".
// The seed list is served until the first write.
type ContactRepository struct {
	store  kvstore.Store
	seed   *seed.Dataset
	mu     sync.Mutex
	logger *slog.Logger
}

var _ contact.Repository = (*ContactRepository)(nil)

func NewContactRepository(logger *slog.Logger, store kvstore.Store, data *seed.Dataset) *ContactRepository {
	return &ContactRepository{
		store:  store,
		seed:   data,
		logger: logger.With("component", "contact_repository"),
	}
}

func (r *ContactRepository) List(ctx context.Context) ([]contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID == id {
			return &contacts[i], nil
		}
	}
	return nil, contact.ErrContactNotFound{ContactID: id}
}

func (r *ContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(contacts, func(existing contact.Contact) bool { return existing.ID == c.ID })
	if idx >= 0 {
		contacts[idx] = *c
	} else {
		contacts = append(contacts, *c)
	}

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyContacts, contacts); err != nil {
		r.logger.Error("failed to persist contacts", "contact_id", c.ID, "error", err)
		return err
	}
	r.logger.Debug("contact persisted", "contact_id", c.ID, "recent_transfers", len(c.RecentTransfers))
	return nil
}

func (r *ContactRepository) AddRecentTransfer(ctx context.Context, id string, rt contact.RecentTransfer, limit int) (*contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(contacts, func(existing contact.Contact) bool { return existing.ID == id })
	if idx < 0 {
		return nil, contact.ErrContactNotFound{ContactID: id}
	}
	contacts[idx].AddRecentTransfer(rt, limit)

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyContacts, contacts); err != nil {
		r.logger.Error("failed to persist contacts", "contact_id", id, "error", err)
		return nil, err
	}
	r.logger.Debug("recent transfer recorded", "contact_id", id, "recent_transfers", len(contacts[idx].RecentTransfers))

	updated := contacts[idx]
	return &updated, nil
}

func (r *ContactRepository) load(ctx context.Context) ([]contact.Contact, error) {
	contacts, found, err := kvstore.Lookup[[]contact.Contact](ctx, r.store, kvstore.KeyContacts)
	if err != nil {
		r.logger.Error("failed to load contacts", "error", err)
		return nil, err
	}
	if found {
		return contacts, nil
	}

	contacts = make([]contact.Contact, len(r.seed.Contacts))
	for i, c := range r.seed.Contacts {
		c.RecentTransfers = slices.Clone(c.RecentTransfers)
		contacts[i] = c
	}
	return contacts, nil
}
