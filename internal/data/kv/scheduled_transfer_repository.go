package kv

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/seed"
)

// ScheduledTransferRepository persists scheduled transfers under "scheduled_transfers"
type ScheduledTransferRepository struct {
	overlay overlay[schedule.ScheduledTransfer]
	seed    *seed.Dataset
	mu      sync.Mutex
	logger  *slog.Logger
}

var _ schedule.Repository = (*ScheduledTransferRepository)(nil)

func NewScheduledTransferRepository(logger *slog.Logger, store kvstore.Store, data *seed.Dataset) *ScheduledTransferRepository {
	return &ScheduledTransferRepository{
		overlay: overlay[schedule.ScheduledTransfer]{
			store: store,
			key:   kvstore.KeyScheduledTransfers,
			id:    func(s schedule.ScheduledTransfer) string { return s.ID },
		},
		seed:   data,
		logger: logger.With("component", "scheduled_transfer_repository"),
	}
}

func (r *ScheduledTransferRepository) List(ctx context.Context) ([]schedule.ScheduledTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx)
}

func (r *ScheduledTransferRepository) GetByID(ctx context.Context, id string) (*schedule.ScheduledTransfer, error) {
	transfers, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range transfers {
		if transfers[i].ID == id {
			return &transfers[i], nil
		}
	}
	return nil, schedule.ErrScheduledTransferNotFound{TransferID: id}
}

func (r *ScheduledTransferRepository) Save(ctx context.Context, transfer *schedule.ScheduledTransfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.overlay.upsert(ctx, *transfer); err != nil {
		r.logger.Error("failed to persist scheduled transfer", "scheduled_transfer_id", transfer.ID, "error", err)
		return err
	}
	return nil
}

func (r *ScheduledTransferRepository) Update(ctx context.Context, id string, fn func(*schedule.ScheduledTransfer) error) (*schedule.ScheduledTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transfers, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(transfers, func(st schedule.ScheduledTransfer) bool { return st.ID == id })
	if idx < 0 {
		return nil, schedule.ErrScheduledTransferNotFound{TransferID: id}
	}

	st := transfers[idx]
	if err := fn(&st); err != nil {
		return nil, err
	}
	if err := r.overlay.upsert(ctx, st); err != nil {
		r.logger.Error("failed to persist scheduled transfer", "scheduled_transfer_id", id, "error", err)
		return nil, err
	}
	return &st, nil
}

func (r *ScheduledTransferRepository) list(ctx context.Context) ([]schedule.ScheduledTransfer, error) {
	persisted, err := r.overlay.load(ctx)
	if err != nil {
		r.logger.Error("failed to load scheduled transfers", "error", err)
		return nil, err
	}
	return r.overlay.merge(r.seed.ScheduledTransfers, persisted), nil
}
