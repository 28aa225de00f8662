package kv

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/seed"
)

// TransactionRepository keeps the persisted transaction log under "transfers", newest first.
// Reads merge the log with seed transactions; a seed entry wins over a persisted one with the same id.
type TransactionRepository struct {
	store  kvstore.Store
	seed   *seed.Dataset
	mu     sync.Mutex
	logger *slog.Logger
}

var _ ledger.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(logger *slog.Logger, store kvstore.Store, data *seed.Dataset) *TransactionRepository {
	return &TransactionRepository{
		store:  store,
		seed:   data,
		logger: logger.With("component", "transaction_repository"),
	}
}

func (r *TransactionRepository) Prepend(ctx context.Context, tx *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.loadLog(ctx)
	if err != nil {
		return err
	}

	var last int64
	for _, existing := range log {
		last = max(last, existing.Sequence)
	}
	for _, existing := range r.seed.Transactions {
		last = max(last, existing.Sequence)
	}
	tx.Sequence = last + 1
	if tx.Timestamp == 0 {
		tx.Timestamp = tx.Date.UnixMilli()
	}

	log = append([]ledger.Transaction{*tx}, log...)
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyTransfers, log); err != nil {
		r.logger.Error("failed to persist transaction", "transaction_id", tx.ID, "error", err)
		return err
	}

	r.logger.Debug("transaction persisted", "transaction_id", tx.ID, "sequence", tx.Sequence)
	return nil
}

func (r *TransactionRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.loadLog(ctx)
	if err != nil {
		return err
	}

	kept := slices.DeleteFunc(log, func(tx ledger.Transaction) bool { return tx.ID == id })
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyTransfers, kept); err != nil {
		r.logger.Error("failed to remove transaction", "transaction_id", id, "error", err)
		return err
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]ledger.Transaction, error) {
	r.mu.Lock()
	log, err := r.loadLog(ctx)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(r.seed.Transactions))
	merged := make([]ledger.Transaction, 0, len(log)+len(r.seed.Transactions))
	for _, tx := range r.seed.Transactions {
		seen[tx.ID] = struct{}{}
		merged = append(merged, tx)
	}
	for _, tx := range log {
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		merged = append(merged, tx)
	}

	ledger.SortNewestFirst(merged)
	return merged, nil
}

func (r *TransactionRepository) loadLog(ctx context.Context) ([]ledger.Transaction, error) {
	log, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyTransfers, []ledger.Transaction{})
	if err != nil {
		r.logger.Error("failed to load transaction log", "error", err)
		return nil, err
	}
	return log, nil
}
