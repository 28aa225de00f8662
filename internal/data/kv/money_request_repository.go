package kv

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/wallet-ledger/internal/domain/request"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/seed"
)

// MoneyRequestRepository persists requests under "money_requests" on top of the seed requests
type MoneyRequestRepository struct {
	overlay overlay[request.MoneyRequest]
	seed    *seed.Dataset
	mu      sync.Mutex
	logger  *slog.Logger
}

var _ request.Repository = (*MoneyRequestRepository)(nil)

func NewMoneyRequestRepository(logger *slog.Logger, store kvstore.Store, data *seed.Dataset) *MoneyRequestRepository {
	return &MoneyRequestRepository{
		overlay: overlay[request.MoneyRequest]{
			store: store,
			key:   kvstore.KeyMoneyRequests,
			id:    func(r request.MoneyRequest) string { return r.ID },
		},
		seed:   data,
		logger: logger.With("component", "money_request_repository"),
	}
}

func (r *MoneyRequestRepository) List(ctx context.Context) ([]request.MoneyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx)
}

func (r *MoneyRequestRepository) GetByID(ctx context.Context, id string) (*request.MoneyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	requests, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ID == id {
			return &requests[i], nil
		}
	}
	return nil, request.ErrMoneyRequestNotFound{RequestID: id}
}

func (r *MoneyRequestRepository) Save(ctx context.Context, req *request.MoneyRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.overlay.upsert(ctx, *req); err != nil {
		r.logger.Error("failed to persist money request", "request_id", req.ID, "error", err)
		return err
	}
	r.logger.Debug("money request persisted", "request_id", req.ID, "status", req.Status)
	return nil
}

func (r *MoneyRequestRepository) Update(ctx context.Context, id string, fn func(*request.MoneyRequest) error) (*request.MoneyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	requests, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(requests, func(req request.MoneyRequest) bool { return req.ID == id })
	if idx < 0 {
		return nil, request.ErrMoneyRequestNotFound{RequestID: id}
	}

	req := requests[idx]
	if err := fn(&req); err != nil {
		return nil, err
	}
	if err := r.overlay.upsert(ctx, req); err != nil {
		r.logger.Error("failed to persist money request", "request_id", id, "error", err)
		return nil, err
	}
	r.logger.Debug("money request persisted", "request_id", id, "status", req.Status)
	return &req, nil
}

// Delete removes a persisted request. Seed-only requests are reported as not found.
func (r *MoneyRequestRepository) Delete(ctx context.Context, id string, check func(*request.MoneyRequest) error) (*request.MoneyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	persisted, err := r.overlay.load(ctx)
	if err != nil {
		r.logger.Error("failed to load money requests", "error", err)
		return nil, err
	}

	idx := slices.IndexFunc(persisted, func(req request.MoneyRequest) bool { return req.ID == id })
	if idx < 0 {
		return nil, request.ErrMoneyRequestNotFound{RequestID: id}
	}

	removed := persisted[idx]
	if check != nil {
		if err := check(&removed); err != nil {
			return nil, err
		}
	}

	if err := r.overlay.save(ctx, slices.Delete(persisted, idx, idx+1)); err != nil {
		r.logger.Error("failed to delete money request", "request_id", id, "error", err)
		return nil, err
	}
	return &removed, nil
}

func (r *MoneyRequestRepository) list(ctx context.Context) ([]request.MoneyRequest, error) {
	persisted, err := r.overlay.load(ctx)
	if err != nil {
		r.logger.Error("failed to load money requests", "error", err)
		return nil, err
	}
	return r.overlay.merge(r.seed.MoneyRequests, persisted), nil
}
