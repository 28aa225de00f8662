package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wallet-ledger/internal/domain/request"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/metrics"
)

// MoneyRequestServiceImpl implements the MoneyRequestService interface
type MoneyRequestServiceImpl struct {
	requestRepo request.Repository
	transport   Transport
	events      EventDispatcher
	metrics     metrics.Collector
	holder      Holder
	logger      *slog.Logger
	now         func() time.Time
}

// NewMoneyRequestService creates a new money request service. A nil collector disables metrics.
func NewMoneyRequestService(logger *slog.Logger, requestRepo request.Repository, transport Transport, events EventDispatcher, collector metrics.Collector, holder Holder) MoneyRequestService {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &MoneyRequestServiceImpl{
		requestRepo: requestRepo,
		transport:   transport,
		events:      events,
		metrics:     collector,
		holder:      holder,
		logger:      logger.With("component", "money_request_service"),
		now:         time.Now,
	}
}

func (s *MoneyRequestServiceImpl) ListRequests(ctx context.Context) ([]request.MoneyRequest, error) {
	if err := s.transport.Get(ctx, "/requests").Err(); err != nil {
		return nil, err
	}
	return s.requestRepo.List(ctx)
}

// CreateRequest opens a pending request from the account holder to a contact
func (s *MoneyRequestServiceImpl) CreateRequest(ctx context.Context, input NewMoneyRequestInput) (*request.MoneyRequest, error) {
	req, err := request.NewMoneyRequest(
		uuid.NewString(),
		input.Amount,
		input.Description,
		s.holder.ID,
		s.holder.Name,
		input.ContactID,
		input.ContactName,
		s.now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.transport.Post(ctx, "/requests", input).Err(); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		s.logger.Error("Failed to save money request", "target_id", req.TargetID, "error", err)
		return nil, err
	}

	s.logger.Info("Money request created", "request_id", req.ID, "target_id", req.TargetID, "amount", req.Amount.String())
	s.metrics.RecordMoneyRequestTransition(string(req.Status))
	s.events.Dispatch(ctx, shared.EventMoneyRequestCreated, req.ID, req)

	return req, nil
}

func (s *MoneyRequestServiceImpl) AcceptRequest(ctx context.Context, id string) (*request.MoneyRequest, error) {
	return s.transition(ctx, id, "accept", shared.EventMoneyRequestAccepted, (*request.MoneyRequest).Accept)
}

func (s *MoneyRequestServiceImpl) RejectRequest(ctx context.Context, id string) (*request.MoneyRequest, error) {
	return s.transition(ctx, id, "reject", shared.EventMoneyRequestRejected, (*request.MoneyRequest).Reject)
}

func (s *MoneyRequestServiceImpl) transition(
	ctx context.Context,
	id, action string,
	eventType shared.EventType,
	apply func(*request.MoneyRequest, time.Time) error,
) (*request.MoneyRequest, error) {
	if err := s.transport.Post(ctx, "/requests/"+id+"/"+action, nil).Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req, err := s.requestRepo.Update(ctx, id, func(req *request.MoneyRequest) error {
		if err := apply(req, now); err != nil {
			s.logger.Warn("Money request transition refused", "request_id", id, "action", action, "status", req.Status)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Money request updated", "request_id", id, "status", req.Status)
	s.metrics.RecordMoneyRequestTransition(string(req.Status))
	s.events.Dispatch(ctx, eventType, req.ID, req)

	return req, nil
}

// CancelRequest deletes a pending request. Only requests created in this session can be
// cancelled; built-in ones report not found.
func (s *MoneyRequestServiceImpl) CancelRequest(ctx context.Context, id string) error {
	if err := s.transport.Delete(ctx, "/requests/"+id).Err(); err != nil {
		return err
	}

	req, err := s.requestRepo.Delete(ctx, id, func(req *request.MoneyRequest) error {
		if !req.IsPending() {
			return request.ErrInvalidRequestState{RequestID: id, Status: req.Status, Action: "cancel"}
		}
		return nil
	})
	if err != nil {
		if shared.KindOf(err) == shared.KindStorage {
			s.logger.Error("Failed to delete money request", "request_id", id, "error", err)
		}
		return err
	}

	s.logger.Info("Money request cancelled", "request_id", id)
	s.metrics.RecordMoneyRequestTransition("cancelled")
	s.events.Dispatch(ctx, shared.EventMoneyRequestCancelled, id, req)

	return nil
}
