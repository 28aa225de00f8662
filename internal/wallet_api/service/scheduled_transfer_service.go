package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/domain/shared"
)

// errAlreadyInactive aborts a cancel update without saving
var errAlreadyInactive = errors.New("scheduled transfer already inactive")

// ScheduledTransferServiceImpl implements the ScheduledTransferService interface
type ScheduledTransferServiceImpl struct {
	scheduleRepo schedule.Repository
	transport    Transport
	events       EventDispatcher
	logger       *slog.Logger
	now          func() time.Time
}

// NewScheduledTransferService creates a new scheduled transfer service
func NewScheduledTransferService(logger *slog.Logger, scheduleRepo schedule.Repository, transport Transport, events EventDispatcher) ScheduledTransferService {
	return &ScheduledTransferServiceImpl{
		scheduleRepo: scheduleRepo,
		transport:    transport,
		events:       events,
		logger:       logger.With("component", "scheduled_transfer_service"),
		now:          time.Now,
	}
}

func (s *ScheduledTransferServiceImpl) ListScheduledTransfers(ctx context.Context) ([]schedule.ScheduledTransfer, error) {
	if err := s.transport.Get(ctx, "/scheduled-transfers").Err(); err != nil {
		return nil, err
	}
	return s.scheduleRepo.List(ctx)
}

// CreateScheduledTransfer stores a new active scheduled transfer
func (s *ScheduledTransferServiceImpl) CreateScheduledTransfer(ctx context.Context, input NewScheduledTransferInput) (*schedule.ScheduledTransfer, error) {
	now := s.now().UTC()
	st := &schedule.ScheduledTransfer{
		ID:            uuid.NewString(),
		ContactID:     input.ContactID,
		ContactName:   input.ContactName,
		Amount:        input.Amount,
		ScheduledDate: input.ScheduledDate.UTC(),
		Frequency:     input.Frequency,
		Reason:        input.Reason,
		Comment:       input.Comment,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	if err := s.transport.Post(ctx, "/scheduled-transfers", input).Err(); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Save(ctx, st); err != nil {
		s.logger.Error("Failed to save scheduled transfer", "contact_id", st.ContactID, "error", err)
		return nil, err
	}

	s.logger.Info("Scheduled transfer created",
		"scheduled_transfer_id", st.ID,
		"contact_id", st.ContactID,
		"frequency", st.Frequency,
		"scheduled_date", st.ScheduledDate,
	)
	s.events.Dispatch(ctx, shared.EventScheduledTransferCreated, st.ID, st)

	return st, nil
}

// UpdateScheduledTransfer applies patch to an active scheduled transfer
func (s *ScheduledTransferServiceImpl) UpdateScheduledTransfer(ctx context.Context, id string, patch schedule.Patch) (*schedule.ScheduledTransfer, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if err := s.transport.Put(ctx, "/scheduled-transfers/"+id, patch).Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	st, err := s.scheduleRepo.Update(ctx, id, func(st *schedule.ScheduledTransfer) error {
		if !st.IsActive {
			return schedule.ErrScheduledTransferInactive{TransferID: id}
		}
		st.Apply(patch, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Scheduled transfer updated", "scheduled_transfer_id", id)
	s.events.Dispatch(ctx, shared.EventScheduledTransferUpdated, st.ID, st)

	return st, nil
}

// CancelScheduledTransfer marks the transfer inactive. Cancelling twice is a no-op.
func (s *ScheduledTransferServiceImpl) CancelScheduledTransfer(ctx context.Context, id string) (*schedule.ScheduledTransfer, error) {
	if err := s.transport.Delete(ctx, "/scheduled-transfers/"+id).Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	st, err := s.scheduleRepo.Update(ctx, id, func(st *schedule.ScheduledTransfer) error {
		if !st.IsActive {
			return errAlreadyInactive
		}
		st.Cancel(now)
		return nil
	})
	if errors.Is(err, errAlreadyInactive) {
		return s.scheduleRepo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Scheduled transfer cancelled", "scheduled_transfer_id", id)
	s.events.Dispatch(ctx, shared.EventScheduledTransferCanceled, st.ID, st)

	return st, nil
}
