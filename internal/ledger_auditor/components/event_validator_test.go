package components

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/shared"
)

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *ledger.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepo) GetByEventID(ctx context.Context, eventID uuid.UUID) (*ledger.AuditEntry, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AuditEntry), args.Error(1)
}

func (m *MockAuditRepo) ListByType(ctx context.Context, eventType shared.EventType, limit, offset int) ([]*ledger.AuditEntry, error) {
	args := m.Called(ctx, eventType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.AuditEntry), args.Error(1)
}

func (m *MockAuditRepo) CountByType(ctx context.Context, eventType shared.EventType) (int64, error) {
	args := m.Called(ctx, eventType)
	return args.Get(0).(int64), args.Error(1)
}

func validEvent() *shared.LedgerEvent {
	return &shared.LedgerEvent{
		EventID:     uuid.New(),
		Type:        shared.EventCardToggled,
		AggregateID: "card-1",
		OccurredAt:  time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		Payload:     json.RawMessage(`{"id":"card-1","isActive":false}`),
	}
}

func TestEventValidator_Validate(t *testing.T) {
	validator := NewEventValidator(&MockAuditRepo{}, slog.Default())

	tests := []struct {
		name        string
		mutate      func(e *shared.LedgerEvent)
		expectedErr error
	}{
		{name: "valid event", mutate: func(e *shared.LedgerEvent) {}},
		{name: "missing event id", mutate: func(e *shared.LedgerEvent) { e.EventID = uuid.Nil }, expectedErr: ErrMissingEventID},
		{name: "unknown type", mutate: func(e *shared.LedgerEvent) { e.Type = "card.deleted" }, expectedErr: ErrUnknownEventType},
		{name: "missing aggregate id", mutate: func(e *shared.LedgerEvent) { e.AggregateID = "" }, expectedErr: ErrMissingAggregateID},
		{name: "missing occurred at", mutate: func(e *shared.LedgerEvent) { e.OccurredAt = time.Time{} }, expectedErr: ErrMissingOccurredAt},
		{name: "empty payload", mutate: func(e *shared.LedgerEvent) { e.Payload = nil }, expectedErr: ErrMissingPayload},
		{name: "null payload", mutate: func(e *shared.LedgerEvent) { e.Payload = json.RawMessage("null") }, expectedErr: ErrMissingPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)

			err := validator.Validate(context.Background(), event)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventValidator_CheckIdempotency(t *testing.T) {
	event := validEvent()

	t.Run("not recorded", func(t *testing.T) {
		mockRepo := &MockAuditRepo{}
		mockRepo.On("GetByEventID", mock.Anything, event.EventID).Return(nil, ledger.ErrAuditEntryNotFound{EventID: event.EventID})

		seen, err := NewEventValidator(mockRepo, slog.Default()).CheckIdempotency(context.Background(), event)

		assert.NoError(t, err)
		assert.False(t, seen)
		mockRepo.AssertExpectations(t)
	})

	t.Run("already recorded", func(t *testing.T) {
		mockRepo := &MockAuditRepo{}
		mockRepo.On("GetByEventID", mock.Anything, event.EventID).Return(ledger.NewAuditEntry(event), nil)

		seen, err := NewEventValidator(mockRepo, slog.Default()).CheckIdempotency(context.Background(), event)

		assert.NoError(t, err)
		assert.True(t, seen)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := &MockAuditRepo{}
		mockRepo.On("GetByEventID", mock.Anything, event.EventID).Return(nil, errors.New("server selection timeout"))

		seen, err := NewEventValidator(mockRepo, slog.Default()).CheckIdempotency(context.Background(), event)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "idempotency check failed")
		assert.False(t, seen)
		mockRepo.AssertExpectations(t)
	})
}
