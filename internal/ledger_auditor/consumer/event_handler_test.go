package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wallet-ledger/internal/domain/shared"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordEvent(ctx context.Context, event *shared.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestHandleMessage(t *testing.T) {
	logger := slog.Default()

	validEvent := &shared.LedgerEvent{
		EventID:       uuid.New(),
		Type:          shared.EventBalanceUpdated,
		AggregateID:   "acc-001",
		CorrelationID: "corr1",
		OccurredAt:    time.Now().UTC(),
		Payload:       json.RawMessage(`{"balance":"100"}`),
	}
	validJSON, err := json.Marshal(validEvent)
	assert.NoError(t, err)

	var (
		mockAuditService *MockAuditService
		mockDLQPublisher *MockDeadLetterPublisher
	)

	tests := []struct {
		name          string
		key           []byte
		value         []byte
		setupMocks    func()
		expectedError error
	}{
		{
			name:  "successful recording",
			key:   []byte("acc-001"),
			value: validJSON,
			setupMocks: func() {
				mockAuditService.On("RecordEvent", mock.Anything, mock.MatchedBy(func(e *shared.LedgerEvent) bool {
					return e.EventID == validEvent.EventID && e.Type == shared.EventBalanceUpdated
				})).Return(nil)
			},
		},
		{
			name:  "recording error",
			key:   []byte("acc-001"),
			value: validJSON,
			setupMocks: func() {
				mockAuditService.On("RecordEvent", mock.Anything, mock.Anything).Return(errors.New("mongo down"))
			},
			expectedError: errors.New("recording event"),
		},
		{
			name:  "unmarshal error with successful DLQ publish",
			key:   []byte("acc-001"),
			value: []byte("invalid json"),
			setupMocks: func() {
				mockDLQPublisher.On("PublishToDLQ", mock.Anything, "acc-001", []byte("invalid json"), mock.Anything).Return(nil)
			},
		},
		{
			name:  "unmarshal error with DLQ publish failure",
			key:   []byte("acc-001"),
			value: []byte("invalid json"),
			setupMocks: func() {
				mockDLQPublisher.On("PublishToDLQ", mock.Anything, "acc-001", []byte("invalid json"), mock.Anything).Return(errors.New("dlq error"))
			},
			expectedError: errors.New("failed to unmarshal"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuditService = &MockAuditService{}
			mockDLQPublisher = &MockDeadLetterPublisher{}

			handler := NewLedgerEventHandler(logger, mockAuditService, mockDLQPublisher)

			tt.setupMocks()

			err := handler.HandleMessage(context.Background(), tt.key, tt.value)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockAuditService.AssertExpectations(t)
			mockDLQPublisher.AssertExpectations(t)
		})
	}
}

func TestHandleMessage_NoDLQ(t *testing.T) {
	handler := NewLedgerEventHandler(slog.Default(), &MockAuditService{}, nil)

	err := handler.HandleMessage(context.Background(), []byte("k"), []byte("{"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}
