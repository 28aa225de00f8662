package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

func TestScheduledTransferHandler_Create(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockScheduledTransferService)
		handler := NewScheduledTransferHandler(logger, mockService)

		date := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		created := &schedule.ScheduledTransfer{ID: "sched-x", ContactID: "1", Frequency: schedule.FrequencyWeekly, IsActive: true}
		mockService.On("CreateScheduledTransfer", mock.Anything, mock.MatchedBy(func(in service.NewScheduledTransferInput) bool {
			return in.ContactID == "1" && in.Frequency == schedule.FrequencyWeekly && in.ScheduledDate.Equal(date) &&
				in.Amount.Equal(decimal.NewFromInt(300))
		})).Return(created, nil)

		router := setupTestRouter()
		router.POST("/scheduled-transfers", handler.Create)

		rr := perform(t, router, http.MethodPost, "/scheduled-transfers",
			`{"contactId":"1","contactName":"Ana Martínez","amount":300,"scheduledDate":"2024-05-01T09:00:00Z","frequency":"weekly","reason":"Clases"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		env := decodeEnvelope[schedule.ScheduledTransfer](t, rr)
		require.NotNil(t, env.Data)
		assert.True(t, env.Data.IsActive)
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownFrequency", func(t *testing.T) {
		mockService := new(MockScheduledTransferService)
		handler := NewScheduledTransferHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/scheduled-transfers", handler.Create)

		rr := perform(t, router, http.MethodPost, "/scheduled-transfers",
			`{"contactId":"1","contactName":"Ana Martínez","amount":300,"scheduledDate":"2024-05-01T09:00:00Z","frequency":"yearly","reason":"Clases"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateScheduledTransfer", mock.Anything, mock.Anything)
	})
}

func TestScheduledTransferHandler_Update(t *testing.T) {
	logger := newTestLogger()

	t.Run("PartialPatch", func(t *testing.T) {
		mockService := new(MockScheduledTransferService)
		handler := NewScheduledTransferHandler(logger, mockService)

		mockService.On("UpdateScheduledTransfer", mock.Anything, "sched-1", mock.MatchedBy(func(p schedule.Patch) bool {
			return p.Amount != nil && p.Amount.Equal(decimal.NewFromInt(1300)) && p.Frequency == nil && p.Reason == nil
		})).Return(&schedule.ScheduledTransfer{ID: "sched-1", Amount: decimal.NewFromInt(1300), IsActive: true}, nil)

		router := setupTestRouter()
		router.PATCH("/scheduled-transfers/:id", handler.Update)

		rr := perform(t, router, http.MethodPatch, "/scheduled-transfers/sched-1", `{"amount":1300}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InactiveConflicts", func(t *testing.T) {
		mockService := new(MockScheduledTransferService)
		handler := NewScheduledTransferHandler(logger, mockService)

		mockService.On("UpdateScheduledTransfer", mock.Anything, "sched-1", mock.Anything).
			Return(nil, schedule.ErrScheduledTransferInactive{TransferID: "sched-1"})

		router := setupTestRouter()
		router.PATCH("/scheduled-transfers/:id", handler.Update)

		rr := perform(t, router, http.MethodPatch, "/scheduled-transfers/sched-1", `{"reason":"Nuevo"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestScheduledTransferHandler_Cancel(t *testing.T) {
	mockService := new(MockScheduledTransferService)
	handler := NewScheduledTransferHandler(newTestLogger(), mockService)

	mockService.On("CancelScheduledTransfer", mock.Anything, "sched-1").
		Return(&schedule.ScheduledTransfer{ID: "sched-1", IsActive: false}, nil)

	router := setupTestRouter()
	router.DELETE("/scheduled-transfers/:id", handler.Cancel)

	rr := perform(t, router, http.MethodDelete, "/scheduled-transfers/sched-1", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope[schedule.ScheduledTransfer](t, rr)
	require.NotNil(t, env.Data)
	assert.False(t, env.Data.IsActive)
	mockService.AssertExpectations(t)
}
