package handler

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wallet-ledger/internal/domain/request"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

func TestMoneyRequestHandler_Create(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockMoneyRequestService)
		handler := NewMoneyRequestHandler(logger, mockService)

		created := &request.MoneyRequest{ID: "req-x", Amount: decimal.NewFromInt(25), TargetID: "3", Status: request.StatusPending}
		mockService.On("CreateRequest", mock.Anything, mock.MatchedBy(func(in service.NewMoneyRequestInput) bool {
			return in.ContactID == "3" && in.Amount.Equal(decimal.NewFromInt(25)) && in.Description == "Cena"
		})).Return(created, nil)

		router := setupTestRouter()
		router.POST("/requests", handler.Create)

		rr := perform(t, router, http.MethodPost, "/requests",
			`{"contactId":"3","contactName":"María López","amount":25,"description":"Cena"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		env := decodeEnvelope[request.MoneyRequest](t, rr)
		require.NotNil(t, env.Data)
		assert.Equal(t, request.StatusPending, env.Data.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		mockService := new(MockMoneyRequestService)
		handler := NewMoneyRequestHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/requests", handler.Create)

		rr := perform(t, router, http.MethodPost, "/requests",
			`{"contactId":"3","contactName":"María López","amount":0}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	})
}

func TestMoneyRequestHandler_Transitions(t *testing.T) {
	logger := newTestLogger()

	t.Run("Accept", func(t *testing.T) {
		mockService := new(MockMoneyRequestService)
		handler := NewMoneyRequestHandler(logger, mockService)

		mockService.On("AcceptRequest", mock.Anything, "req-1").
			Return(&request.MoneyRequest{ID: "req-1", Status: request.StatusCompleted}, nil)

		router := setupTestRouter()
		router.POST("/requests/:id/accept", handler.Accept)

		rr := perform(t, router, http.MethodPost, "/requests/req-1/accept", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		env := decodeEnvelope[request.MoneyRequest](t, rr)
		require.NotNil(t, env.Data)
		assert.Equal(t, request.StatusCompleted, env.Data.Status)
		assert.Equal(t, "Request accepted", env.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("RejectTwiceConflicts", func(t *testing.T) {
		mockService := new(MockMoneyRequestService)
		handler := NewMoneyRequestHandler(logger, mockService)

		mockService.On("RejectRequest", mock.Anything, "req-2").
			Return(nil, request.ErrInvalidRequestState{RequestID: "req-2", Status: request.StatusCompleted, Action: "reject"})

		router := setupTestRouter()
		router.POST("/requests/:id/reject", handler.Reject)

		rr := perform(t, router, http.MethodPost, "/requests/req-2/reject", nil)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("CancelSeedRequest", func(t *testing.T) {
		mockService := new(MockMoneyRequestService)
		handler := NewMoneyRequestHandler(logger, mockService)

		mockService.On("CancelRequest", mock.Anything, "req-1").Return(request.ErrMoneyRequestNotFound{RequestID: "req-1"})

		router := setupTestRouter()
		router.DELETE("/requests/:id", handler.Cancel)

		rr := perform(t, router, http.MethodDelete, "/requests/req-1", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Cancel", func(t *testing.T) {
		mockService := new(MockMoneyRequestService)
		handler := NewMoneyRequestHandler(logger, mockService)

		mockService.On("CancelRequest", mock.Anything, "req-x").Return(nil)

		router := setupTestRouter()
		router.DELETE("/requests/:id", handler.Cancel)

		rr := perform(t, router, http.MethodDelete, "/requests/req-x", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		env := decodeEnvelope[any](t, rr)
		assert.True(t, env.Success)
		assert.Nil(t, env.Data)
		assert.Equal(t, "Request cancelled", env.Message)
		mockService.AssertExpectations(t)
	})
}
