package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// MoneyRequestHandler handles HTTP requests for money requests
type MoneyRequestHandler struct {
	requestService service.MoneyRequestService
	logger         *slog.Logger
}

// NewMoneyRequestHandler creates a new money request handler
func NewMoneyRequestHandler(logger *slog.Logger, requestService service.MoneyRequestService) *MoneyRequestHandler {
	return &MoneyRequestHandler{
		requestService: requestService,
		logger:         logger,
	}
}

func (h *MoneyRequestHandler) List(c *gin.Context) {
	requests, err := h.requestService.ListRequests(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, requests)
}

func (h *MoneyRequestHandler) Create(c *gin.Context) {
	var req CreateMoneyRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !requirePositive(req.Amount) {
		RespondBadRequest(c, "Amount must be greater than 0")
		return
	}

	created, err := h.requestService.CreateRequest(c.Request.Context(), req.toInput())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondCreated(c, created, "Request sent")
}

// Accept completes a pending request; 409 if it already left pending
func (h *MoneyRequestHandler) Accept(c *gin.Context) {
	updated, err := h.requestService.AcceptRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOKMessage(c, updated, "Request accepted")
}

// Reject declines a pending request; 409 if it already left pending
func (h *MoneyRequestHandler) Reject(c *gin.Context) {
	updated, err := h.requestService.RejectRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOKMessage(c, updated, "Request rejected")
}

func (h *MoneyRequestHandler) Cancel(c *gin.Context) {
	if err := h.requestService.CancelRequest(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Request cancelled")
}
