package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// ScheduledTransferHandler handles HTTP requests for scheduled transfers
type ScheduledTransferHandler struct {
	scheduleService service.ScheduledTransferService
	logger          *slog.Logger
}

// NewScheduledTransferHandler creates a new scheduled transfer handler
func NewScheduledTransferHandler(logger *slog.Logger, scheduleService service.ScheduledTransferService) *ScheduledTransferHandler {
	return &ScheduledTransferHandler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

func (h *ScheduledTransferHandler) List(c *gin.Context) {
	transfers, err := h.scheduleService.ListScheduledTransfers(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, transfers)
}

func (h *ScheduledTransferHandler) Create(c *gin.Context) {
	var req CreateScheduledTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !requirePositive(req.Amount) {
		RespondBadRequest(c, "Amount must be greater than 0")
		return
	}

	st, err := h.scheduleService.CreateScheduledTransfer(c.Request.Context(), req.toInput())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondCreated(c, st, "Transfer scheduled")
}

// Update applies the fields present in the body; absent fields are left unchanged
func (h *ScheduledTransferHandler) Update(c *gin.Context) {
	var patch schedule.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	st, err := h.scheduleService.UpdateScheduledTransfer(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOKMessage(c, st, "Scheduled transfer updated")
}

func (h *ScheduledTransferHandler) Cancel(c *gin.Context) {
	st, err := h.scheduleService.CancelScheduledTransfer(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOKMessage(c, st, "Scheduled transfer cancelled")
}
