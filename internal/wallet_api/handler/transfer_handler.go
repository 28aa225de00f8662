package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// TransferHandler handles HTTP requests for transfers and the transaction log
type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// Create submits a transfer. Amount and identity are checked here, before the service is called.
func (h *TransferHandler) Create(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !requirePositive(req.Amount) {
		RespondBadRequest(c, "Amount must be greater than 0")
		return
	}

	resp, err := h.transferService.ProcessTransfer(c.Request.Context(), req.toDomain())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondCreated(c, resp, "Transfer completed")
}

// History returns the newest transfers, 10 unless limit is given
func (h *TransferHandler) History(c *gin.Context) {
	limit, err := parseLimit(c, defaultHistoryLimit, maxListLimit)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	txs, err := h.transferService.GetTransferHistory(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, txs)
}

// Transactions returns the newest transactions of every type
func (h *TransferHandler) Transactions(c *gin.Context) {
	limit, err := parseLimit(c, maxListLimit, maxListLimit)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	txs, err := h.transferService.ListTransactions(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, txs)
}
