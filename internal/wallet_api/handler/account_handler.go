package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// AccountHandler handles HTTP requests for the account and its cards
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// GetAccount returns the account with its current balance
func (h *AccountHandler) GetAccount(c *gin.Context) {
	acc, err := h.accountService.GetAccount(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, acc)
}

// UpdateBalance overwrites the balance. Any value is accepted, including negatives.
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	var req UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.UpdateBalance(c.Request.Context(), *req.Balance)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, acc)
}

// GetCards lists the account's cards
func (h *AccountHandler) GetCards(c *gin.Context) {
	cards, err := h.accountService.GetCards(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, cards)
}

// ToggleCard freezes or unfreezes a card, returning 404 for an unknown id
func (h *AccountHandler) ToggleCard(c *gin.Context) {
	card, err := h.accountService.ToggleCardStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	message := "Card frozen"
	if card.IsActive {
		message = "Card activated"
	}
	RespondOKMessage(c, card, message)
}
