package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/domain/profile"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// PreferencesHandler handles HTTP requests for user preferences
type PreferencesHandler struct {
	preferencesService service.PreferencesService
	logger             *slog.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(logger *slog.Logger, preferencesService service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{
		preferencesService: preferencesService,
		logger:             logger,
	}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	prefs, err := h.preferencesService.GetPreferences(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, prefs)
}

// Update replaces the stored preferences with the body
func (h *PreferencesHandler) Update(c *gin.Context) {
	var prefs profile.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.preferencesService.UpdatePreferences(c.Request.Context(), prefs)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOKMessage(c, updated, "Preferences saved")
}
