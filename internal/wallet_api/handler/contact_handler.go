package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// ContactHandler handles HTTP requests for contacts
type ContactHandler struct {
	contactService service.ContactService
	logger         *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(logger *slog.Logger, contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contactService.ListContacts(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, contacts)
}

func (h *ContactHandler) GetByID(c *gin.Context) {
	ct, err := h.contactService.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, ct)
}

// Search ranks contacts by name similarity to the q parameter
func (h *ContactHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		RespondBadRequest(c, "Query parameter q is required")
		return
	}

	limit, err := parseLimit(c, service.DefaultSearchLimit, maxListLimit)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	contacts, err := h.contactService.SearchContacts(c.Request.Context(), query, limit)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondOK(c, contacts)
}

// Create adds a contact with derived initials
func (h *ContactHandler) Create(c *gin.Context) {
	var req AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ct, err := h.contactService.AddContact(c.Request.Context(), req.toInput())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	RespondCreated(c, ct, "Contact added")
}
