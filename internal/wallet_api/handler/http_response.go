package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/wallet_api/middleware"
)

// Messages returned instead of internal error details
const (
	storageErrorMessage  = "Changes could not be saved. Please try again."
	internalErrorMessage = middleware.InternalErrorMessage
)

// StatusForError maps an error kind to the HTTP status of its envelope
func StatusForError(err error) int {
	switch shared.KindOf(err) {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindTransport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes env as the response body
func Respond[T any](c *gin.Context, statusCode int, env shared.Envelope[T]) {
	c.JSON(statusCode, env)
}

// RespondOK sends a 200 OK success envelope with data
func RespondOK[T any](c *gin.Context, data T) {
	Respond(c, http.StatusOK, shared.OK(data))
}

// RespondOKMessage sends a 200 OK success envelope with data and a message
func RespondOKMessage[T any](c *gin.Context, data T, message string) {
	Respond(c, http.StatusOK, shared.OK(data).WithMessage(message))
}

// RespondCreated sends a 201 Created success envelope with data and a message
func RespondCreated[T any](c *gin.Context, data T, message string) {
	Respond(c, http.StatusCreated, shared.OK(data).WithMessage(message))
}

// RespondMessage sends a success envelope without data
func RespondMessage(c *gin.Context, statusCode int, message string) {
	Respond(c, statusCode, shared.Empty[any]().WithMessage(message))
}

// RespondBadRequest sends a 400 failure envelope
func RespondBadRequest(c *gin.Context, message string) {
	Respond(c, http.StatusBadRequest, shared.Envelope[any]{Success: false, Error: message})
}

// RespondError sends the failure envelope for err. Storage and unexpected errors are
// logged and answered with a generic message.
func RespondError(c *gin.Context, logger *slog.Logger, err error) {
	statusCode := StatusForError(err)
	env := shared.Fail[any](err)

	switch shared.KindOf(err) {
	case shared.KindStorage:
		logger.Error("Storage failure", "path", c.FullPath(), "correlation_id", middleware.GetCorrelationID(c), "error", err)
		env.Error = storageErrorMessage
	case shared.KindUnknown:
		logger.Error("Unexpected error", "path", c.FullPath(), "correlation_id", middleware.GetCorrelationID(c), "error", err)
		env.Error = internalErrorMessage
	}

	Respond(c, statusCode, env)
}

// errInvalidLimit is reported for a malformed limit query parameter
var errInvalidLimit = errors.New("limit must be a positive integer")

// parseLimit reads the limit query parameter, defaulting to def and capping at maxLimit
func parseLimit(c *gin.Context, def, maxLimit int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errInvalidLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}
