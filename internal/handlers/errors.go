package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dating-service/internal/services"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrSelfInteraction),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrInvalidMessageType),
		errors.Is(err, services.ErrSelfBlock),
		errors.Is(err, services.ErrAlreadyBlocked):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrReceiverNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrBlockNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...}. Unexpected errors are logged and
// replaced by fallback so storage details never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(fallback, "error", err, "request_id", requestIDFromContext(c), "user_id", currentUserID(c))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
