package middleware

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const msgUnexpected = "An unexpected error occurred"

var statusByError = []struct {
	target error
	status int
}{
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{repository.ErrDuplicateKey, http.StatusConflict},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrTokenExpired, http.StatusUnauthorized},
	{service.ErrTokenInvalid, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrProductNotFound, http.StatusNotFound},
	{service.ErrCartNotFound, http.StatusNotFound},
	{service.ErrItemNotInCart, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrNotFound, http.StatusNotFound},
}

// RespondError records err for ErrorHandler, along with the stack of the caller, and stops the chain.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err).SetMeta(debug.Stack())
	c.Abort()
}

// ErrorHandler renders the last error recorded on the context as
// {"error": {"message", "status", "timestamp"}}. Outside production the envelope also
// carries details and the stack captured by RespondError.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		ginErr := c.Errors.Last()
		status, message, details := classify(ginErr.Err)

		if status >= http.StatusInternalServerError {
			log.Printf("ERROR [%s] %s %s: %v", RequestIDFrom(c), c.Request.Method, c.Request.URL.Path, ginErr.Err)
		}

		body := gin.H{
			"message":   message,
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if !production {
			body["details"] = details
			if stack, ok := ginErr.Meta.([]byte); ok {
				body["stack"] = string(stack)
			}
		}
		c.JSON(status, gin.H{"error": body})
	}
}

// classify maps an error to its HTTP status, client message and debug details
func classify(err error) (int, string, any) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, authErr.Message, err.Error()
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		var details any = err.Error()
		if validationErr.Details != nil {
			details = validationErr.Details
		}
		return http.StatusBadRequest, validationErr.Message, details
	}

	for _, entry := range statusByError {
		if errors.Is(err, entry.target) {
			return entry.status, entry.target.Error(), err.Error()
		}
	}

	return http.StatusInternalServerError, msgUnexpected, err.Error()
}
