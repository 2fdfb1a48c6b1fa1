package middleware

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const AuthUserKey = "authUser"

const (
	MsgAuthRequired = "Authentication required. Please login."
	MsgTokenInvalid = "Invalid token. Please login again."
	MsgTokenExpired = "Token expired. Please login again."
	MsgUserNotFound = "User not found."
)

// AuthError rejects a request with 401
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// JWTAuthMiddleware requires a valid bearer token and attaches the resolved user to the context
func JWTAuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			RespondError(c, &AuthError{Message: MsgAuthRequired})
			return
		}

		user, err := auth.ResolveToken(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				RespondError(c, &AuthError{Message: MsgTokenExpired, Err: err})
			case errors.Is(err, service.ErrTokenInvalid):
				RespondError(c, &AuthError{Message: MsgTokenInvalid, Err: err})
			case errors.Is(err, service.ErrUserNotFound):
				RespondError(c, &AuthError{Message: MsgUserNotFound, Err: err})
			default:
				RespondError(c, fmt.Errorf("authentication error: %w", err))
			}
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware attaches the user when a valid token is present and
// otherwise lets the request through unauthenticated.
func OptionalJWTAuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if user, err := auth.ResolveToken(c.Request.Context(), tokenString); err == nil {
				c.Set(AuthUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by the auth middlewares
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
