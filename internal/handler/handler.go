package handler

import (
	"errors"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

var errNoAuthUser = errors.New("authenticated user not found in context")

// bindJSON decodes the request body into req and records a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.RespondError(c, service.NewValidationError("Invalid request", err.Error()))
		return false
	}
	return true
}

// authUser returns the user attached by JWTAuthMiddleware. Routes using it must be registered behind that middleware.
func authUser(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.RespondError(c, errNoAuthUser)
		return nil, false
	}
	return user, true
}
