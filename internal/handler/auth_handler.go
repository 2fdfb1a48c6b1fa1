package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles user account requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.service.Signup(c.Request.Context(), req); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"name":   user.Name,
		"email":  user.Email,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), user, req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.Profile())
}

func (h *AuthHandler) VerifyToken(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Token is valid",
		"user":    gin.H{"id": user.ID},
	})
}

// Orders is a placeholder until checkout exists
func (h *AuthHandler) Orders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Order history feature coming soon",
		"orders":  []any{},
	})
}

// RegisterUserRoutes registers account routes
func (h *AuthHandler) RegisterUserRoutes(rg *gin.RouterGroup, jwtAuthMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/signup", h.Signup)
		users.POST("/login", h.Login)

		users.GET("/profile", jwtAuthMW, h.Profile)
		users.PUT("/profile", jwtAuthMW, h.UpdateProfile)
		users.GET("/verify-token", jwtAuthMW, h.VerifyToken)
		users.GET("/orders", jwtAuthMW, h.Orders)
	}
}
