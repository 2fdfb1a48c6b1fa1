package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CartHandler handles the authenticated user's cart
type CartHandler struct {
	service service.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(s service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.GetCart(c.Request.Context(), user.ID))
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	var req model.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.AddToCart(c.Request.Context(), user.ID, req))
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	var req model.RemoveFromCartRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.RemoveFromCart(c.Request.Context(), user.ID, req.ProductID))
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	var req model.UpdateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateQuantity(c.Request.Context(), user.ID, req))
}

func (h *CartHandler) UpdateCart(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	var req model.UpdateCartRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateCart(c.Request.Context(), user.ID, req.Items))
}

func (h *CartHandler) respond(c *gin.Context) func(*model.PopulatedCart, error) {
	return func(cart *model.PopulatedCart, err error) {
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// RegisterCartRoutes registers cart routes, all of which require authentication
func (h *CartHandler) RegisterCartRoutes(rg *gin.RouterGroup, jwtAuthMW gin.HandlerFunc) {
	cart := rg.Group("/cart", jwtAuthMW)
	{
		cart.GET("", h.GetCart)
		cart.PUT("", h.UpdateCart)
		cart.POST("/add", h.AddToCart)
		cart.POST("/remove", h.RemoveFromCart)
		cart.POST("/update", h.UpdateQuantity)
	}
}
