package handler

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductHandler handles catalog requests
type ProductHandler struct {
	service service.ProductService
	export  service.ExportService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(s service.ProductService, export service.ExportService) *ProductHandler {
	return &ProductHandler{service: s, export: export}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filters model.ProductFilters
	if categoryParam := c.Query("category"); categoryParam != "" {
		filters.Category = &categoryParam
	}
	if maxPriceParam := c.Query("maxPrice"); maxPriceParam != "" {
		maxPrice, err := strconv.ParseFloat(maxPriceParam, 64)
		if err != nil || math.IsNaN(maxPrice) || math.IsInf(maxPrice, 0) {
			middleware.RespondError(c, service.NewValidationError("Invalid value for 'maxPrice', must be a number", maxPriceParam))
			return
		}
		filters.MaxPrice = &maxPrice
	}
	if searchParam := c.Query("search"); searchParam != "" {
		filters.Search = &searchParam
	}

	products, err := h.service.ListProducts(c.Request.Context(), filters)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req model.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ExportProducts streams the catalog as an xlsx workbook
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.export.ExportProductsXLSX(c.Request.Context(), &buf); err != nil {
		middleware.RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// RegisterProductRoutes registers catalog routes. Reads accept an optional token; writes require one.
func (h *ProductHandler) RegisterProductRoutes(rg *gin.RouterGroup, jwtAuthMW, optionalAuthMW, adminRoleMW gin.HandlerFunc) {
	products := rg.Group("/products")
	{
		products.GET("", optionalAuthMW, h.ListProducts)
		products.GET("/export", jwtAuthMW, adminRoleMW, h.ExportProducts)
		products.GET("/:id", optionalAuthMW, h.GetProduct)

		products.POST("", jwtAuthMW, h.CreateProduct)
		products.PUT("/:id", jwtAuthMW, h.UpdateProduct)
		products.DELETE("/:id", jwtAuthMW, h.DeleteProduct)
	}
}
