package model

import "time"

// CategoryAll is the catalog pseudo-category that disables category filtering
const CategoryAll = "All"

// Product is a catalog entry
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image" binding:"omitempty,url"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// UpdateProductRequest uses pointers to allow partial updates
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty" binding:"omitempty,url"`
	Stock       *int     `json:"stock,omitempty" binding:"omitempty,gte=0"`
}

// ProductFilters contains the optional catalog listing filters
type ProductFilters struct {
	Category *string
	MaxPrice *float64
	Search   *string
}
