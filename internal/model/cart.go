package model

import "time"

// CartItem references a product by id. Quantity is always >= 1.
type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Cart is the per-user cart document
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IndexOf returns the position of productID in the cart, or -1.
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// ProductIDs lists the referenced products in item order.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// PopulatedItem is a cart entry with the product document in place of its id.
// Product is nil when the referenced product no longer exists.
type PopulatedItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// PopulatedCart is the response shape of every cart endpoint
type PopulatedCart struct {
	ID        string          `json:"id,omitempty"`
	UserID    string          `json:"user"`
	Items     []PopulatedItem `json:"items"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCartRequest struct {
	ProductID string `json:"productId"`
}

type UpdateQuantityRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartRequest replaces the whole item list. Items is a pointer so a missing
// field can be told apart from an empty list.
type UpdateCartRequest struct {
	Items *[]CartItem `json:"items"`
}
