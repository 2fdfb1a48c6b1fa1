package service

import (
	"context"
	"fmt"
	"log"
	"math"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	cartActionAdd      = "add"
	cartActionRemove   = "remove"
	cartActionQuantity = "quantity"
	cartActionReplace  = "replace"
)

// CartService implements the per-user cart operations. Every method returns the cart with
// product documents populated.
//
// Each call is a single read-modify-write of the cart document with no locking: two
// concurrent adds for the same user may lose one increment.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*model.PopulatedCart, error)
	AddToCart(ctx context.Context, userID string, req model.AddToCartRequest) (*model.PopulatedCart, error)
	RemoveFromCart(ctx context.Context, userID, productID string) (*model.PopulatedCart, error)
	UpdateQuantity(ctx context.Context, userID string, req model.UpdateQuantityRequest) (*model.PopulatedCart, error)
	UpdateCart(ctx context.Context, userID string, items *[]model.CartItem) (*model.PopulatedCart, error)
}

type cartService struct {
	carts     repository.CartRepository
	products  repository.ProductRepository
	publisher events.Publisher
}

// NewCartService creates a new CartService. A nil publisher disables cart events.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, publisher events.Publisher) CartService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &cartService{carts: carts, products: products, publisher: publisher}
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*model.PopulatedCart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		return &model.PopulatedCart{UserID: userID, Items: []model.PopulatedItem{}}, nil
	}
	return s.populate(ctx, cart)
}

func (s *cartService) AddToCart(ctx context.Context, userID string, req model.AddToCartRequest) (*model.PopulatedCart, error) {
	if req.ProductID == "" || req.Quantity == 0 {
		return nil, NewValidationError("missing required fields (productId, quantity)", nil)
	}
	if req.Quantity < 1 {
		return nil, NewValidationError("quantity must be at least 1", req.Quantity)
	}
	if !model.IsValidID(req.ProductID) {
		return nil, invalidProductID(req.ProductID)
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: no product exists with ID %s", ErrProductNotFound, req.ProductID)
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		cart = &model.Cart{UserID: userID, Items: []model.CartItem{}}
	}

	if i := cart.IndexOf(req.ProductID); i > -1 {
		total, err := addQuantity(cart.Items[i].Quantity, req.Quantity)
		if err != nil {
			return nil, err
		}
		cart.Items[i].Quantity = total
	} else {
		cart.Items = append(cart.Items, model.CartItem{ProductID: req.ProductID, Quantity: req.Quantity})
	}

	return s.save(ctx, cart, cartActionAdd)
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID string) (*model.PopulatedCart, error) {
	if productID == "" {
		return nil, NewValidationError("productId is required", nil)
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	initialCount := len(cart.Items)
	kept := make([]model.CartItem, 0, initialCount)
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == initialCount {
		return nil, ErrItemNotInCart
	}
	cart.Items = kept

	return s.save(ctx, cart, cartActionRemove)
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID string, req model.UpdateQuantityRequest) (*model.PopulatedCart, error) {
	if req.ProductID == "" {
		return nil, NewValidationError("productId is required", nil)
	}
	if req.Quantity < 1 {
		return nil, NewValidationError("quantity must be at least 1", req.Quantity)
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	i := cart.IndexOf(req.ProductID)
	if i < 0 {
		return nil, ErrItemNotInCart
	}
	cart.Items[i].Quantity = req.Quantity

	return s.save(ctx, cart, cartActionQuantity)
}

func (s *cartService) UpdateCart(ctx context.Context, userID string, items *[]model.CartItem) (*model.PopulatedCart, error) {
	if items == nil {
		return nil, NewValidationError("items array is required", nil)
	}

	merged := make([]model.CartItem, 0, len(*items))
	index := make(map[string]int, len(*items))
	for _, item := range *items {
		if item.ProductID == "" || item.Quantity < 1 {
			return nil, NewValidationError("each item must have a product ID and a quantity of at least 1", item)
		}
		if !model.IsValidID(item.ProductID) {
			return nil, invalidProductID(item.ProductID)
		}
		if i, ok := index[item.ProductID]; ok {
			total, err := addQuantity(merged[i].Quantity, item.Quantity)
			if err != nil {
				return nil, err
			}
			merged[i].Quantity = total
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	if len(merged) > 0 {
		ids := make([]string, 0, len(merged))
		for _, item := range merged {
			ids = append(ids, item.ProductID)
		}
		found, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to verify products: %w", err)
		}
		if len(found) != len(ids) {
			existing := make(map[string]bool, len(found))
			for _, p := range found {
				existing[p.ID] = true
			}
			for _, id := range ids {
				if !existing[id] {
					return nil, fmt.Errorf("%w: no product exists with ID %s", ErrProductNotFound, id)
				}
			}
		}
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		cart = &model.Cart{UserID: userID}
	}
	cart.Items = merged

	return s.save(ctx, cart, cartActionReplace)
}

// addQuantity merges two positive quantities, rejecting sums that would overflow int.
func addQuantity(existing, added int) (int, error) {
	if existing > math.MaxInt-added {
		return 0, NewValidationError("quantity too large", added)
	}
	return existing + added, nil
}

func (s *cartService) save(ctx context.Context, cart *model.Cart, action string) (*model.PopulatedCart, error) {
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	if err := s.publisher.PublishJSON(ctx, events.KeyCartUpdated, events.NewCartUpdated(cart, action)); err != nil {
		log.Printf("WARN: failed to publish %s for cart %s: %v", events.KeyCartUpdated, cart.ID, err)
	}

	return s.populate(ctx, cart)
}

// populate replaces product references with the product documents; products deleted
// since they were added populate as nil.
func (s *cartService) populate(ctx context.Context, cart *model.Cart) (*model.PopulatedCart, error) {
	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to populate cart products: %w", err)
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.PopulatedItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		populated := model.PopulatedItem{Quantity: item.Quantity}
		if p, ok := byID[item.ProductID]; ok {
			populated.Product = &p
		}
		items = append(items, populated)
	}

	createdAt, updatedAt := cart.CreatedAt, cart.UpdatedAt
	return &model.PopulatedCart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}, nil
}
