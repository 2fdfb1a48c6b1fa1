package events

import (
	"context"
	"time"

	"storefront/internal/model"
)

// KeyCartUpdated is the routing key of CartUpdated events
const KeyCartUpdated = "cart.updated"

// Publisher sends domain events to a broker
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

// CartUpdated is emitted after every persisted cart change
type CartUpdated struct {
	CartID     string           `json:"cartId"`
	UserID     string           `json:"userId"`
	Action     string           `json:"action"`
	Items      []model.CartItem `json:"items"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// NewCartUpdated snapshots cart for publishing
func NewCartUpdated(cart *model.Cart, action string) CartUpdated {
	items := make([]model.CartItem, len(cart.Items))
	copy(items, cart.Items)
	return CartUpdated{
		CartID:     cart.ID,
		UserID:     cart.UserID,
		Action:     action,
		Items:      items,
		OccurredAt: time.Now().UTC(),
	}
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishJSON(context.Context, string, any) error { return nil }
func (Nop) Close() error                                   { return nil }
