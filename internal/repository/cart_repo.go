package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

type cartRepository struct {
	db PgxIface
}

// NewCartRepository creates a Postgres-backed CartRepository; items live in a JSONB column
func NewCartRepository(db PgxIface) CartRepository {
	return &cartRepository{db: db}
}

// FindByUser retrieves the cart owned by userID
func (r *cartRepository) FindByUser(ctx context.Context, userID string) (*model.Cart, error) {
	sql := `SELECT id, user_id, items, created_at, updated_at FROM carts WHERE user_id = $1`
	cart := &model.Cart{}
	var items []byte
	err := r.db.QueryRow(ctx, sql, userID).Scan(&cart.ID, &cart.UserID, &items, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No cart yet
		}
		return nil, fmt.Errorf("failed to find cart by user: %w", err)
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}

// Save upserts the cart keyed by its owner
func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	if cart.ID == "" {
		cart.ID = model.NewID()
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	sql := `INSERT INTO carts (id, user_id, items, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
            RETURNING id, created_at`
	err = r.db.QueryRow(ctx, sql, cart.ID, cart.UserID, items, cart.CreatedAt, cart.UpdatedAt).Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
