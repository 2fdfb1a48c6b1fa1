package repository

import (
	"context"
	"errors"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateKey is returned when a write violates a unique index (users.email, carts.user)
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned by writes that target a missing document
	ErrNotFound = errors.New("document not found")
)

// UserRepository defines operations for user data.
// Reads return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// ProductRepository defines operations for catalog data
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters model.ProductFilters) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// CartRepository defines operations for the per-user cart document
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*model.Cart, error)
	// Save inserts or replaces the cart owned by cart.UserID, filling ID and timestamps.
	Save(ctx context.Context, cart *model.Cart) error
}

// PgxIface is the subset of *pgxpool.Pool the Postgres repositories use
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
