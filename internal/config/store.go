package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront/internal/repository"
)

// Store bundles the repositories of the configured backend
type Store struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Carts    repository.CartRepository

	// Ping reports backend health for /health
	Ping  func(ctx context.Context) error
	close func()
}

// Close releases the backend connection
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects to the backend selected by STORE_DRIVER and prepares its schema.
func OpenStore(ctx context.Context, cfg *App) (*Store, error) {
	switch cfg.StoreDriver {
	case DriverPostgres:
		pool, err := ConnectDB(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		if err := AutoMigrate(pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Users:    repository.NewUserRepository(pool),
			Products: repository.NewProductRepository(pool),
			Carts:    repository.NewCartRepository(pool),
			Ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case DriverMongo:
		client, err := ConnectMongo(cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{
			Users:    repository.NewMongoUserRepository(db),
			Products: repository.NewMongoProductRepository(db),
			Carts:    repository.NewMongoCartRepository(db),
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					log.Printf("Error disconnecting from MongoDB: %v", err)
				}
			},
		}, nil

	case DriverMemory:
		log.Println("Using in-memory store; data is lost on exit")
		mem := repository.NewMemoryStore()
		return &Store{
			Users:    mem.Users(),
			Products: mem.Products(),
			Carts:    mem.Carts(),
			Ping:     func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}
