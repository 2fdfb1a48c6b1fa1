package main

import (
	"context"
	"errors"
	"log"

	"storefront/internal/config"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/utils"

	"github.com/joho/godotenv"
)

var testUser = model.SignupRequest{
	Name:     "Test User",
	Email:    "test@example.com",
	Password: "password123",
	Address:  "123 Test Street",
}

var sampleProducts = []model.CreateProductRequest{
	{
		Name:        "Wireless Bluetooth Headphones",
		Description: "Premium noise-cancelling headphones with 20-hour battery life",
		Price:       129.99,
		Category:    "Electronics",
		Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500&auto=format&fit=crop&q=80",
		Stock:       50,
	},
	{
		Name:        "Smart Fitness Watch",
		Description: "Tracks steps, heart rate, and sleep with 7-day battery life",
		Price:       89.99,
		Category:    "Electronics",
		Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500&auto=format&fit=crop&q=80",
		Stock:       35,
	},
	{
		Name:        "Organic Cotton T-Shirt",
		Description: "Comfortable, sustainable, and ethically made premium shirt",
		Price:       24.99,
		Category:    "Clothing",
		Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500&auto=format&fit=crop&q=80",
		Stock:       100,
	},
	{
		Name:        "Stainless Steel Water Bottle",
		Description: "Vacuum insulated bottle keeps drinks cold for 24 hours",
		Price:       34.99,
		Category:    "Home",
		Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=500&auto=format&fit=crop&q=80",
		Stock:       75,
	},
	{
		Name:        "Bestselling Novel",
		Description: "Award-winning fiction by renowned author, hardcover edition",
		Price:       19.99,
		Category:    "Books",
		Image:       "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=500&auto=format&fit=crop&q=80",
		Stock:       60,
	},
	{
		Name:        "Professional Chef Knife",
		Description: "German stainless steel 8-inch kitchen knife",
		Price:       79.99,
		Category:    "Home",
		Image:       "https://images.unsplash.com/photo-1593618998160-e34014e67546?w=500&auto=format&fit=crop&q=80",
		Stock:       25,
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.StoreDriver == config.DriverMemory {
		log.Fatalf("Refusing to seed the in-memory store; set STORE_DRIVER to mongo or postgres")
	}

	ctx := context.Background()
	store, err := config.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	authService := service.NewAuthService(store.Users, utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours))
	productService := service.NewProductService(store.Products)

	if err := seed(ctx, store, authService, productService); err != nil {
		log.Printf("Seeding failed: %v", err)
		return
	}
	log.Println("Database seeding completed successfully!")
}

func seed(ctx context.Context, store *config.Store, auth service.AuthService, products service.ProductService) error {
	user, err := auth.Signup(ctx, testUser)
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		log.Printf("Test user %s already exists", testUser.Email)
	case err != nil:
		return err
	default:
		log.Printf("Test user created with ID: %s", user.ID)
	}

	if err := store.Products.DeleteAll(ctx); err != nil {
		return err
	}
	log.Println("Existing products deleted")

	for _, req := range sampleProducts {
		p, err := products.CreateProduct(ctx, req)
		if err != nil {
			return err
		}
		log.Printf("%s: %s", p.Name, p.ID)
	}
	log.Printf("%d products created successfully!", len(sampleProducts))
	return nil
}
