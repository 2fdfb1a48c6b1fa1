package repository

import (
	"time"

	"storefront/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	cartsCollection    = "carts"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Address   string             `bson:"address"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Address:      d.Address,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
	}
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Stock       int                `bson:"stock"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newProductDoc(id primitive.ObjectID, p *model.Product) productDoc {
	return productDoc{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *productDoc) toModel() model.Product {
	return model.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type cartItemDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      primitive.ObjectID `bson:"user"`
	Items     []cartItemDoc      `bson:"items"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *cartDoc) toModel() *model.Cart {
	items := make([]model.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, model.CartItem{ProductID: it.Product.Hex(), Quantity: it.Quantity})
	}
	return &model.Cart{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Items:     items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// objectIDOrNew parses a hex id, generating a fresh one when s is empty
func objectIDOrNew(s string) (primitive.ObjectID, error) {
	if s == "" {
		return primitive.NewObjectID(), nil
	}
	return primitive.ObjectIDFromHex(s)
}
