package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCartRepository struct {
	coll *mongo.Collection
}

// NewMongoCartRepository creates a CartRepository over the carts collection
func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{coll: db.Collection(cartsCollection)}
}

func (r *mongoCartRepository) FindByUser(ctx context.Context, userID string) (*model.Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	var doc cartDoc
	if err := r.coll.FindOne(ctx, bson.M{"user": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cart by user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	uid, err := primitive.ObjectIDFromHex(cart.UserID)
	if err != nil {
		return fmt.Errorf("invalid cart owner %q: %w", cart.UserID, err)
	}
	id, err := objectIDOrNew(cart.ID)
	if err != nil {
		return fmt.Errorf("invalid cart id %q: %w", cart.ID, err)
	}

	items := make([]cartItemDoc, 0, len(cart.Items))
	for _, it := range cart.Items {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return fmt.Errorf("invalid product id %q in cart: %w", it.ProductID, err)
		}
		items = append(items, cartItemDoc{Product: pid, Quantity: it.Quantity})
	}

	now := time.Now()
	createdAt := cart.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	// _id and createdAt are only written on insert; a save that loses a concurrent
	// first-insert race updates the existing document.
	update := bson.M{
		"$set":         bson.M{"items": items, "updatedAt": now},
		"$setOnInsert": bson.M{"_id": id, "createdAt": createdAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved cartDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"user": uid}, update, opts).Decode(&saved)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to save cart: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("failed to save cart: %w", err)
	}
	cart.ID = saved.ID.Hex()
	cart.CreatedAt = saved.CreatedAt
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return nil
}
