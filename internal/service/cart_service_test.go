package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CartUpdated
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := v.(events.CartUpdated); ok && key == events.KeyCartUpdated {
		p.events = append(p.events, ev)
	}
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type cartFixture struct {
	svc       CartService
	carts     repository.CartRepository
	products  repository.ProductRepository
	publisher *recordingPublisher
	userID    string
	p1, p2    *model.Product
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	f := &cartFixture{
		carts:     store.Carts(),
		products:  store.Products(),
		publisher: &recordingPublisher{},
		userID:    model.NewID(),
		p1:        &model.Product{Name: "Lamp", Price: 20},
		p2:        &model.Product{Name: "Desk", Price: 120},
	}
	require.NoError(t, f.products.Create(context.Background(), f.p1))
	require.NoError(t, f.products.Create(context.Background(), f.p2))
	f.svc = NewCartService(f.carts, f.products, f.publisher)
	return f
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCartService_GetCart_Empty(t *testing.T) {
	f := newCartFixture(t)

	cart, err := f.svc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, cart.UserID)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.ID)
}

func TestCartService_AddToCart_MergesQuantities(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: 2})
	require.NoError(t, err)
	cart, err := f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Lamp", cart.Items[0].Product.Name)

	cart, err = f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p2.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, f.p2.ID, cart.Items[1].Product.ID)

	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, "add", f.publisher.events[2].Action)
	assert.Equal(t, f.userID, f.publisher.events[2].UserID)
}

func TestCartService_AddToCart_Validation(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.AddToCartRequest
	}{
		{"missing product", model.AddToCartRequest{Quantity: 1}},
		{"zero quantity", model.AddToCartRequest{ProductID: f.p1.ID}},
		{"negative quantity", model.AddToCartRequest{ProductID: f.p1.ID, Quantity: -2}},
		{"malformed id", model.AddToCartRequest{ProductID: "abc", Quantity: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddToCart(ctx, f.userID, tc.req)
			assertValidationError(t, err)
		})
	}

	_, err := f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: model.NewID(), Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	cart, err := f.carts.FindByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Nil(t, cart)
	assert.Empty(t, f.publisher.events)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.RemoveFromCart(ctx, f.userID, f.p1.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = f.svc.RemoveFromCart(ctx, f.userID, f.p2.ID)
	assert.ErrorIs(t, err, ErrItemNotInCart)

	stored, err := f.carts.FindByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, []model.CartItem{{ProductID: f.p1.ID, Quantity: 2}}, stored.Items)

	_, err = f.svc.RemoveFromCart(ctx, f.userID, "")
	assertValidationError(t, err)

	cart, err := f.svc.RemoveFromCart(ctx, f.userID, f.p1.ID)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateQuantity(ctx, f.userID, model.UpdateQuantityRequest{ProductID: f.p1.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: 2})
	require.NoError(t, err)

	for _, qty := range []int{0, -1} {
		_, err = f.svc.UpdateQuantity(ctx, f.userID, model.UpdateQuantityRequest{ProductID: f.p1.ID, Quantity: qty})
		assertValidationError(t, err)
	}

	_, err = f.svc.UpdateQuantity(ctx, f.userID, model.UpdateQuantityRequest{ProductID: f.p2.ID, Quantity: 4})
	assert.ErrorIs(t, err, ErrItemNotInCart)

	cart, err := f.svc.UpdateQuantity(ctx, f.userID, model.UpdateQuantityRequest{ProductID: f.p1.ID, Quantity: 7})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestCartService_UpdateCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateCart(ctx, f.userID, nil)
	assertValidationError(t, err)

	items := []model.CartItem{
		{ProductID: f.p2.ID, Quantity: 1},
		{ProductID: f.p1.ID, Quantity: 2},
		{ProductID: f.p2.ID, Quantity: 3},
	}
	cart, err := f.svc.UpdateCart(ctx, f.userID, &items)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, f.p2.ID, cart.Items[0].Product.ID)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, f.p1.ID, cart.Items[1].Product.ID)
	assert.Equal(t, 2, cart.Items[1].Quantity)

	bad := []model.CartItem{{ProductID: f.p1.ID, Quantity: 0}}
	_, err = f.svc.UpdateCart(ctx, f.userID, &bad)
	assertValidationError(t, err)

	unknown := []model.CartItem{{ProductID: model.NewID(), Quantity: 1}}
	_, err = f.svc.UpdateCart(ctx, f.userID, &unknown)
	assert.ErrorIs(t, err, ErrProductNotFound)

	stored, err := f.carts.FindByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	empty := []model.CartItem{}
	cart, err = f.svc.UpdateCart(ctx, f.userID, &empty)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, stored.ID, cart.ID)
}

func TestCartService_DeletedProductPopulatesAsNil(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, f.p1.ID))

	cart, err := f.svc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Nil(t, cart.Items[0].Product)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartService_PublishFailureIsNotFatal(t *testing.T) {
	f := newCartFixture(t)
	f.publisher.err = errors.New("broker unavailable")

	cart, err := f.svc.AddToCart(context.Background(), f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_NilPublisher(t *testing.T) {
	store := repository.NewMemoryStore()
	p := &model.Product{Name: "Lamp"}
	require.NoError(t, store.Products().Create(context.Background(), p))

	svc := NewCartService(store.Carts(), store.Products(), nil)
	_, err := svc.AddToCart(context.Background(), model.NewID(), model.AddToCartRequest{ProductID: p.ID, Quantity: 1})
	assert.NoError(t, err)
}

func TestCartService_QuantityOverflow(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = f.svc.AddToCart(ctx, f.userID, model.AddToCartRequest{ProductID: f.p1.ID, Quantity: math.MaxInt})
	assertValidationError(t, err)

	stored, err := f.carts.FindByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Items[0].Quantity)

	items := []model.CartItem{
		{ProductID: f.p2.ID, Quantity: math.MaxInt},
		{ProductID: f.p2.ID, Quantity: 1},
	}
	_, err = f.svc.UpdateCart(ctx, f.userID, &items)
	assertValidationError(t, err)

	stored, err = f.carts.FindByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, []model.CartItem{{ProductID: f.p1.ID, Quantity: 5}}, stored.Items)

	exact := []model.CartItem{
		{ProductID: f.p2.ID, Quantity: math.MaxInt - 1},
		{ProductID: f.p2.ID, Quantity: 1},
	}
	cart, err := f.svc.UpdateCart(ctx, f.userID, &exact)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, cart.Items[0].Quantity)
}
