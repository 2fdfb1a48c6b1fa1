package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/model"
)

// MemoryStore keeps users, products and carts in process memory. It backs STORE_DRIVER=memory
// and the HTTP tests; all data is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]model.User
	products map[string]model.Product
	carts    map[string]model.Cart // keyed by user id
	seq      int                   // insertion order for products
	order    map[string]int
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]model.User),
		products: make(map[string]model.Product),
		carts:    make(map[string]model.Cart),
		order:    make(map[string]int),
	}
}

func (s *MemoryStore) Users() UserRepository       { return memoryUsers{s} }
func (s *MemoryStore) Products() ProductRepository { return memoryProducts{s} }
func (s *MemoryStore) Carts() CartRepository       { return memoryCarts{s} }

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w", ErrDuplicateKey)
		}
	}
	if user.ID == "" {
		user.ID = model.NewID()
	}
	m.s.users[user.ID] = *user
	return nil
}

func (m memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, u := range m.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m memoryUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m memoryUsers) Update(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	existing.Name = user.Name
	existing.Address = user.Address
	existing.PasswordHash = user.PasswordHash
	m.s.users[user.ID] = existing
	return nil
}

type memoryProducts struct{ s *MemoryStore }

func (m memoryProducts) Create(_ context.Context, p *model.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p.ID == "" {
		p.ID = model.NewID()
	}
	m.s.products[p.ID] = *p
	m.s.seq++
	m.s.order[p.ID] = m.s.seq
	return nil
}

func (m memoryProducts) FindByID(_ context.Context, id string) (*model.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m memoryProducts) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	products := []model.Product{}
	for _, id := range ids {
		if p, ok := m.s.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m memoryProducts) FindAll(_ context.Context, filters model.ProductFilters) ([]model.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var search string
	if filters.Search != nil {
		search = strings.ToLower(*filters.Search)
	}

	products := []model.Product{}
	for _, p := range m.s.products {
		if filters.Category != nil && *filters.Category != "" && p.Category != *filters.Category {
			continue
		}
		if filters.MaxPrice != nil && p.Price > *filters.MaxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return m.s.order[products[i].ID] < m.s.order[products[j].ID]
	})
	return products, nil
}

func (m memoryProducts) Update(_ context.Context, p *model.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.products[p.ID]; !ok {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	p.UpdatedAt = time.Now()
	m.s.products[p.ID] = *p
	return nil
}

func (m memoryProducts) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	delete(m.s.products, id)
	delete(m.s.order, id)
	return nil
}

func (m memoryProducts) DeleteAll(_ context.Context) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.products = make(map[string]model.Product)
	m.s.order = make(map[string]int)
	return nil
}

type memoryCarts struct{ s *MemoryStore }

func (m memoryCarts) FindByUser(_ context.Context, userID string) (*model.Cart, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	c, ok := m.s.carts[userID]
	if !ok {
		return nil, nil
	}
	c.Items = append([]model.CartItem{}, c.Items...)
	return &c, nil
}

func (m memoryCarts) Save(_ context.Context, cart *model.Cart) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now()
	if existing, ok := m.s.carts[cart.UserID]; ok {
		cart.ID = existing.ID
		cart.CreatedAt = existing.CreatedAt
	}
	if cart.ID == "" {
		cart.ID = model.NewID()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	cart.UpdatedAt = now

	stored := *cart
	stored.Items = append([]model.CartItem{}, cart.Items...)
	m.s.carts[cart.UserID] = stored
	return nil
}
