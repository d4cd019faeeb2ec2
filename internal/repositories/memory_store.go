package repositories

import (
	"context"
	"sync"

	"lalastore/internal/models"
)

// locker is satisfied by *sync.RWMutex and by noopLocker. Repositories created
// inside a transaction already run under the store's write lock.
type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type noopLocker struct{}

func (noopLocker) Lock()    {}
func (noopLocker) Unlock()  {}
func (noopLocker) RLock()   {}
func (noopLocker) RUnlock() {}

type memoryState struct {
	categories map[uint]models.Category
	products   map[uint]models.Product
	users      map[uint]models.User
	cart       map[uint]models.CartItem
	orders     map[uint]models.Order
	orderItems map[uint]models.OrderItem
	lastID     map[string]uint
}

func newMemoryState() *memoryState {
	return &memoryState{
		categories: make(map[uint]models.Category),
		products:   make(map[uint]models.Product),
		users:      make(map[uint]models.User),
		cart:       make(map[uint]models.CartItem),
		orders:     make(map[uint]models.Order),
		orderItems: make(map[uint]models.OrderItem),
		lastID:     make(map[string]uint),
	}
}

func (s *memoryState) nextID(table string) uint {
	s.lastID[table]++
	return s.lastID[table]
}

func (s *memoryState) clone() *memoryState {
	c := newMemoryState()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.cart {
		c.cart[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = v
	}
	for k, v := range s.lastID {
		c.lastID[k] = v
	}
	return c
}

// InMemoryStore is a Store that keeps all rows in process memory. Transactions
// hold the store's write lock for their whole duration, so they are serializable,
// and a failed transaction restores the state it started from.
type InMemoryStore struct {
	mu    sync.RWMutex
	state *memoryState
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{state: newMemoryState()}
}

func (s *InMemoryStore) repositories(mu locker) Repositories {
	return Repositories{
		Products: &MockProductRepository{store: s, mu: mu},
		Carts:    &MockCartRepository{store: s, mu: mu},
		Orders:   &MockOrderRepository{store: s, mu: mu},
		Users:    &MockUserRepository{store: s, mu: mu},
	}
}

func (s *InMemoryStore) Repositories() Repositories {
	return s.repositories(&s.mu)
}

func (s *InMemoryStore) WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(s.repositories(noopLocker{})); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *InMemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
