package repository

import (
	"sync"

	"github.com/medigo/orders-service/internal/domain"
)

// OrderStore is the single owner of all order records. Orders are held in
// memory for the life of the process; there is no delete. Reads return a
// copy so pollers never observe a half-written record.
type OrderStore struct {
	mu   sync.RWMutex
	byID map[string]*domain.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		byID: make(map[string]*domain.Order),
	}
}

// Put inserts or replaces the record for o.ID. Ids come from
// domain.NewOrderID, so collisions are not checked here.
func (s *OrderStore) Put(o *domain.Order) {
	cp := clone(o)
	s.mu.Lock()
	s.byID[cp.ID] = cp
	s.mu.Unlock()
}

func (s *OrderStore) Get(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	if !ok {
		return domain.Order{}, false
	}
	return *clone(o), true
}

// Update applies fn to the record under the write lock, so mutations to a
// given id are serialized. Returns false if the id is unknown.
func (s *OrderStore) Update(id string, fn func(*domain.Order)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return false
	}
	fn(o)
	return true
}

// clone copies the record and its position so callers can never mutate
// store-owned state through a returned snapshot.
func clone(o *domain.Order) *domain.Order {
	cp := *o
	if o.Delivery != nil {
		d := *o.Delivery
		cp.Delivery = &d
	}
	return &cp
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
