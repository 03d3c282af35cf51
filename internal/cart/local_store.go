package cart

import (
	"context"
	"sync"
)

// LocalStore keeps carts in process memory. It is the default when no Redis
// address is configured and the backend for tests.
type LocalStore struct {
	mu    sync.RWMutex
	carts map[string]QuantityMap
}

func NewLocalStore() *LocalStore {
	return &LocalStore{carts: make(map[string]QuantityMap)}
}

func (s *LocalStore) Initialize(ctx context.Context) error { return nil }

func (s *LocalStore) AddItem(ctx context.Context, sessionID, productID string, max int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).Add(productID, max)
	return nil
}

func (s *LocalStore) IncreaseItem(ctx context.Context, sessionID, productID string, max int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).Increase(productID, max)
	return nil
}

func (s *LocalStore) DecreaseItem(ctx context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID).Decrease(productID)
	return nil
}

func (s *LocalStore) EmptyCart(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *LocalStore) GetCart(ctx context.Context, sessionID string) (QuantityMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.carts[sessionID]; ok {
		return m.Clone(), nil
	}
	return QuantityMap{}, nil
}

func (s *LocalStore) Ping(ctx context.Context) bool { return true }

// cart returns the session's map, creating it if needed. Callers hold the
// write lock.
func (s *LocalStore) cart(sessionID string) QuantityMap {
	m, ok := s.carts[sessionID]
	if !ok {
		m = make(QuantityMap)
		s.carts[sessionID] = m
	}
	return m
}
