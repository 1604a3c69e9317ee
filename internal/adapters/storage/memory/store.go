// Package memory keeps values in process memory. Nothing survives a restart.
package memory

import (
	"slices"
	"sync"
)

// Keyed values carry their own identifier.
type Keyed interface {
	ID() string
}

// Store is an insertion-ordered map guarded by a RWMutex.
type Store[V Keyed] struct {
	mu    sync.RWMutex
	items map[string]V
	order []string
}

func NewStore[V Keyed]() *Store[V] {
	return &Store[V]{items: make(map[string]V)}
}

func (s *Store[V]) Put(v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := v.ID()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = v
}

func (s *Store[V]) Get(id string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

func (s *Store[V]) Delete(id string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[id]
	if !ok {
		return v, false
	}
	delete(s.items, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return v, true
}

// List returns the values in insertion order.
func (s *Store[V]) List() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
