package market

import (
	"errors"
	"sync"
)

var ErrUnknownSymbol = errors.New("market: unknown symbol")

// Store holds the live quote set. The simulator is the only writer;
// everything else reads through Get and Snapshot.
type Store struct {
	mu     sync.RWMutex
	quotes map[string]*Quote
	order  []string
}

func NewStore(seed []Quote) *Store {
	s := &Store{quotes: make(map[string]*Quote, len(seed))}
	for i := range seed {
		q := seed[i]
		s.quotes[q.Symbol] = &q
		s.order = append(s.order, q.Symbol)
	}
	return s
}

func (s *Store) Get(symbol string) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[symbol]
	if !ok {
		return Quote{}, ErrUnknownSymbol
	}
	return *q, nil
}

// Snapshot returns all quotes in listing order.
func (s *Store) Snapshot() []Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Quote, 0, len(s.order))
	for _, sym := range s.order {
		out = append(out, *s.quotes[sym])
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// apply runs fn over every quote under the write lock and returns the
// resulting snapshot in one critical section.
func (s *Store) apply(fn func(*Quote)) []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Quote, 0, len(s.order))
	for _, sym := range s.order {
		fn(s.quotes[sym])
		out = append(out, *s.quotes[sym])
	}
	return out
}
