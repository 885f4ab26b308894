package memory

import (
	"context"
	"sync"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// CashoutStore is an in-memory repository.Cashout that keeps insertion order.
type CashoutStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.CashoutRequest
}

func NewCashoutStore() *CashoutStore {
	return &CashoutStore{byID: make(map[string]*domain.CashoutRequest)}
}

func (s *CashoutStore) CreateCashout(_ context.Context, req *domain.CashoutRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[req.ID]; !exists {
		s.order = append(s.order, req.ID)
	}
	s.byID[req.ID] = req.Clone()
	return nil
}

func (s *CashoutStore) GetCashout(_ context.Context, id string) (*domain.CashoutRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return req.Clone(), nil
}

func (s *CashoutStore) UpdateCashout(_ context.Context, req *domain.CashoutRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[req.ID]; !ok {
		return domain.ErrNotFound
	}
	s.byID[req.ID] = req.Clone()
	return nil
}

// ListCashouts returns every request in insertion order.
func (s *CashoutStore) ListCashouts(_ context.Context) ([]*domain.CashoutRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.CashoutRequest, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

func (s *CashoutStore) DeleteAllCashouts(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.order)
	s.order = nil
	s.byID = make(map[string]*domain.CashoutRequest)
	return n, nil
}

func (s *CashoutStore) ReplaceCashouts(_ context.Context, reqs []*domain.CashoutRequest) error {
	order := make([]string, 0, len(reqs))
	byID := make(map[string]*domain.CashoutRequest, len(reqs))
	for _, r := range reqs {
		if r == nil || r.ID == "" {
			continue
		}
		if _, dup := byID[r.ID]; !dup {
			order = append(order, r.ID)
		}
		byID[r.ID] = r.Clone()
	}

	s.mu.Lock()
	s.order = order
	s.byID = byID
	s.mu.Unlock()
	return nil
}
