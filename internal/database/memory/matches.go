package memory

import (
	"context"
	"sync"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// MatchStore is an in-memory repository.Match
type MatchStore struct {
	mu      sync.RWMutex
	matches map[string]*domain.Match
}

func NewMatchStore() *MatchStore {
	return &MatchStore{matches: make(map[string]*domain.Match)}
}

func (s *MatchStore) CreateMatch(_ context.Context, match *domain.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *MatchStore) GetMatch(_ context.Context, id string) (*domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *MatchStore) UpdateMatch(_ context.Context, match *domain.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[match.ID]; !ok {
		return domain.ErrNotFound
	}
	s.matches[match.ID] = match.Clone()
	return nil
}
