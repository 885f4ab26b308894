package repository

import (
	"context"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// Match defines the data access required by the match lifecycle
type Match interface {
	CreateMatch(ctx context.Context, match *domain.Match) error
	GetMatch(ctx context.Context, id string) (*domain.Match, error)
	UpdateMatch(ctx context.Context, match *domain.Match) error
}
