package repository

import (
	"context"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// Cashout defines the data access required by the cashout workflow
type Cashout interface {
	CreateCashout(ctx context.Context, req *domain.CashoutRequest) error
	GetCashout(ctx context.Context, id string) (*domain.CashoutRequest, error)
	UpdateCashout(ctx context.Context, req *domain.CashoutRequest) error
	ListCashouts(ctx context.Context) ([]*domain.CashoutRequest, error)
	DeleteAllCashouts(ctx context.Context) (int, error)
	ReplaceCashouts(ctx context.Context, reqs []*domain.CashoutRequest) error
}
