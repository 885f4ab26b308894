package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/TapStake_Go/internal/arena"
	"github.com/osse101/TapStake_Go/internal/domain"
)

// MockArenaService is a mock implementation of arena.Service
type MockArenaService struct {
	mock.Mock
}

func (m *MockArenaService) Stake(ctx context.Context, matchID, playerID string, amount decimal.Decimal, cur domain.Currency) (*arena.StakeResult, error) {
	args := m.Called(ctx, matchID, playerID, amount, cur)
	var out *arena.StakeResult
	if v := args.Get(0); v != nil {
		out = v.(*arena.StakeResult)
	}
	return out, args.Error(1)
}

func (m *MockArenaService) Start(ctx context.Context, matchID string) (*domain.Match, bool, error) {
	args := m.Called(ctx, matchID)
	return matchArg(args, 0), args.Bool(1), args.Error(2)
}

func (m *MockArenaService) SubmitRun(ctx context.Context, sub domain.RunSubmission) (*arena.SubmitResult, error) {
	args := m.Called(ctx, sub)
	var out *arena.SubmitResult
	if v := args.Get(0); v != nil {
		out = v.(*arena.SubmitResult)
	}
	return out, args.Error(1)
}

func (m *MockArenaService) EndMatch(ctx context.Context, matchID string) (*arena.EndResult, error) {
	args := m.Called(ctx, matchID)
	var out *arena.EndResult
	if v := args.Get(0); v != nil {
		out = v.(*arena.EndResult)
	}
	return out, args.Error(1)
}

func (m *MockArenaService) ForceEnd(ctx context.Context, matchID string) error {
	args := m.Called(ctx, matchID)
	return args.Error(0)
}

func (m *MockArenaService) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	args := m.Called(ctx, matchID)
	return matchArg(args, 0), args.Error(1)
}

// MockMatchService is a mock implementation of match.Service
type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) Create(ctx context.Context, gameID string, cur domain.Currency, durationMs int64) (*domain.Match, error) {
	args := m.Called(ctx, gameID, cur, durationMs)
	return matchArg(args, 0), args.Error(1)
}

func (m *MockMatchService) Get(ctx context.Context, id string) (*domain.Match, error) {
	args := m.Called(ctx, id)
	return matchArg(args, 0), args.Error(1)
}

func (m *MockMatchService) PlaceStake(ctx context.Context, id, playerID string, amount decimal.Decimal) (*domain.Match, error) {
	args := m.Called(ctx, id, playerID, amount)
	return matchArg(args, 0), args.Error(1)
}

func (m *MockMatchService) Start(ctx context.Context, id string) (*domain.Match, bool, error) {
	args := m.Called(ctx, id)
	return matchArg(args, 0), args.Bool(1), args.Error(2)
}

func (m *MockMatchService) End(ctx context.Context, id string, result domain.MatchResult) (*domain.Match, error) {
	args := m.Called(ctx, id, result)
	return matchArg(args, 0), args.Error(1)
}

func (m *MockMatchService) RecordPayout(ctx context.Context, id, playerID string, amount decimal.Decimal) (*domain.Match, error) {
	args := m.Called(ctx, id, playerID, amount)
	return matchArg(args, 0), args.Error(1)
}

func (m *MockMatchService) RecordRefund(ctx context.Context, id string) (*domain.Match, error) {
	args := m.Called(ctx, id)
	return matchArg(args, 0), args.Error(1)
}

func matchArg(args mock.Arguments, i int) *domain.Match {
	if v := args.Get(i); v != nil {
		return v.(*domain.Match)
	}
	return nil
}

// MockRunService is a mock implementation of run.Service
type MockRunService struct {
	mock.Mock
}

func (m *MockRunService) Verify(ctx context.Context, sub domain.RunSubmission) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}

func (m *MockRunService) Store(ctx context.Context, sub domain.RunSubmission, serverScore int) *domain.StoredRun {
	args := m.Called(ctx, sub, serverScore)
	return runArg(args, 0)
}

func (m *MockRunService) Get(ctx context.Context, id string) (*domain.StoredRun, bool) {
	args := m.Called(ctx, id)
	return runArg(args, 0), args.Bool(1)
}

func (m *MockRunService) BestRunForMatch(ctx context.Context, matchID string) (*domain.StoredRun, bool) {
	args := m.Called(ctx, matchID)
	return runArg(args, 0), args.Bool(1)
}

func (m *MockRunService) RunsForMatch(ctx context.Context, matchID string, limit int) []*domain.StoredRun {
	args := m.Called(ctx, matchID, limit)
	if v := args.Get(0); v != nil {
		return v.([]*domain.StoredRun)
	}
	return nil
}

func runArg(args mock.Arguments, i int) *domain.StoredRun {
	if v := args.Get(i); v != nil {
		return v.(*domain.StoredRun)
	}
	return nil
}

// MockWalletService is a mock implementation of wallet.Service
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetOrCreate(ctx context.Context, playerID string) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID)
	return walletArg(args, 0), args.Error(1)
}

func (m *MockWalletService) Get(ctx context.Context, playerID string) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID)
	return walletArg(args, 0), args.Error(1)
}

func (m *MockWalletService) Fund(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID, amount, cur)
	return walletArg(args, 0), args.Error(1)
}

func (m *MockWalletService) Credit(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID, amount, cur)
	return walletArg(args, 0), args.Error(1)
}

func (m *MockWalletService) Take(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (bool, error) {
	args := m.Called(ctx, playerID, amount, cur)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletService) Hold(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID, amount, cur)
	return walletArg(args, 0), args.Error(1)
}

func (m *MockWalletService) Release(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID, amount, cur)
	return walletArg(args, 0), args.Error(1)
}

func (m *MockWalletService) Capture(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID, amount, cur)
	return walletArg(args, 0), args.Error(1)
}

func (m *MockWalletService) All(ctx context.Context) ([]*domain.Wallet, error) {
	args := m.Called(ctx)
	var out []*domain.Wallet
	if v := args.Get(0); v != nil {
		out = v.([]*domain.Wallet)
	}
	return out, args.Error(1)
}

func (m *MockWalletService) Restore(ctx context.Context, wallets []*domain.Wallet) error {
	args := m.Called(ctx, wallets)
	return args.Error(0)
}

func walletArg(args mock.Arguments, i int) *domain.Wallet {
	if v := args.Get(i); v != nil {
		return v.(*domain.Wallet)
	}
	return nil
}

// MockCashoutService is a mock implementation of cashout.Service
type MockCashoutService struct {
	mock.Mock
}

func (m *MockCashoutService) Create(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.CashoutRequest, error) {
	args := m.Called(ctx, playerID, amount, cur)
	return cashoutArg(args, 0), args.Error(1)
}

func (m *MockCashoutService) Get(ctx context.Context, id string) (*domain.CashoutRequest, error) {
	args := m.Called(ctx, id)
	return cashoutArg(args, 0), args.Error(1)
}

func (m *MockCashoutService) List(ctx context.Context, filter domain.CashoutFilter) ([]*domain.CashoutRequest, error) {
	args := m.Called(ctx, filter)
	var out []*domain.CashoutRequest
	if v := args.Get(0); v != nil {
		out = v.([]*domain.CashoutRequest)
	}
	return out, args.Error(1)
}

func (m *MockCashoutService) Approve(ctx context.Context, id, decidedBy string) (*domain.CashoutRequest, error) {
	args := m.Called(ctx, id, decidedBy)
	return cashoutArg(args, 0), args.Error(1)
}

func (m *MockCashoutService) Reject(ctx context.Context, id, note, decidedBy string) (*domain.CashoutRequest, error) {
	args := m.Called(ctx, id, note, decidedBy)
	return cashoutArg(args, 0), args.Error(1)
}

func (m *MockCashoutService) ResetAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCashoutService) CheckAdminToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockCashoutService) All(ctx context.Context) ([]*domain.CashoutRequest, error) {
	args := m.Called(ctx)
	var out []*domain.CashoutRequest
	if v := args.Get(0); v != nil {
		out = v.([]*domain.CashoutRequest)
	}
	return out, args.Error(1)
}

func (m *MockCashoutService) Restore(ctx context.Context, reqs []*domain.CashoutRequest) error {
	args := m.Called(ctx, reqs)
	return args.Error(0)
}

func cashoutArg(args mock.Arguments, i int) *domain.CashoutRequest {
	if v := args.Get(i); v != nil {
		return v.(*domain.CashoutRequest)
	}
	return nil
}
