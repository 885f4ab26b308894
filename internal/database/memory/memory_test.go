package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapStake_Go/internal/domain"
)

func TestWalletStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewWalletStore()

	_, err := s.GetWallet(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	w := domain.NewWallet("p1")
	w.Balances[domain.CurrencyUSD] = decimal.NewFromInt(10)
	require.NoError(t, s.SaveWallet(ctx, w))

	w.Balances[domain.CurrencyUSD] = decimal.NewFromInt(99)

	got, err := s.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.Balance(domain.CurrencyUSD).Equal(decimal.NewFromInt(10)))

	got.Held[domain.CurrencyUSD] = decimal.NewFromInt(5)
	again, _ := s.GetWallet(ctx, "p1")
	assert.True(t, again.HeldAmount(domain.CurrencyUSD).IsZero())
}

func TestWalletStore_ReplaceAndList(t *testing.T) {
	ctx := context.Background()
	s := NewWalletStore()
	require.NoError(t, s.SaveWallet(ctx, domain.NewWallet("old")))

	err := s.ReplaceWallets(ctx, []*domain.Wallet{
		{PlayerID: "b"},
		nil,
		{PlayerID: ""},
		domain.NewWallet("a"),
	})
	require.NoError(t, err)

	list, err := s.ListWallets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].PlayerID)
	assert.Equal(t, "b", list[1].PlayerID)
	assert.NotNil(t, list[1].Balances, "restored wallets get their maps filled")
}

func TestCashoutStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewCashoutStore()

	first := &domain.CashoutRequest{ID: "c1", PlayerID: "p1", Status: domain.CashoutStatusPending, CreatedAt: time.Now()}
	second := &domain.CashoutRequest{ID: "c2", PlayerID: "p2", Status: domain.CashoutStatusPending, CreatedAt: time.Now()}
	require.NoError(t, s.CreateCashout(ctx, first))
	require.NoError(t, s.CreateCashout(ctx, second))

	now := time.Now()
	first.Status = domain.CashoutStatusApproved
	first.DecidedAt = &now
	require.NoError(t, s.UpdateCashout(ctx, first))

	got, err := s.GetCashout(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CashoutStatusApproved, got.Status)

	list, err := s.ListCashouts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)

	err = s.UpdateCashout(ctx, &domain.CashoutRequest{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := s.DeleteAllCashouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.GetCashout(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMatchStore_UpdateRequiresExisting(t *testing.T) {
	ctx := context.Background()
	s := NewMatchStore()

	m := &domain.Match{ID: "m1", Status: domain.MatchStatusCreated}
	assert.ErrorIs(t, s.UpdateMatch(ctx, m), domain.ErrNotFound)

	require.NoError(t, s.CreateMatch(ctx, m))
	m.Stakes = append(m.Stakes, domain.Stake{PlayerID: "p1", Amount: decimal.NewFromInt(1)})

	got, err := s.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, got.Stakes)

	require.NoError(t, s.UpdateMatch(ctx, m))
	got, _ = s.GetMatch(ctx, "m1")
	assert.Len(t, got.Stakes, 1)
}
