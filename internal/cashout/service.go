// Package cashout implements the withdrawal workflow: a request holds funds
// on creation and is decided exactly once by an admin.
package cashout

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/concurrency"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/metrics"
	"github.com/osse101/TapStake_Go/internal/payout"
	"github.com/osse101/TapStake_Go/internal/repository"
	"github.com/osse101/TapStake_Go/internal/snapshot"
)

// Service defines the cashout workflow
type Service interface {
	Create(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.CashoutRequest, error)
	Get(ctx context.Context, id string) (*domain.CashoutRequest, error)
	List(ctx context.Context, filter domain.CashoutFilter) ([]*domain.CashoutRequest, error)
	Approve(ctx context.Context, id, decidedBy string) (*domain.CashoutRequest, error)
	Reject(ctx context.Context, id, note, decidedBy string) (*domain.CashoutRequest, error)
	ResetAll(ctx context.Context) (int, error)
	CheckAdminToken(token string) error
	All(ctx context.Context) ([]*domain.CashoutRequest, error)
	Restore(ctx context.Context, reqs []*domain.CashoutRequest) error
}

// WalletService is the slice of the ledger a cashout moves money through
type WalletService interface {
	Hold(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
	Release(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
	Capture(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
}

// EventPublisher defines the interface for publishing events with retry
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	repo       repository.Cashout
	wallets    WalletService
	provider   payout.Provider
	locks      *concurrency.LockManager
	dirty      snapshot.Dirtier
	publisher  EventPublisher
	adminToken string
	now        func() time.Time
}

// NewService creates a cashout service. An empty adminToken leaves admin
// operations open.
func NewService(repo repository.Cashout, wallets WalletService, provider payout.Provider, locks *concurrency.LockManager, dirty snapshot.Dirtier, publisher EventPublisher, adminToken string) Service {
	if dirty == nil {
		dirty = snapshot.Nop{}
	}
	return &service{
		repo:       repo,
		wallets:    wallets,
		provider:   provider,
		locks:      locks,
		dirty:      dirty,
		publisher:  publisher,
		adminToken: adminToken,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.CashoutRequest, error) {
	log := logger.FromContext(ctx)

	playerID, err := domain.NormalizePlayerID(playerID)
	if err != nil {
		return nil, err
	}
	if cur != domain.CurrencyUSD {
		return nil, domain.ErrBadCurrency
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Hold(ctx, playerID, amount, cur); err != nil {
		return nil, err
	}

	req := &domain.CashoutRequest{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Amount:    amount,
		Currency:  cur,
		Status:    domain.CashoutStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateCashout(ctx, req); err != nil {
		// Without a request row nothing would ever release the hold
		if _, rerr := s.wallets.Release(ctx, playerID, amount, cur); rerr != nil {
			log.Error(LogMsgReleaseAfterCreateFailed, "playerID", playerID, "amount", amount.String(), "error", rerr)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateCashout, err)
	}

	log.Info(LogMsgCashoutCreated, "cashoutID", req.ID, "playerID", playerID, "amount", amount.String())
	s.dirty.MarkDirty(snapshot.CollectionCashouts)
	s.publish(ctx, event.NewCashoutEvent(domain.EventTypeCashoutRequested, req))
	return req, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.CashoutRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrBadID
	}
	return s.repo.GetCashout(ctx, id)
}

// List returns requests newest first, optionally for one player
func (s *service) List(ctx context.Context, filter domain.CashoutFilter) ([]*domain.CashoutRequest, error) {
	all, err := s.repo.ListCashouts(ctx)
	if err != nil {
		return nil, err
	}

	playerID := strings.TrimSpace(filter.PlayerID)
	out := make([]*domain.CashoutRequest, 0, len(all))
	for _, req := range all {
		if playerID != "" && req.PlayerID != playerID {
			continue
		}
		out = append(out, req)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit := filter.ClampLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Approve pays the request out through the provider, then captures the
// hold. A provider failure leaves the request pending and the funds held.
func (s *service) Approve(ctx context.Context, id, decidedBy string) (*domain.CashoutRequest, error) {
	log := logger.FromContext(ctx)

	req, err := s.decide(ctx, id, func(req *domain.CashoutRequest) error {
		ref, err := s.provider.CreatePayout(ctx, payout.Request{
			CashoutID: req.ID,
			PlayerID:  req.PlayerID,
			Amount:    req.Amount,
			Currency:  req.Currency,
		})
		if err != nil {
			log.Warn(LogMsgPayoutFailed, "cashoutID", req.ID, "provider", s.provider.Name(), "error", err)
			var pe *domain.PayoutError
			if !errors.As(err, &pe) {
				err = &domain.PayoutError{Provider: s.provider.Name(), Message: err.Error()}
			}
			return err
		}

		if _, err := s.wallets.Capture(ctx, req.PlayerID, req.Amount, req.Currency); err != nil {
			log.Error(LogMsgCaptureAfterPayoutFailed, "cashoutID", req.ID, "payoutRef", ref, "error", err)
			return fmt.Errorf("%s: %w", ErrMsgCaptureFailed, err)
		}

		req.Status = domain.CashoutStatusApproved
		req.PayoutRef = ref
		return nil
	}, decidedBy)
	if err != nil {
		return nil, err
	}

	log.Info(LogMsgCashoutApproved, "cashoutID", req.ID, "payoutRef", req.PayoutRef, "decidedBy", req.DecidedBy)
	s.publish(ctx, event.NewCashoutEvent(domain.EventTypeCashoutApproved, req))
	return req, nil
}

// Reject releases the hold back to the player's balance
func (s *service) Reject(ctx context.Context, id, note, decidedBy string) (*domain.CashoutRequest, error) {
	req, err := s.decide(ctx, id, func(req *domain.CashoutRequest) error {
		if _, err := s.wallets.Release(ctx, req.PlayerID, req.Amount, req.Currency); err != nil {
			return err
		}
		req.Status = domain.CashoutStatusRejected
		req.Note = strings.TrimSpace(note)
		return nil
	}, decidedBy)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgCashoutRejected, "cashoutID", req.ID, "decidedBy", req.DecidedBy)
	s.publish(ctx, event.NewCashoutEvent(domain.EventTypeCashoutRejected, req))
	return req, nil
}

// decide runs apply on a pending request under its lock and stamps the
// decision. apply sets the terminal status.
func (s *service) decide(ctx context.Context, id string, apply func(req *domain.CashoutRequest) error, decidedBy string) (*domain.CashoutRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrBadID
	}
	decidedBy = strings.TrimSpace(decidedBy)
	if decidedBy == "" {
		decidedBy = domain.DefaultDecidedBy
	}

	var req *domain.CashoutRequest
	err := s.locks.WithLock(concurrency.CashoutKey(id), func() error {
		var err error
		if req, err = s.repo.GetCashout(ctx, id); err != nil {
			return err
		}
		if !req.IsPending() {
			return domain.ErrAlreadyDecided
		}
		if err := apply(req); err != nil {
			return err
		}

		now := s.now()
		req.DecidedAt = &now
		req.DecidedBy = decidedBy
		return s.repo.UpdateCashout(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	metrics.CashoutDecisions.WithLabelValues(string(req.Status)).Inc()
	s.dirty.MarkDirty(snapshot.CollectionCashouts)
	return req, nil
}

// ResetAll drops every request without touching wallets. Held funds of
// pending requests stay held.
func (s *service) ResetAll(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteAllCashouts(ctx)
	if err != nil {
		return 0, err
	}
	logger.FromContext(ctx).Warn(LogMsgCashoutsReset, "cleared", n)
	s.dirty.MarkDirty(snapshot.CollectionCashouts)
	return n, nil
}

// CheckAdminToken compares token with the configured secret in constant time.
// With no secret configured every caller is admitted.
func (s *service) CheckAdminToken(token string) error {
	if s.adminToken == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *service) All(ctx context.Context) ([]*domain.CashoutRequest, error) {
	return s.repo.ListCashouts(ctx)
}

func (s *service) Restore(ctx context.Context, reqs []*domain.CashoutRequest) error {
	return s.repo.ReplaceCashouts(ctx, reqs)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWithRetry(ctx, evt)
}
