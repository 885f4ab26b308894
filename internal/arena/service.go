// Package arena orchestrates a staked match across the wallet ledger, the
// match state machine and run verification. It is the only place escrow
// is paid out.
package arena

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/concurrency"
	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/match"
	"github.com/osse101/TapStake_Go/internal/metrics"
	"github.com/osse101/TapStake_Go/internal/run"
)

// Service defines the match flows that move money
type Service interface {
	Stake(ctx context.Context, matchID, playerID string, amount decimal.Decimal, cur domain.Currency) (*StakeResult, error)
	Start(ctx context.Context, matchID string) (*domain.Match, bool, error)
	SubmitRun(ctx context.Context, sub domain.RunSubmission) (*SubmitResult, error)
	EndMatch(ctx context.Context, matchID string) (*EndResult, error)
	ForceEnd(ctx context.Context, matchID string) error
	GetMatch(ctx context.Context, matchID string) (*domain.Match, error)
}

// WalletService is the slice of the ledger used for stakes and payouts
type WalletService interface {
	Get(ctx context.Context, playerID string) (*domain.Wallet, error)
	Take(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (bool, error)
	Credit(ctx context.Context, playerID string, amount decimal.Decimal, cur domain.Currency) (*domain.Wallet, error)
}

// Disarmer cancels a pending auto-end
type Disarmer interface {
	Disarm(matchID string)
}

// EventPublisher defines the interface for publishing events with retry
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// StakeResult is returned by Stake
type StakeResult struct {
	Match   *domain.Match  `json:"match"`
	Wallet  *domain.Wallet `json:"wallet"`
	Started bool           `json:"started"`
}

// SubmitResult is returned by SubmitRun
type SubmitResult struct {
	Run         *domain.StoredRun `json:"run"`
	ServerScore int               `json:"serverScore"`
	Best        *domain.StoredRun `json:"best,omitempty"`
}

// EndResult is returned by EndMatch. Payout is nil when nothing was paid
// to a winner.
type EndResult struct {
	Match        *domain.Match       `json:"match"`
	AlreadyEnded bool                `json:"alreadyEnded"`
	Payout       *domain.Payout      `json:"payout"`
	WinnerWallet *domain.Wallet      `json:"winnerWallet"`
	Winner       *domain.MatchResult `json:"winner,omitempty"`
}

type service struct {
	wallets   WalletService
	matches   match.Service
	runs      run.Service
	locks     *concurrency.LockManager
	timers    Disarmer
	publisher EventPublisher
}

func NewService(wallets WalletService, matches match.Service, runs run.Service, locks *concurrency.LockManager, timers Disarmer, publisher EventPublisher) Service {
	if timers == nil {
		timers = nopDisarmer{}
	}
	return &service{
		wallets:   wallets,
		matches:   matches,
		runs:      runs,
		locks:     locks,
		timers:    timers,
		publisher: publisher,
	}
}

// Stake debits the wallet and records the stake. The match starts as soon
// as its escrow is ready.
//
// The debit and the stake are separate writes. If the process dies between
// them the debited amount is lost.
func (s *service) Stake(ctx context.Context, matchID, playerID string, amount decimal.Decimal, cur domain.Currency) (*StakeResult, error) {
	log := logger.FromContext(ctx)

	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MatchStatusCreated {
		return nil, domain.ErrMatchNotAcceptingStakes
	}
	if playerID, err = domain.NormalizePlayerID(playerID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if cur != domain.CurrencyUSD {
		return nil, domain.ErrBadCurrency
	}

	ok, err := s.wallets.Take(ctx, playerID, amount, cur)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInsufficientFunds
	}

	m, err = s.matches.PlaceStake(ctx, m.ID, playerID, amount)
	if err != nil {
		// The match moved on after the status check; return the debit
		if _, cerr := s.wallets.Credit(ctx, playerID, amount, cur); cerr != nil {
			log.Error(LogMsgStakeRefundFailed, "matchID", matchID, "playerID", playerID, "amount", amount.String(), "error", cerr)
		}
		return nil, err
	}
	log.Info(LogMsgStakePlaced, "matchID", m.ID, "playerID", playerID, "amount", amount.String(), "escrowTotal", m.EscrowTotal.String())

	res := &StakeResult{Match: m}
	if match.EscrowReady(m).OK {
		started, already, err := s.matches.Start(ctx, m.ID)
		switch {
		case err != nil:
			log.Warn(LogMsgAutoStartFailed, "matchID", m.ID, "error", err)
		default:
			res.Match = started
			res.Started = !already
		}
	}

	if res.Wallet, err = s.wallets.Get(ctx, playerID); err != nil {
		return nil, err
	}
	return res, nil
}

// Start starts the match. The auto-end deadline is armed by the
// match.started event, which only fires on the first transition.
func (s *service) Start(ctx context.Context, matchID string) (*domain.Match, bool, error) {
	return s.matches.Start(ctx, matchID)
}

// SubmitRun verifies and stores a run. Runs for a match are accepted only
// from staked players while the match has not ended.
func (s *service) SubmitRun(ctx context.Context, sub domain.RunSubmission) (*SubmitResult, error) {
	var matchID string
	if sub.MatchID != nil {
		matchID = strings.TrimSpace(*sub.MatchID)
	}

	if matchID != "" {
		m, err := s.matches.Get(ctx, matchID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMatchNotFound
		}
		if err != nil {
			return nil, err
		}
		if m.Status == domain.MatchStatusEnded {
			return nil, domain.ErrMatchEnded
		}
		if !m.StakeOf(strings.TrimSpace(sub.PlayerID)).IsPositive() {
			return nil, domain.ErrPlayerNotStaked
		}
	}

	score, err := s.runs.Verify(ctx, sub)
	if err != nil {
		return nil, err
	}
	stored := s.runs.Store(ctx, sub, score)

	res := &SubmitResult{Run: stored, ServerScore: score}
	if matchID != "" {
		if best, ok := s.runs.BestRunForMatch(ctx, matchID); ok {
			res.Best = best
		}
	}
	return res, nil
}

// EndMatch ends the match with its best run and pays the escrow to the
// winner. Calling it again returns the recorded outcome without paying.
func (s *service) EndMatch(ctx context.Context, matchID string) (*EndResult, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, domain.ErrBadID
	}
	s.timers.Disarm(matchID)

	var res *EndResult
	err := s.locks.WithLock(concurrency.SettleKey(matchID), func() error {
		m, err := s.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}

		if m.Status == domain.MatchStatusEnded {
			if m, err = s.settle(ctx, m); err != nil {
				return err
			}
			res = &EndResult{Match: m, AlreadyEnded: true}
			return nil
		}

		best, ok := s.runs.BestRunForMatch(ctx, matchID)
		if !ok {
			return domain.ErrNoVerifiedRuns
		}
		result := best.Result()

		if m, err = s.finish(ctx, matchID, result, false); err != nil {
			return err
		}
		res = &EndResult{Match: m, Winner: &result}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Payout = payoutOf(res.Match)
	if res.Payout != nil {
		if res.WinnerWallet, err = s.wallets.Get(ctx, res.Payout.PlayerID); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ForceEnd is the deadline path. A match without verified runs ends with
// no winner and every stake is refunded.
func (s *service) ForceEnd(ctx context.Context, matchID string) error {
	s.timers.Disarm(matchID)

	return s.locks.WithLock(concurrency.SettleKey(matchID), func() error {
		m, err := s.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Status == domain.MatchStatusEnded {
			_, err = s.settle(ctx, m)
			return err
		}

		result := domain.NoWinnerResult()
		if best, ok := s.runs.BestRunForMatch(ctx, matchID); ok {
			result = best.Result()
		}
		_, err = s.finish(ctx, matchID, result, true)
		return err
	})
}

// GetMatch returns the match, finalizing an ended match that never got a
// score if a verified run now exists.
func (s *service) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MatchStatusEnded || m.ServerScore != nil {
		return m, nil
	}

	err = s.locks.WithLock(concurrency.SettleKey(m.ID), func() error {
		best, ok := s.runs.BestRunForMatch(ctx, m.ID)
		if !ok {
			return nil
		}
		logger.FromContext(ctx).Warn(LogMsgFinalizingUnscored, "matchID", m.ID)
		ended, err := s.matches.End(ctx, m.ID, best.Result())
		if err != nil {
			return err
		}
		m, err = s.settle(ctx, ended)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// finish ends the match and settles its escrow. Caller holds the settle lock.
func (s *service) finish(ctx context.Context, matchID string, result domain.MatchResult, forced bool) (*domain.Match, error) {
	m, err := s.matches.End(ctx, matchID, result)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgEndFailed, "matchID", matchID, "error", err)
		return nil, errors.Join(domain.ErrEndFailed, err)
	}

	path := metrics.EndPathManual
	if forced {
		path = metrics.EndPathForced
	}
	metrics.MatchesEnded.WithLabelValues(path).Inc()
	logger.FromContext(ctx).Info(LogMsgMatchEnded, "matchID", matchID, "winner", result.WinnerPlayerID, "serverScore", result.ServerScore, "forced", forced)
	s.publish(ctx, event.NewMatchEndedEvent(matchID, result, forced))

	return s.settle(ctx, m)
}

// settle pays the escrow out once. Bookkeeping is recorded before any
// wallet is credited, so a failed credit can never lead to paying twice.
// Caller holds the settle lock.
func (s *service) settle(ctx context.Context, m *domain.Match) (*domain.Match, error) {
	if m.IsPaidOut() {
		return m, nil
	}
	log := logger.FromContext(ctx)

	result := domain.MatchResult{WinnerPlayerID: m.WinnerPlayerID, NoWinner: m.NoWinner}
	if result.HasWinner() && m.EscrowTotal.IsPositive() {
		paid, err := s.matches.RecordPayout(ctx, m.ID, m.WinnerPlayerID, m.EscrowTotal)
		if err != nil {
			return nil, err
		}
		if _, err := s.wallets.Credit(ctx, m.WinnerPlayerID, m.EscrowTotal, m.Currency); err != nil {
			log.Error(LogMsgPayoutCreditFailed, "matchID", m.ID, "playerID", m.WinnerPlayerID, "amount", m.EscrowTotal.String(), "error", err)
			return nil, errors.Join(domain.ErrEndFailed, err)
		}

		amount, _ := m.EscrowTotal.Float64()
		metrics.EscrowPaidOut.Add(amount)
		log.Info(LogMsgEscrowPaidOut, "matchID", m.ID, "playerID", m.WinnerPlayerID, "amount", m.EscrowTotal.String())
		s.publish(ctx, event.NewMatchPaidOutEvent(m.ID, domain.Payout{PlayerID: m.WinnerPlayerID, Amount: m.EscrowTotal, Currency: m.Currency}, false))
		return paid, nil
	}

	refunded, err := s.matches.RecordRefund(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	for _, st := range m.Stakes {
		if !st.Amount.IsPositive() {
			continue
		}
		if _, err := s.wallets.Credit(ctx, st.PlayerID, st.Amount, m.Currency); err != nil {
			log.Error(LogMsgRefundFailed, "matchID", m.ID, "playerID", st.PlayerID, "amount", st.Amount.String(), "error", err)
			continue
		}
		log.Info(LogMsgStakeRefunded, "matchID", m.ID, "playerID", st.PlayerID, "amount", st.Amount.String())
		s.publish(ctx, event.NewMatchPaidOutEvent(m.ID, domain.Payout{PlayerID: st.PlayerID, Amount: st.Amount, Currency: m.Currency}, true))
	}
	return refunded, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWithRetry(ctx, evt)
}

// payoutOf describes the winner payout recorded on m, if any
func payoutOf(m *domain.Match) *domain.Payout {
	if m.RefundedAt != nil {
		return nil
	}
	winner := m.PaidOutTo
	if winner == "" {
		winner = m.WinnerPlayerID
	}
	if winner == "" {
		return nil
	}
	amount := m.EscrowTotal
	if m.PaidOutAmount != nil {
		amount = *m.PaidOutAmount
	}
	if !amount.IsPositive() {
		return nil
	}
	return &domain.Payout{PlayerID: winner, Amount: amount, Currency: m.Currency}
}

type nopDisarmer struct{}

func (nopDisarmer) Disarm(string) {}
