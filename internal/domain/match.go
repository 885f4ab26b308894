package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus moves strictly forward: created, started, ended.
type MatchStatus string

const (
	MatchStatusCreated MatchStatus = "created"
	MatchStatusStarted MatchStatus = "started"
	MatchStatusEnded   MatchStatus = "ended"
)

const (
	DefaultGameID          = "reaction-tap"
	DefaultMatchDurationMs = 30_000
	MinMatchDurationMs     = 5_000
	MaxMatchDurationMs     = 300_000
)

// Stake is one player's cumulative contribution to a match escrow.
type Stake struct {
	PlayerID string          `json:"playerId"`
	Amount   decimal.Decimal `json:"amount"`
}

// Match is a staked head-to-head session.
// Stakes keep first-stake order, which the readiness check depends on.
type Match struct {
	ID          string          `json:"id"`
	Status      MatchStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	EndedAt     *time.Time      `json:"endedAt,omitempty"`
	DurationMs  int64           `json:"durationMs"`
	GameID      string          `json:"gameId"`
	Currency    Currency        `json:"currency"`
	EscrowTotal decimal.Decimal `json:"escrowTotal"`
	Stakes      []Stake         `json:"stakes"`

	ServerScore    *int   `json:"serverScore,omitempty"`
	WinnerRunID    string `json:"winnerRunId,omitempty"`
	WinnerPlayerID string `json:"winnerPlayerId,omitempty"`
	NoWinner       bool   `json:"noWinner,omitempty"`

	PaidOutAt     *time.Time       `json:"paidOutAt,omitempty"`
	PaidOutTo     string           `json:"paidOutTo,omitempty"`
	PaidOutAmount *decimal.Decimal `json:"paidOutAmount,omitempty"`
	RefundedAt    *time.Time       `json:"refundedAt,omitempty"`
}

// MatchResult is the outcome recorded when a match ends.
type MatchResult struct {
	ServerScore    int    `json:"serverScore"`
	WinnerRunID    string `json:"winnerRunId"`
	WinnerPlayerID string `json:"winnerPlayerId"`
	NoWinner       bool   `json:"noWinner,omitempty"`
}

// NoWinnerResult is used when the deadline passes without verified runs.
func NoWinnerResult() MatchResult {
	return MatchResult{NoWinner: true}
}

// HasWinner reports whether a player won. No-winner is flagged, never
// encoded as a player ID.
func (r MatchResult) HasWinner() bool {
	return !r.NoWinner && r.WinnerPlayerID != ""
}

// StakeOf returns the cumulative stake of playerID, zero if none.
func (m *Match) StakeOf(playerID string) decimal.Decimal {
	for _, s := range m.Stakes {
		if s.PlayerID == playerID {
			return s.Amount
		}
	}
	return decimal.Zero
}

// IsPaidOut reports whether escrow settlement has been recorded.
func (m *Match) IsPaidOut() bool {
	return m.PaidOutAt != nil || m.RefundedAt != nil
}

// Clone returns a deep copy.
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Stakes = append([]Stake(nil), m.Stakes...)
	cp.StartedAt = cloneTime(m.StartedAt)
	cp.EndedAt = cloneTime(m.EndedAt)
	cp.PaidOutAt = cloneTime(m.PaidOutAt)
	cp.RefundedAt = cloneTime(m.RefundedAt)
	if m.ServerScore != nil {
		v := *m.ServerScore
		cp.ServerScore = &v
	}
	if m.PaidOutAmount != nil {
		v := *m.PaidOutAmount
		cp.PaidOutAmount = &v
	}
	return &cp
}

// ClampDuration maps non-positive durations to the default and bounds the rest.
func ClampDuration(ms int64) int64 {
	if ms <= 0 {
		return DefaultMatchDurationMs
	}
	if ms < MinMatchDurationMs {
		return MinMatchDurationMs
	}
	if ms > MaxMatchDurationMs {
		return MaxMatchDurationMs
	}
	return ms
}

// Escrow readiness reasons.
const (
	EscrowReasonNeedTwoPlayers   = "need_two_players"
	EscrowReasonBadAmounts       = "bad_amounts"
	EscrowReasonAmountsMustMatch = "amounts_must_match"
)

// EscrowReadiness is the diagnostic produced by the readiness predicate.
type EscrowReadiness struct {
	OK      bool            `json:"ok"`
	Reason  string          `json:"reason,omitempty"`
	Amount  decimal.Decimal `json:"amount,omitempty"`
	Players []string        `json:"players,omitempty"`
	Entries []Stake         `json:"entries,omitempty"`
}

// Payout describes escrow paid to a winner.
type Payout struct {
	PlayerID string          `json:"playerId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
