package domain

import "time"

// Verification rejection reasons, checked in this order.
const (
	RunReasonBadGameID       = "bad_gameId"
	RunReasonBadSeed         = "bad_seed"
	RunReasonBadPlayerID     = "bad_playerId"
	RunReasonBadHits         = "bad_hits"
	RunReasonBadMisses       = "bad_misses"
	RunReasonBadDuration     = "bad_duration"
	RunReasonBadTapCount     = "bad_tapCount"
	RunReasonBadSpawnCount   = "bad_spawnCount"
	RunReasonReactionTooFast = "reaction_too_fast"
)

// Scoring constants.
const (
	ScorePerHit          = 10
	PenaltyPerMiss       = 5
	FastReactionBonus    = 200
	FastReactionMs       = 250
	MinHumanReactionMs   = 80
	DefaultRunHistoryCap = 2000
	DefaultRunsPageSize  = 50
)

// RunSubmission is a client-reported game run. Its score is never trusted.
// Numeric fields are pointers so an omitted field is told apart from zero.
type RunSubmission struct {
	GameID        *string  `json:"gameId,omitempty"`
	MatchID       *string  `json:"matchId,omitempty"`
	PlayerID      string   `json:"playerId"`
	Seed          *float64 `json:"seed"`
	Hits          *int     `json:"hits"`
	Misses        *int     `json:"misses"`
	AvgReactionMs *float64 `json:"avgReactionMs"`
	Score         int      `json:"score,omitempty"`
	DurationMs    *int64   `json:"durationMs"`
	SpawnCount    *int     `json:"spawnCount"`
	TapCount      *int     `json:"tapCount"`
}

// runFieldReasons names the rejection for a submission field that could
// not be decoded.
var runFieldReasons = map[string]string{
	"gameId":        RunReasonBadGameID,
	"seed":          RunReasonBadSeed,
	"playerId":      RunReasonBadPlayerID,
	"hits":          RunReasonBadHits,
	"misses":        RunReasonBadMisses,
	"durationMs":    RunReasonBadDuration,
	"tapCount":      RunReasonBadTapCount,
	"spawnCount":    RunReasonBadSpawnCount,
	"avgReactionMs": RunReasonReactionTooFast,
}

// RunFieldReason returns the rejection reason for a malformed submission
// field, or "" when the field has none.
func RunFieldReason(field string) string {
	return runFieldReasons[field]
}

// StoredRun is an immutable verified run.
type StoredRun struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	GameID        string    `json:"gameId"`
	MatchID       *string   `json:"matchId"`
	PlayerID      string    `json:"playerId"`
	Seed          float64   `json:"seed"`
	Hits          int       `json:"hits"`
	Misses        int       `json:"misses"`
	AvgReactionMs *float64  `json:"avgReactionMs"`
	DurationMs    int64     `json:"durationMs"`
	SpawnCount    int       `json:"spawnCount"`
	TapCount      int       `json:"tapCount"`
	ServerScore   int       `json:"serverScore"`
}

// InMatch reports whether the run belongs to matchID.
func (r *StoredRun) InMatch(matchID string) bool {
	return r.MatchID != nil && *r.MatchID == matchID
}

// Result converts the run into a match result.
func (r *StoredRun) Result() MatchResult {
	return MatchResult{
		ServerScore:    r.ServerScore,
		WinnerRunID:    r.ID,
		WinnerPlayerID: r.PlayerID,
	}
}
