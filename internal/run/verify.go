package run

import (
	"math"
	"strings"

	"github.com/osse101/TapStake_Go/internal/domain"
)

// Verify checks a submitted run and recomputes its score. The client score
// is ignored. Checks run in a fixed order and the first failure is returned
// as a *domain.RunRejectedError.
func Verify(sub domain.RunSubmission) (int, error) {
	if reason := firstRejection(sub); reason != "" {
		return 0, &domain.RunRejectedError{Reason: reason}
	}
	return Score(sub), nil
}

// Score is hits*10 - misses*5, plus a bonus for fast average reactions.
// Missing counts score as zero.
func Score(sub domain.RunSubmission) int {
	score := value(sub.Hits)*domain.ScorePerHit - value(sub.Misses)*domain.PenaltyPerMiss
	if sub.AvgReactionMs != nil && *sub.AvgReactionMs < domain.FastReactionMs {
		score += domain.FastReactionBonus
	}
	return score
}

func firstRejection(sub domain.RunSubmission) string {
	switch {
	case sub.GameID != nil && strings.TrimSpace(*sub.GameID) == "":
		return domain.RunReasonBadGameID
	case sub.Seed == nil || !finite(*sub.Seed):
		return domain.RunReasonBadSeed
	case strings.TrimSpace(sub.PlayerID) == "":
		return domain.RunReasonBadPlayerID
	case sub.Hits == nil || *sub.Hits < 0:
		return domain.RunReasonBadHits
	case sub.Misses == nil || *sub.Misses < 0:
		return domain.RunReasonBadMisses
	case sub.DurationMs == nil || *sub.DurationMs <= 0:
		return domain.RunReasonBadDuration
	case sub.TapCount == nil || *sub.TapCount < 0:
		return domain.RunReasonBadTapCount
	case sub.SpawnCount == nil || *sub.SpawnCount < 0:
		return domain.RunReasonBadSpawnCount
	case *sub.TapCount != *sub.Hits+*sub.Misses:
		return domain.RunReasonBadTapCount
	case *sub.SpawnCount != *sub.Hits+1:
		return domain.RunReasonBadSpawnCount
	case sub.AvgReactionMs != nil && (!finite(*sub.AvgReactionMs) || *sub.AvgReactionMs < domain.MinHumanReactionMs):
		return domain.RunReasonReactionTooFast
	}
	return ""
}

func value[T int | int64 | float64](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
