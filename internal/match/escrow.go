package match

import "github.com/osse101/TapStake_Go/internal/domain"

// EscrowReady reports whether a match may start. It needs two players with
// positive stakes, and the first two stakers in order must have staked
// exactly the same amount.
//
// Stakers beyond the second are not compared. Matches are 1v1 today; a
// third staker's amount is still part of the escrow total.
func EscrowReady(m *domain.Match) domain.EscrowReadiness {
	entries := make([]domain.Stake, 0, len(m.Stakes))
	for _, st := range m.Stakes {
		if st.Amount.IsPositive() {
			entries = append(entries, st)
		}
	}

	if len(entries) < 2 {
		return domain.EscrowReadiness{Reason: domain.EscrowReasonNeedTwoPlayers, Entries: entries}
	}

	a0, a1 := entries[0].Amount, entries[1].Amount
	if !a0.IsPositive() || !a1.IsPositive() {
		return domain.EscrowReadiness{Reason: domain.EscrowReasonBadAmounts, Entries: entries}
	}
	if !a0.Equal(a1) {
		return domain.EscrowReadiness{Reason: domain.EscrowReasonAmountsMustMatch, Entries: entries}
	}

	return domain.EscrowReadiness{
		OK:      true,
		Amount:  a0,
		Players: []string{entries[0].PlayerID, entries[1].PlayerID},
	}
}
