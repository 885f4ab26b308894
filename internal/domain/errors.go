package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so transports can map it without
// inspecting service state.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindUpstream
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUpstream:
		return "upstream"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error codes returned to API callers. These are part of the wire contract.
const (
	ErrMsgBadPlayerID             = "bad_playerId"
	ErrMsgBadCurrency             = "bad_currency"
	ErrMsgBadAmount               = "bad_amount"
	ErrMsgBadID                   = "bad_id"
	ErrMsgInsufficientFunds       = "insufficient_funds"
	ErrMsgInsufficientHeld        = "insufficient_held"
	ErrMsgNotFound                = "not_found"
	ErrMsgMatchNotFound           = "match_not_found"
	ErrMsgAlreadyDecided          = "already_decided"
	ErrMsgEscrowNotReady          = "escrow_not_ready"
	ErrMsgMatchEnded              = "match_ended"
	ErrMsgMatchNotAcceptingStakes = "match_not_accepting_stakes"
	ErrMsgPlayerNotStaked         = "player_not_staked"
	ErrMsgNoVerifiedRuns          = "no_verified_runs"
	ErrMsgAlreadyPaidOut          = "already_paid_out"
	ErrMsgUnauthorized            = "unauthorized"
	ErrMsgFundingDisabled         = "forbidden"
	ErrMsgPayoutFailed            = "payout_failed"
	ErrMsgEndFailed               = "end_failed"
	ErrMsgRunRejected             = "run_rejected"
	ErrMsgSnapshotUnavailable     = "snapshot_unavailable"
	ErrMsgUnknownPayoutProvider   = "unknown_payout_provider"
	ErrMsgInvalidTreasuryAddress  = "invalid_treasury_address"
	ErrMsgInternal                = "internal_error"
)

// Error is a classified domain error. Code is stable and safe to expose.
type Error struct {
	Kind Kind
	Code string
}

func (e *Error) Error() string { return e.Code }

func newError(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

var (
	ErrBadPlayerID             = newError(KindValidation, ErrMsgBadPlayerID)
	ErrBadCurrency             = newError(KindValidation, ErrMsgBadCurrency)
	ErrBadAmount               = newError(KindValidation, ErrMsgBadAmount)
	ErrBadID                   = newError(KindValidation, ErrMsgBadID)
	ErrInsufficientFunds       = newError(KindConflict, ErrMsgInsufficientFunds)
	ErrInsufficientHeld        = newError(KindConflict, ErrMsgInsufficientHeld)
	ErrNotFound                = newError(KindNotFound, ErrMsgNotFound)
	ErrMatchNotFound           = newError(KindNotFound, ErrMsgMatchNotFound)
	ErrAlreadyDecided          = newError(KindConflict, ErrMsgAlreadyDecided)
	ErrEscrowNotReady          = newError(KindConflict, ErrMsgEscrowNotReady)
	ErrMatchEnded              = newError(KindConflict, ErrMsgMatchEnded)
	ErrMatchNotAcceptingStakes = newError(KindConflict, ErrMsgMatchNotAcceptingStakes)
	ErrPlayerNotStaked         = newError(KindConflict, ErrMsgPlayerNotStaked)
	ErrNoVerifiedRuns          = newError(KindConflict, ErrMsgNoVerifiedRuns)
	ErrAlreadyPaidOut          = newError(KindConflict, ErrMsgAlreadyPaidOut)
	ErrUnauthorized            = newError(KindUnauthorized, ErrMsgUnauthorized)
	ErrFundingDisabled         = newError(KindForbidden, ErrMsgFundingDisabled)
	ErrPayoutFailed            = newError(KindUpstream, ErrMsgPayoutFailed)
	ErrEndFailed               = newError(KindInternal, ErrMsgEndFailed)
	ErrRunRejected             = newError(KindValidation, ErrMsgRunRejected)
	ErrSnapshotUnavailable     = newError(KindInternal, ErrMsgSnapshotUnavailable)
	ErrUnknownPayoutProvider   = newError(KindInternal, ErrMsgUnknownPayoutProvider)
	ErrInvalidTreasuryAddress  = newError(KindInternal, ErrMsgInvalidTreasuryAddress)
)

// EscrowNotReadyError carries the readiness diagnostic for a start attempt.
type EscrowNotReadyError struct {
	Readiness EscrowReadiness
}

func (e *EscrowNotReadyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMsgEscrowNotReady, e.Readiness.Reason)
}

func (e *EscrowNotReadyError) Unwrap() error { return ErrEscrowNotReady }

// RunRejectedError names the first verification check a run failed.
type RunRejectedError struct {
	Reason string
}

func (e *RunRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMsgRunRejected, e.Reason)
}

func (e *RunRejectedError) Unwrap() error { return ErrRunRejected }

// PayoutError wraps a gateway failure message.
type PayoutError struct {
	Provider string
	Message  string
}

func (e *PayoutError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMsgPayoutFailed, e.Provider, e.Message)
}

func (e *PayoutError) Unwrap() error { return ErrPayoutFailed }

// KindOf reports the kind of the first classified error in err's chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the caller-facing code for err. Run rejections report their
// verification reason instead of the generic code.
func CodeOf(err error) string {
	var rr *RunRejectedError
	if errors.As(err, &rr) {
		return rr.Reason
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrMsgInternal
}
