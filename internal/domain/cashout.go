package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashoutStatus is the lifecycle state of a withdrawal request.
type CashoutStatus string

const (
	CashoutStatusPending  CashoutStatus = "pending"
	CashoutStatusApproved CashoutStatus = "approved"
	CashoutStatusRejected CashoutStatus = "rejected"
)

// DefaultDecidedBy is recorded when the admin does not identify themselves.
const DefaultDecidedBy = "admin"

// CashoutRequest is a withdrawal whose funds sit in the wallet's held bucket
// until an admin approves or rejects it.
type CashoutRequest struct {
	ID        string          `json:"id"`
	PlayerID  string          `json:"playerId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  Currency        `json:"currency"`
	Status    CashoutStatus   `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	DecidedAt *time.Time      `json:"decidedAt,omitempty"`
	DecidedBy string          `json:"decidedBy,omitempty"`
	Note      string          `json:"note,omitempty"`
	PayoutRef string          `json:"payoutRef,omitempty"`
}

// IsPending reports whether the request can still be decided.
func (c *CashoutRequest) IsPending() bool {
	return c.Status == CashoutStatusPending
}

// Clone returns a copy that shares no pointers with c.
func (c *CashoutRequest) Clone() *CashoutRequest {
	if c == nil {
		return nil
	}
	cp := *c
	if c.DecidedAt != nil {
		t := *c.DecidedAt
		cp.DecidedAt = &t
	}
	return &cp
}

// CashoutFilter narrows a cashout listing.
type CashoutFilter struct {
	PlayerID string
	Limit    int
}

const (
	DefaultCashoutListLimit = 50
	MaxCashoutListLimit     = 500
)

// ClampLimit applies the listing default and bounds. Zero means default.
func (f CashoutFilter) ClampLimit() int {
	switch {
	case f.Limit == 0:
		return DefaultCashoutListLimit
	case f.Limit < 1:
		return 1
	case f.Limit > MaxCashoutListLimit:
		return MaxCashoutListLimit
	default:
		return f.Limit
	}
}
