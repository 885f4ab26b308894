package payout

import (
	"context"
	"fmt"
	"time"
)

// ManualProvider moves no money. It hands back a traceable reference for
// an operator to settle by hand.
type ManualProvider struct {
	now func() time.Time
}

func NewManualProvider() *ManualProvider {
	return &ManualProvider{now: time.Now}
}

func (p *ManualProvider) Name() string { return ProviderManual }

func (p *ManualProvider) CreatePayout(_ context.Context, req Request) (string, error) {
	return fmt.Sprintf("manual_%s_%d", req.CashoutID, p.now().UnixMilli()), nil
}
