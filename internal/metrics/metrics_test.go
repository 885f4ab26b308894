package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
)

func TestEventMetricsCollector(t *testing.T) {
	bus := event.NewMemoryBus()
	NewEventMetricsCollector().Register(bus)
	ctx := context.Background()

	forcedBefore := testutil.ToFloat64(MatchesEnded.WithLabelValues(EndPathForced))
	paidBefore := testutil.ToFloat64(EscrowPaidOut)
	rejectedBefore := testutil.ToFloat64(CashoutDecisions.WithLabelValues(string(domain.CashoutStatusRejected)))

	require.NoError(t, bus.Publish(ctx, event.NewMatchEndedEvent("m1", domain.NoWinnerResult(), true)))
	require.NoError(t, bus.Publish(ctx, event.NewMatchPaidOutEvent("m1", domain.Payout{PlayerID: "a", Amount: decimal.NewFromInt(20)}, false)))
	require.NoError(t, bus.Publish(ctx, event.NewMatchPaidOutEvent("m2", domain.Payout{PlayerID: "b", Amount: decimal.NewFromInt(7)}, true)))
	require.NoError(t, bus.Publish(ctx, event.NewCashoutEvent(domain.EventTypeCashoutRejected,
		&domain.CashoutRequest{ID: "c1", Status: domain.CashoutStatusRejected})))

	assert.Equal(t, forcedBefore+1, testutil.ToFloat64(MatchesEnded.WithLabelValues(EndPathForced)))
	assert.Equal(t, paidBefore+20, testutil.ToFloat64(EscrowPaidOut), "refunds are not counted as payouts")
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(CashoutDecisions.WithLabelValues(string(domain.CashoutStatusRejected))))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/match/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/match/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/match/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/match/{id}", "418")))
}
