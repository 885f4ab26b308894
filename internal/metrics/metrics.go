package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	LedgerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerOperations,
			Help: HelpTextLedgerOperations,
		},
		[]string{LabelOperation, LabelResult},
	)

	CashoutDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCashoutDecisions,
			Help: HelpTextCashoutDecisions,
		},
		[]string{LabelStatus},
	)

	MatchesEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMatchesEnded,
			Help: HelpTextMatchesEnded,
		},
		[]string{LabelEndPath},
	)

	EscrowPaidOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEscrowPaidOut,
			Help: HelpTextEscrowPaidOut,
		},
	)

	SnapshotWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotWrites,
			Help: HelpTextSnapshotWrites,
		},
		[]string{LabelCollection, LabelResult},
	)

	RunVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRunVerifications,
			Help: HelpTextRunVerifications,
		},
		[]string{LabelResult},
	)
)

// ResultLabel maps an error to the result label value
func ResultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
