package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameLedgerOperations = "tapstake_ledger_operations_total"
	MetricNameCashoutDecisions = "tapstake_cashout_decisions_total"
	MetricNameMatchesEnded     = "tapstake_matches_ended_total"
	MetricNameEscrowPaidOut    = "tapstake_escrow_paid_out_total"
	MetricNameSnapshotWrites   = "tapstake_snapshot_writes_total"
	MetricNameRunVerifications = "tapstake_run_verifications_total"
)

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"

	HelpTextLedgerOperations = "Wallet ledger operations by operation and result"
	HelpTextCashoutDecisions = "Cashout requests decided, by resulting status"
	HelpTextMatchesEnded     = "Matches ended, by the path that ended them"
	HelpTextEscrowPaidOut    = "Total escrow paid to match winners"
	HelpTextSnapshotWrites   = "Snapshot writes by collection and result"
	HelpTextRunVerifications = "Run verifications by result"
)

// Label names
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelOperation  = "op"
	LabelResult     = "result"
	LabelCollection = "collection"
	LabelEndPath    = "end_path"
)

// Label values
const (
	ResultOK    = "ok"
	ResultError = "error"

	EndPathManual = "manual"
	EndPathForced = "forced"
)

// HTTPLatencyBuckets spans 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
	LogMsgPayloadDecode   = "Event payload could not be decoded for metrics"
)
