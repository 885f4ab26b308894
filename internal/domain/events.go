package domain

// Event type constants used for event bus subscriptions and metrics.
//
// Event types follow the pattern: <entity>.<action>
const (
	EventTypeMatchCreated = "match.created"
	EventTypeMatchStarted = "match.started"
	EventTypeMatchEnded   = "match.ended"
	EventTypeMatchPaidOut = "match.paid_out"

	EventTypeCashoutRequested = "cashout.requested"
	EventTypeCashoutApproved  = "cashout.approved"
	EventTypeCashoutRejected  = "cashout.rejected"

	EventTypeRunVerified = "run.verified"
)

// AllEventTypes lists every type forwarded to external sinks.
var AllEventTypes = []string{
	EventTypeMatchCreated,
	EventTypeMatchStarted,
	EventTypeMatchEnded,
	EventTypeMatchPaidOut,
	EventTypeCashoutRequested,
	EventTypeCashoutApproved,
	EventTypeCashoutRejected,
	EventTypeRunVerified,
}
