package handler

// Messages for failures that happen before a service is reached. Service
// errors are reported by their domain code instead.
const (
	ErrMsgInvalidRequest        = "invalid_request"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidLimit          = "bad_limit"
)

// Header carrying the shared admin secret for cashout decisions
const HeaderAdminToken = "X-Admin-Token"

// Log messages
const (
	LogMsgServiceError    = "Service call failed"
	LogMsgAdminRejected   = "Admin token rejected"
	LogMsgFundingDisabled = "Wallet funding attempted while disabled"
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgRequestDecoded  = "%s request decoded"
	LogMsgDecodeFailed    = "Failed to decode %s request"
	LogMsgRunDecodeFailed = "Failed to decode run submission"
)
