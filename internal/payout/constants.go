package payout

import "time"

const (
	DefaultHTTPTimeout = 10 * time.Second
	DefaultMaxRetries  = 2
	DefaultRetryDelay  = 500 * time.Millisecond
	maxResponseBytes   = 1 << 20
)

const (
	ErrMsgNotConfigured     = "provider not configured"
	ErrMsgMissingTransferID = "response carried no transfer id"
	ErrMsgIncompleteRequest = "cashout id and player id are required"
)

const (
	LogMsgUnknownProvider     = "Unknown payout provider, using manual"
	LogMsgRetryingPayout      = "Retrying payout request"
	LogMsgPayoutRequestFailed = "Payout request failed"
)
