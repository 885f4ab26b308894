package cashout

const (
	ErrMsgCreateCashout = "failed to store cashout request"
	ErrMsgCaptureFailed = "payout sent but capture failed"
)

const (
	LogMsgCashoutCreated           = "Cashout requested"
	LogMsgCashoutApproved          = "Cashout approved"
	LogMsgCashoutRejected          = "Cashout rejected"
	LogMsgCashoutsReset            = "All cashout requests cleared"
	LogMsgPayoutFailed             = "Payout provider failed"
	LogMsgCaptureAfterPayoutFailed = "Capture failed after successful payout"
	LogMsgReleaseAfterCreateFailed = "Failed to release hold after cashout create error"
)
