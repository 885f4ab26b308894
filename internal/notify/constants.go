package notify

const (
	WebhookUsername            = "TapStake"
	EmbedTitleCashoutRequested = "💸 Cashout Requested"
	EmbedFooterAdmin           = "Approve or reject in the admin panel"
	ColorPending               = 0xf39c12 // Orange
)

const (
	LogMsgBadPayload    = "Cashout event payload could not be decoded"
	LogMsgWebhookFailed = "Discord webhook delivery failed"
)
