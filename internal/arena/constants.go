package arena

const (
	LogMsgStakePlaced        = "Stake placed"
	LogMsgStakeRefundFailed  = "Failed to return debit for rejected stake"
	LogMsgAutoStartFailed    = "Auto-start after stake failed"
	LogMsgMatchEnded         = "Match ended"
	LogMsgEndFailed          = "Failed to end match"
	LogMsgEscrowPaidOut      = "Escrow paid out"
	LogMsgPayoutCreditFailed = "Payout recorded but wallet credit failed"
	LogMsgStakeRefunded      = "Stake refunded"
	LogMsgRefundFailed       = "Stake refund failed"
	LogMsgFinalizingUnscored = "Finalizing ended match without a score"
)
