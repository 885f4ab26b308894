package wallet

// Ledger operation names, used as the metrics op label
const (
	OpFund    = "fund"
	OpCredit  = "credit"
	OpTake    = "take"
	OpHold    = "hold"
	OpRelease = "release"
	OpCapture = "capture"
)

const ErrMsgLoadWallet = "failed to load wallet"

const (
	LogMsgWalletCreated    = "Wallet created"
	LogMsgLedgerOp         = "Ledger operation applied"
	LogMsgNegativeRestored = "Negative amount in restored wallet, zeroing"
)
