package run

const (
	LogMsgRunRejected = "Run rejected"
	LogMsgRunStored   = "Verified run stored"
)
