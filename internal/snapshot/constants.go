package snapshot

const (
	LogMsgSnapshotWriteFailed = "Snapshot write failed"
	LogMsgSnapshotQueueFull   = "Snapshot queue full, write skipped"
)
