package postgres

// Error Messages - Snapshot Operations
const (
	ErrMsgFailedToLoadSnapshot = "failed to load snapshot"
	ErrMsgFailedToSaveSnapshot = "failed to save snapshot"
)
