package match

import "errors"

// errNoChange aborts an update without writing
var errNoChange = errors.New("no change")

const (
	LogMsgMatchCreated = "Match created"
	LogMsgMatchStarted = "Match started"
)
