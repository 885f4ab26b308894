package worker

import "time"

const LogMsgWorkerJobFailed = "Worker job failed"

// Match auto-end
const (
	MinAutoEndDelay        = time.Second
	DefaultForceEndTimeout = 10 * time.Second

	LogMsgAutoEndArmed           = "Match auto-end armed"
	LogMsgAutoEndDisarmed        = "Match auto-end disarmed"
	LogMsgAutoEndFiring          = "Match deadline reached, force-ending"
	LogMsgAutoEndFailed          = "Failed to force-end match"
	LogMsgBadMatchStartedPayload = "Ignoring match.started with unreadable payload"
)

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
