package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger
// =============================================================================

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingTapStake    = "Starting TapStake"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"

	// KafkaWriteTimeout bounds a single forwarded event
	KafkaWriteTimeout = 5 * time.Second
)

const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Event Handlers
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgKafkaForwarderRegistered   = "Kafka forwarder registered"
	LogMsgDiscordNotifierRegistered  = "Discord cashout notifier registered"
	LogMsgMatchWorkerRegistered      = "Match auto-end worker registered"
	ErrMsgFailedCreateDiscordSession = "failed to create discord session"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgSnapshotBackend     = "Snapshot backend selected"
	LogMsgSnapshotRestored    = "Snapshot restored"
	LogMsgSnapshotUnreadable  = "Snapshot unreadable, starting empty"
	LogMsgMigrationsApplied   = "Database migrations applied"
	ErrMsgFailedConnectDB     = "failed to connect to database"
	ErrMsgFailedMigrate       = "failed to run migrations"
	ErrMsgFailedConnectRedis  = "failed to connect to redis"
	ErrMsgFailedConnectS3     = "failed to configure s3"
	ErrMsgFailedCreateDataDir = "failed to create data directory"
	ErrMsgUnknownBackend      = "unknown snapshot backend"
	ErrMsgFailedRestore       = "failed to restore snapshot"
	ErrMsgFailedPayout        = "failed to configure payout provider"
)

// ReadyPingTimeout bounds the storage ping in /readyz
const ReadyPingTimeout = 2 * time.Second

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgFlushingSnapshots          = "Flushing snapshots..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgMatchWorkerShutdownFailed  = "Match worker shutdown failed"
	LogMsgSnapshotFlushFailed        = "Final snapshot flush failed"
	LogMsgCloseFailed                = "Close failed"

	// DefaultShutdownTimeout bounds the whole graceful shutdown
	DefaultShutdownTimeout = 15 * time.Second
)
