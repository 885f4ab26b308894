package database

// DefaultMinConnections is the minimum number of connections kept in the pool
const DefaultMinConnections = 2

// Migrations
const (
	MigrationDialect = "postgres"
	MigrationsDir    = "migrations"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

const LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
