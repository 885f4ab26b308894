package config

const (
	EnvConfigPath      = "TAPSTAKE_CONFIG"
	DefaultConfigPath  = "configs/tapstake.toml"
	DefaultPort        = 8080
	DefaultServiceName = "tapstake"
)

// Environments
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Payout providers
const (
	PayoutManual = "manual"
	PayoutStripe = "stripe"
	PayoutCrypto = "crypto"
)

// Snapshot backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)
