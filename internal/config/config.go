package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	ServiceName string `toml:"service_name"`
	Version     string `toml:"version"`

	CashoutAdminToken string `toml:"cashout_admin_token"`
	AllowDevFunding   bool   `toml:"allow_dev_funding"`

	PayoutProvider  string `toml:"payout_provider"`
	StripeEndpoint  string `toml:"stripe_endpoint"`
	StripeAPIKey    string `toml:"stripe_api_key"`
	TreasuryAddress string `toml:"treasury_address"`

	SnapshotBackend string        `toml:"snapshot_backend"`
	SnapshotTimeout time.Duration `toml:"snapshot_timeout"`
	DataDir         string        `toml:"data_dir"`

	DBUser            string        `toml:"db_user"`
	DBPassword        string        `toml:"db_password"`
	DBHost            string        `toml:"db_host"`
	DBPort            string        `toml:"db_port"`
	DBName            string        `toml:"db_name"`
	DBMaxConns        int           `toml:"db_max_conns"`
	DBMaxConnIdleTime time.Duration `toml:"db_max_conn_idle_time"`
	DBMaxConnLifetime time.Duration `toml:"db_max_conn_lifetime"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisTLS      bool   `toml:"redis_tls"`

	S3Endpoint       string `toml:"s3_endpoint"`
	S3Region         string `toml:"s3_region"`
	S3Bucket         string `toml:"s3_bucket"`
	S3AccessKey      string `toml:"s3_access_key"`
	S3SecretKey      string `toml:"s3_secret_key"`
	S3UseSSL         bool   `toml:"s3_use_ssl"`
	S3ForcePathStyle bool   `toml:"s3_force_path_style"`

	RunHistoryCap int           `toml:"run_history_cap"`
	AutoEndGrace  time.Duration `toml:"auto_end_grace"`
	WorkerCount   int           `toml:"worker_count"`
	JobQueueSize  int           `toml:"job_queue_size"`

	EventMaxRetries int           `toml:"event_max_retries"`
	EventRetryDelay time.Duration `toml:"event_retry_delay"`
	DeadLetterPath  string        `toml:"dead_letter_path"`

	KafkaBrokers string `toml:"kafka_brokers"`
	KafkaTopic   string `toml:"kafka_topic"`

	DiscordWebhookID    string `toml:"discord_webhook_id"`
	DiscordWebhookToken string `toml:"discord_webhook_token"`

	TrustedProxies []string `toml:"trusted_proxies"`
	RateLimit      int      `toml:"rate_limit"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		Port:              DefaultPort,
		Environment:       EnvDev,
		LogLevel:          "info",
		ServiceName:       DefaultServiceName,
		Version:           "dev",
		AllowDevFunding:   true,
		PayoutProvider:    PayoutManual,
		SnapshotBackend:   BackendFile,
		SnapshotTimeout:   5 * time.Second,
		DataDir:           "data",
		DBUser:            "postgres",
		DBPassword:        "postgres",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBName:            "tapstake",
		DBMaxConns:        20,
		DBMaxConnIdleTime: 5 * time.Minute,
		DBMaxConnLifetime: 30 * time.Minute,
		RedisAddr:         "localhost:6379",
		S3Region:          "us-east-1",
		RunHistoryCap:     2000,
		AutoEndGrace:      250 * time.Millisecond,
		WorkerCount:       2,
		JobQueueSize:      64,
		EventMaxRetries:   3,
		EventRetryDelay:   time.Second,
		DeadLetterPath:    "logs/deadletter.jsonl",
		KafkaTopic:        "tapstake.events",
		RateLimit:         1000,
	}
}

// Load builds the configuration from defaults, an optional TOML file and
// the environment, in that order. The result is validated.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := Defaults()

	path := getEnv(EnvConfigPath, DefaultConfigPath)
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	portStr := getEnv("PORT", strconv.Itoa(cfg.Port))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	applyEnv(&cfg)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(c *Config) {
	c.Environment = strings.ToLower(getEnv("ENVIRONMENT", c.Environment))
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)
	c.Version = getEnv("VERSION", c.Version)

	c.CashoutAdminToken = getEnv("CASHOUT_ADMIN_TOKEN", c.CashoutAdminToken)
	c.AllowDevFunding = getEnvAsBool("ALLOW_DEV_FUNDING", c.AllowDevFunding)

	c.PayoutProvider = strings.ToLower(getEnv("PAYOUT_PROVIDER", c.PayoutProvider))
	c.StripeEndpoint = getEnv("STRIPE_ENDPOINT", c.StripeEndpoint)
	c.StripeAPIKey = getEnv("STRIPE_API_KEY", c.StripeAPIKey)
	c.TreasuryAddress = getEnv("TREASURY_ADDRESS", c.TreasuryAddress)

	c.SnapshotBackend = strings.ToLower(getEnv("SNAPSHOT_BACKEND", c.SnapshotBackend))
	c.SnapshotTimeout = getEnvAsDuration("SNAPSHOT_TIMEOUT", c.SnapshotTimeout)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)

	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBMaxConns = getEnvAsInt("DB_MAX_CONNS", c.DBMaxConns)
	c.DBMaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", c.DBMaxConnIdleTime)
	c.DBMaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", c.DBMaxConnLifetime)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvAsInt("REDIS_DB", c.RedisDB)
	c.RedisTLS = getEnvAsBool("REDIS_TLS", c.RedisTLS)

	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3AccessKey = getEnv("S3_ACCESS_KEY", c.S3AccessKey)
	c.S3SecretKey = getEnv("S3_SECRET_KEY", c.S3SecretKey)
	c.S3UseSSL = getEnvAsBool("S3_USE_SSL", c.S3UseSSL)
	c.S3ForcePathStyle = getEnvAsBool("S3_FORCE_PATH_STYLE", c.S3ForcePathStyle)

	c.RunHistoryCap = getEnvAsInt("RUN_HISTORY_CAP", c.RunHistoryCap)
	c.AutoEndGrace = getEnvAsDuration("AUTO_END_GRACE", c.AutoEndGrace)
	c.WorkerCount = getEnvAsInt("WORKER_COUNT", c.WorkerCount)
	c.JobQueueSize = getEnvAsInt("JOB_QUEUE_SIZE", c.JobQueueSize)

	c.EventMaxRetries = getEnvAsInt("EVENT_MAX_RETRIES", c.EventMaxRetries)
	c.EventRetryDelay = getEnvAsDuration("EVENT_RETRY_DELAY", c.EventRetryDelay)
	c.DeadLetterPath = getEnv("DEAD_LETTER_PATH", c.DeadLetterPath)

	c.KafkaBrokers = getEnv("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)

	c.DiscordWebhookID = getEnv("DISCORD_WEBHOOK_ID", c.DiscordWebhookID)
	c.DiscordWebhookToken = getEnv("DISCORD_WEBHOOK_TOKEN", c.DiscordWebhookToken)

	if raw := getEnv("TRUSTED_PROXIES", ""); raw != "" {
		c.TrustedProxies = splitList(raw)
	}
	c.RateLimit = getEnvAsInt("RATE_LIMIT", c.RateLimit)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProd || c.Environment == "production"
}

// FundingEnabled reports whether the dev funding route is served.
// It is always off in production.
func (c *Config) FundingEnabled() bool {
	return c.AllowDevFunding && !c.IsProduction()
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}
