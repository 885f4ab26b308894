package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate rejects settings the service cannot start with.
// Unknown payout providers are allowed; they fall back to manual.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}

	switch c.SnapshotBackend {
	case BackendFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("DATA_DIR is required for the file snapshot backend"))
		}
	case BackendPostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for the postgres snapshot backend"))
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis snapshot backend"))
		}
	case BackendS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 snapshot backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", c.SnapshotBackend))
	}

	switch c.PayoutProvider {
	case PayoutStripe:
		if c.StripeEndpoint == "" || c.StripeAPIKey == "" {
			errs = append(errs, errors.New("STRIPE_ENDPOINT and STRIPE_API_KEY are required for the stripe payout provider"))
		}
	case PayoutCrypto:
		if c.TreasuryAddress == "" {
			errs = append(errs, errors.New("TREASURY_ADDRESS is required for the crypto payout provider"))
		}
	}

	if c.RunHistoryCap <= 0 {
		errs = append(errs, fmt.Errorf("RUN_HISTORY_CAP must be positive, got %d", c.RunHistoryCap))
	}
	if c.AutoEndGrace < 0 {
		errs = append(errs, fmt.Errorf("AUTO_END_GRACE must not be negative, got %s", c.AutoEndGrace))
	}
	if (c.DiscordWebhookID == "") != (c.DiscordWebhookToken == "") {
		errs = append(errs, errors.New("DISCORD_WEBHOOK_ID and DISCORD_WEBHOOK_TOKEN must be set together"))
	}

	return errors.Join(errs...)
}

// Warnings lists settings that are allowed but risky
func (c *Config) Warnings() []string {
	var warnings []string

	if c.CashoutAdminToken == "" {
		warnings = append(warnings, "CASHOUT_ADMIN_TOKEN is not set - cashout approve, reject and reset are open to anyone")
	}
	if c.IsProduction() && c.AllowDevFunding {
		warnings = append(warnings, "ALLOW_DEV_FUNDING is ignored in production")
	}
	switch c.PayoutProvider {
	case PayoutManual, PayoutStripe, PayoutCrypto:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown PAYOUT_PROVIDER %q - manual payouts will be used", c.PayoutProvider))
	}
	if c.DBPassword == "change_this_secure_password" {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if strings.HasPrefix(c.StripeAPIKey, "sk_live_") && !c.IsProduction() {
		warnings = append(warnings, "a live STRIPE_API_KEY is configured outside production")
	}
	return warnings
}
