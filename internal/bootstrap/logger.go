package bootstrap

import (
	"log/slog"

	"github.com/osse101/TapStake_Go/internal/config"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// SetupLogger installs the process logger from cfg and reports the startup
// configuration, including any risky settings from cfg.Warnings.
func SetupLogger(cfg *config.Config) {
	addSource := cfg.Environment == config.EnvDev || cfg.Environment == "development"

	logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	))

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	slog.Info(LogMsgStartingTapStake,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"port", cfg.Port)

	slog.Debug(LogMsgConfigurationLoaded,
		"snapshot_backend", cfg.SnapshotBackend,
		"payout_provider", cfg.PayoutProvider,
		"funding_enabled", cfg.FundingEnabled(),
		"run_history_cap", cfg.RunHistoryCap,
		"auto_end_grace", cfg.AutoEndGrace)

	for _, w := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "detail", w)
	}
}
