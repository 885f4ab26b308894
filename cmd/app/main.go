package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/osse101/TapStake_Go/docs"
	"github.com/osse101/TapStake_Go/internal/bootstrap"
	"github.com/osse101/TapStake_Go/internal/config"
)

// @title TapStake API
// @version 1.0
// @description Staked reaction-game matches with a wallet ledger and an admin-approved cashout flow.
// @BasePath /
// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	bootstrap.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, cfg); err != nil {
		slog.Error("TapStake exited with error", "error", err)
		os.Exit(1)
	}
}
