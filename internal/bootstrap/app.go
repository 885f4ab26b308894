package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/TapStake_Go/internal/arena"
	"github.com/osse101/TapStake_Go/internal/cashout"
	"github.com/osse101/TapStake_Go/internal/concurrency"
	"github.com/osse101/TapStake_Go/internal/config"
	"github.com/osse101/TapStake_Go/internal/match"
	"github.com/osse101/TapStake_Go/internal/payout"
	"github.com/osse101/TapStake_Go/internal/run"
	"github.com/osse101/TapStake_Go/internal/server"
	"github.com/osse101/TapStake_Go/internal/snapshot"
	"github.com/osse101/TapStake_Go/internal/wallet"
	"github.com/osse101/TapStake_Go/internal/worker"
)

// Run wires every component from cfg, restores snapshots, serves HTTP until
// ctx is cancelled and then shuts everything down.
func Run(ctx context.Context, cfg *config.Config) error {
	storage, err := InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	provider, err := payout.NewProvider(payout.Config{
		Provider:        cfg.PayoutProvider,
		StripeEndpoint:  cfg.StripeEndpoint,
		StripeAPIKey:    cfg.StripeAPIKey,
		TreasuryAddress: cfg.TreasuryAddress,
	})
	if err != nil {
		closeAll(storage.Closer)
		return fmt.Errorf("%s: %w", ErrMsgFailedPayout, err)
	}

	jobs := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize)
	jobs.Start()
	writer := snapshot.NewWriter(storage.Snapshots, jobs, cfg.SnapshotTimeout)

	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		jobs.Stop()
		closeAll(storage.Closer)
		return err
	}

	repos := InitializeRepositories()
	locks := concurrency.NewLockManager()
	matchWorker := worker.NewMatchWorker(cfg.AutoEndGrace)

	wallets := wallet.NewService(repos.Wallets, locks, writer)
	cashouts := cashout.NewService(repos.Cashouts, wallets, provider, locks, writer, publisher, cfg.CashoutAdminToken)
	matches := match.NewService(repos.Matches, locks, publisher)
	runs := run.NewService(cfg.RunHistoryCap, publisher)
	arenaSvc := arena.NewService(wallets, matches, runs, locks, matchWorker, publisher)

	closers, err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus:    bus,
		MatchWorker: matchWorker,
		MatchEnder:  arenaSvc,
		Config:      cfg,
	})
	closers = append(closers, storage.Closer)
	if err != nil {
		GracefulShutdown(ctx, ShutdownComponents{ResilientPublisher: publisher, Jobs: jobs, Closers: closers})
		return err
	}

	// Restore before registering sources so the restore itself is not
	// written straight back.
	if err := RestoreSnapshots(ctx, storage.Snapshots, wallets, cashouts); err != nil {
		GracefulShutdown(ctx, ShutdownComponents{ResilientPublisher: publisher, Jobs: jobs, Closers: closers})
		return err
	}
	RegisterSnapshotSources(writer, wallets, cashouts)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit:      cfg.RateLimit,
		FundingEnabled: cfg.FundingEnabled(),
		ServiceName:    cfg.ServiceName,
		Version:        cfg.Version,
		Ready:          storage.Ready,
	}, server.Services{
		Wallets:  wallets,
		Cashouts: cashouts,
		Matches:  matches,
		Runs:     runs,
		Arena:    arenaSvc,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		GracefulShutdown(shutdownCtx, ShutdownComponents{
			Server:             srv,
			MatchWorker:        matchWorker,
			ResilientPublisher: publisher,
			SnapshotWriter:     writer,
			Jobs:               jobs,
			Closers:            closers,
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
		return err
	}
	return nil
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c != nil {
			_ = c.Close()
		}
	}
}
