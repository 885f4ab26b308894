package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/server"
	"github.com/osse101/TapStake_Go/internal/snapshot"
	"github.com/osse101/TapStake_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	MatchWorker        *worker.MatchWorker
	ResilientPublisher *event.ResilientPublisher
	SnapshotWriter     *snapshot.Writer
	Jobs               *worker.Pool
	Closers            []io.Closer
}

// GracefulShutdown stops the application in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. match worker (cancel pending auto-ends, wait for running ones)
//  3. event publisher (flush pending retries)
//  4. snapshot writer (final synchronous save, then drain the job pool)
//  5. outbound clients and storage connections
//
// Errors are logged and never stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.MatchWorker != nil {
		if err := components.MatchWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgMatchWorkerShutdownFailed, "error", err)
		}
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.SnapshotWriter != nil {
		slog.Info(LogMsgFlushingSnapshots)
		if err := components.SnapshotWriter.Flush(ctx); err != nil {
			slog.Error(LogMsgSnapshotFlushFailed, "error", err)
		}
	}
	if components.Jobs != nil {
		components.Jobs.Stop()
	}

	for _, c := range components.Closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			slog.Error(LogMsgCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
