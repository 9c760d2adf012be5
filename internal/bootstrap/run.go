package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/paymentd/config"
)

// RunWithShutdown starts the dispatcher and the HTTP server and blocks until
// a termination signal, then shuts everything down in order: stop accepting
// requests, stop the workers, wait for in-flight webhook notifications.
func RunWithShutdown(cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := StartHTTPServer(cfg.HTTP, services, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := services.Dispatcher.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	<-gctx.Done()

	if err := ShutdownHTTPServer(context.Background(), server, logger); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	services.Processor.WaitNotifications()

	logger.Info("paymentd stopped")
	return nil
}
