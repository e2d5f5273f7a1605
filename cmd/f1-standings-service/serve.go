package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/delivery"
	"github.com/fortuna/services/f1-standings-service/internal/handlers"
	"github.com/fortuna/services/f1-standings-service/internal/hub"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the poller and the read API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshot := delivery.NewSnapshot()
	wsHub := hub.NewHub(snapshot.All, logger.With("component", "hub"))

	// snapshot before websocket: replay on connect is never behind the broadcast
	fanout := delivery.NewFanout(logger).
		Add("snapshot", snapshot).
		Add("websocket", wsHub)

	redisCache, cleanup, err := addOptionalSinks(ctx, cfg, fanout, logger)
	defer cleanup()
	if err != nil {
		return err
	}

	p := newPoller(cfg, fanout, logger)

	handler := handlers.NewHandler(ctx, snapshot, p, wsHub, logger.With("component", "http"))
	if redisCache != nil {
		handler.WithCache(redisCache)
	}
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Router(cfg.Server.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		wsHub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		p.Run(ctx)
	}()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("read API listening",
			"addr", cfg.Server.Addr,
			"sinks", fanout.Sinks(),
			"mode", cfg.Display.Mode.String())
		serverErrors <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
		stop()

	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("could not stop server", "error", err)
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")

	return runErr
}
