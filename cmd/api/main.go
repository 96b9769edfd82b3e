package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nurumindfulness/nuru/backend/internal/analysis/crisis"
	"github.com/nurumindfulness/nuru/backend/internal/config"
	"github.com/nurumindfulness/nuru/backend/internal/handler"
	"github.com/nurumindfulness/nuru/backend/internal/logging"
	"github.com/nurumindfulness/nuru/backend/internal/model/persona"
	"github.com/nurumindfulness/nuru/backend/internal/service/ai"
	"github.com/nurumindfulness/nuru/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Log)
	if err != nil {
		logger.Warn("log file unavailable, logging to stderr", "file", cfg.Log.File, "error", err)
	}
	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment only", "error", envErr)
	}

	router, err := buildRouter(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize relay", "error", err)
		os.Exit(1)
	}

	if err := startServer(ctx, cfg.Server, router, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildRouter wires the detector, persona, completion provider and relay.
func buildRouter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	detector, err := crisis.NewDetector(cfg.Safety.Keywords)
	if err != nil {
		return nil, err
	}

	nuru := persona.Nuru().WithCrisisReply(cfg.Safety.CrisisReply)

	// missing credentials leave the service unconfigured instead of failing here
	aiService, err := ai.NewService(ctx, cfg.AI, nuru, logger)
	if err != nil {
		return nil, err
	}

	relay := chat.NewService(detector, aiService, nuru, logger)
	logger.Info("chat relay ready",
		"provider", cfg.AI.Provider,
		"completion_ready", aiService.Ready(),
		"crisis_keywords", len(detector.Keywords()))

	return handler.NewRouter(nuru, relay, logger), nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *slog.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Nuru relay listening", "addr", addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
