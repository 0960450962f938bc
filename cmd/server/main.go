package main

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/GCLCMentor/CherryCourtTimer/internal/app"
	"github.com/GCLCMentor/CherryCourtTimer/internal/config"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
	"github.com/GCLCMentor/CherryCourtTimer/internal/store"
	httpTransport "github.com/GCLCMentor/CherryCourtTimer/internal/transport/http"
)

//go:embed web/*
var webFS embed.FS

func main() {
	// A missing .env is fine; the environment wins anyway
	_ = godotenv.Load()

	cfg := config.Load()

	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting scoreboard server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store, logger.With("component", "store"))
	if err != nil {
		logger.Error("failed to open state store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	hub := app.NewHub(st, clockwork.NewRealClock(), cfg.Board.PollInterval, logger)
	defer hub.Close()

	if _, err := hub.Session(ctx); err != nil {
		if errors.Is(err, domain.ErrConfigMissing) {
			logger.Warn("no game configured yet, waiting for setup", "error", err)
		} else {
			logger.Error("failed to open game session", "error", err)
		}
	}

	go hub.Board().Run(ctx)

	server := httpTransport.NewServer(cfg, hub, logger, webFS)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
