package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chatmesh/chatd/internal/config"
	"github.com/chatmesh/chatd/internal/nats"
	"github.com/chatmesh/chatd/internal/notify"
	"github.com/chatmesh/chatd/internal/server"
	"github.com/chatmesh/chatd/internal/store"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging
	setupLogging(cfg)

	// Connect to Postgres and prepare the document store
	pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	// NATS: embedded server or external URL
	natsURL := cfg.NatsURL
	if cfg.NatsEmbedded {
		embedded, err := nats.StartEmbedded(nats.EmbeddedConfig{
			StoreDir: cfg.NatsStoreDir,
		})
		if err != nil {
			slog.Error("failed to start embedded NATS", "error", err)
			os.Exit(1)
		}
		defer embedded.Shutdown()
		natsURL = embedded.ClientURL()
	}

	nc, err := nats.Connect(natsURL)
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("connected to NATS", "url", natsURL)

	if err := nc.EnsureStream(ctx); err != nil {
		slog.Error("failed to setup JetStream stream", "error", err)
		os.Exit(1)
	}

	// Create the HTTP server
	srv := server.New(cfg, pg, pg.Pool(), nc)

	// Push delivery worker (optional — hard fail if config path is set but invalid)
	if cfg.PushConfigPath != "" {
		gateway, err := notify.LoadGatewayConfig(cfg.PushConfigPath)
		if err != nil {
			slog.Error("failed to load push config", "error", err)
			os.Exit(1)
		}
		srv.StartPushWorker(gateway)
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func setupLogging(cfg *config.Config) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
	}

	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
