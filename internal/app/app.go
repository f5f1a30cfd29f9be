package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/vitorfontenele/videos-api/internal/config"
	"github.com/vitorfontenele/videos-api/internal/httpserver"
	"github.com/vitorfontenele/videos-api/internal/logging"
)

// Run bootstraps the videos API. With no arguments it serves HTTP traffic.
func Run(ctx context.Context, args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx)
	case "seed":
		return runSeed(ctx, args)
	case "export":
		return runExport(ctx, args)
	default:
		return fmt.Errorf("unknown command %q (expected serve, seed, or export)", command)
	}
}

// bootstrap loads configuration and installs the process logger.
func bootstrap() (config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, closer := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	slog.SetDefault(logger)

	return cfg, logger, func() { _ = closer.Close() }, nil
}

func serve(ctx context.Context) error {
	cfg, logger, closeLog, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeLog()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	handler := buildRouter(logger, cfg, buildDependencies(store))
	srv := httpserver.New(cfg.AppPort, handler, cfg.ShutdownTimeout)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting http server", "port", cfg.AppPort, "store", cfg.StoreDriver)

	if err := srv.Run(ctx); err != nil {
		return err
	}

	logger.Info("http server stopped")
	return nil
}
