package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"

	"github.com/interera-ai/backend/internal/config"
	"github.com/interera-ai/backend/internal/inject"
	"github.com/interera-ai/backend/internal/log"
	"github.com/interera-ai/backend/internal/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		log.New(os.Stderr, slog.LevelInfo).Error("loading config", "error", err)
		return err
	}

	logger := log.New(os.Stderr, log.ParseLevel(cfg.LogLevel))
	ctx = log.NewContext(ctx, logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector := inject.Setup(ctx, cfg)
	defer func() { _ = injector.Shutdown() }()

	srv := do.MustInvoke[*server.Server](injector)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}
