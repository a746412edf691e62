package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"skin_market/internal/application"
	"skin_market/internal/config"
	"skin_market/pkg/contextx"
	"skin_market/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	log := slog.New(logx.NewHandler(os.Stdout, cfg.Log.Level, cfg.Log.Format)).
		With(slog.String("app", cfg.App.Name), slog.String("version", cfg.App.Version))
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err = application.Run(ctx, cfg); err != nil {
		log.Error("application.Run", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
