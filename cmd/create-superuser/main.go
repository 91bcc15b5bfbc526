// Package main содержит точку входа для создания учетной записи администратора.
// Аргументов и флагов нет; в stdout печатается одна строка статуса,
// код выхода всегда 0.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	bootstrapapp "github.com/magabrotheeeer/product-service/internal/app/bootstrap"
	"github.com/magabrotheeeer/product-service/internal/config"
	"github.com/magabrotheeeer/product-service/internal/lib/sl"
	bootstrapservice "github.com/magabrotheeeer/product-service/internal/services/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stdout, run(ctx))
}

func run(ctx context.Context) bootstrapservice.Result {
	cfg, err := config.Load()
	if err != nil {
		logger := setupLogger(false)
		logger.Error("failed to load config", sl.Err(err))
		return bootstrapservice.Failed(err)
	}

	logger := setupLogger(cfg.Debug)
	logger.Info("starting create-superuser", slog.String("env", cfg.Env))
	logger.Debug("resolved config", slog.String("config", cfg.String()))

	app, err := bootstrapapp.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize bootstrap app", sl.Err(err))
		return bootstrapservice.Failed(err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close bootstrap app", sl.Err(err))
		}
	}()

	return app.Run(ctx)
}

// setupLogger пишет в stderr: stdout занят строкой статуса.
func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
