package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/zynerotech/apiserver/app"
	"github.com/zynerotech/apiserver/config"
	"github.com/zynerotech/apiserver/logger"
)

func main() {
	cfg, err := config.FromEnv("")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Завершаемся по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Сервер не слушает порт, пока хранилище не подключено
	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to bootstrap application")
	}

	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Application stopped with error")
		application.Logger.Close() //nolint:errcheck
		os.Exit(1)
	}
	application.Logger.Close() //nolint:errcheck
}
