package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/internal/config"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	stores, err := server.OpenStores(ctx, cfg.Database, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open database")
	}

	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		publisher = mqClient

		consumerLogger := logger.With().Str("component", "event_consumer").Logger()
		if err := mqClient.ConsumeEvents(rabbitmq.LogEvents(consumerLogger)); err != nil {
			logger.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
	} else {
		logger.Info().Msg("RABBITMQ_URL not set, catalog events disabled")
	}

	app := server.NewApp(server.Deps{
		Config:    cfg,
		Stores:    stores,
		Publisher: publisher,
		Logger:    logger,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", cfg.AppPort).Str("driver", cfg.Database.Driver).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("error during fiber shutdown")
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing RabbitMQ client")
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stores.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("error closing database")
	}
	logger.Info().Msg("server gracefully stopped")
}
