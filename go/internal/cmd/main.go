package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/internal/events"
	"github.com/fkmtimer/fkm/go/internal/gateway"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	setupLogging()

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup database")
	}
	defer database.Close()

	notifier, ws, closeNotifier := setupNotifier(ctx, config)
	defer closeNotifier()

	services := setupServices(database, config, notifier)
	server := setupServer(config, services, ws)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	cancel()

	log.Info().Msg("fkm api shutdown complete")
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// setupNotifier runs the in-process registry served at /ws. When NATS_URL
// is set events are also published to JetStream for the gateway.
func setupNotifier(ctx context.Context, config *Config) (events.Notifier, http.Handler, func()) {
	registry := gateway.NewRegistry(config.connectionConfig())
	go registry.Start(ctx)

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		log.Info().Msg("NATS_URL not set, delivering events in-process at /ws")
		return eventSinks(registry, nil), registry, func() {}
	}

	publisher, err := gateway.NewPublisher(ctx, config.jetStreamConfig(natsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}
	return eventSinks(registry, publisher), registry, func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event publisher")
		}
	}
}

func eventSinks(registry *gateway.Registry, publisher *gateway.Publisher) events.Notifier {
	if publisher == nil {
		return registry
	}
	return events.Fanout{registry, publisher}
}
