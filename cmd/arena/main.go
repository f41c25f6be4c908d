package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arenahq/arena/internal/auth"
	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/realtime"
	"github.com/arenahq/arena/internal/server"
	"github.com/arenahq/arena/internal/store/postgres"
	redisstore "github.com/arenahq/arena/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("ARENA_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("ARENA_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Create auth service.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Realtime fan-out. Events go straight through the registry when running
	// standalone; with Redis configured, a bridge relays them to sibling
	// instances too.
	registry := realtime.NewRegistry()
	var events realtime.Broadcaster = registry

	if cfg.Redis.Addr != "" {
		pubsub, redisErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if redisErr != nil {
			return redisErr
		}
		defer pubsub.Close()

		bridge := realtime.NewBridge(registry, pubsub, redisstore.EventsChannel())
		events = bridge

		go func() {
			if runErr := bridge.Run(ctx); runErr != nil {
				log.Error().Err(runErr).Msg("event relay stopped")
			}
		}()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cross-instance event relay enabled")
	}

	// Create HTTP server with all routes wired.
	srv := server.New(cfg, store, authSvc, registry, events)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
