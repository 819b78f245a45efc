// @title        Investor Portal API
// @version      1.0
// @description  Authentication and session API for the investor-relations portal.
// @BasePath     /api
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridiancredit/investor-portal/internal/api"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
	"github.com/meridiancredit/investor-portal/internal/infrastructure/config"
	mongodb "github.com/meridiancredit/investor-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/meridiancredit/investor-portal/internal/infrastructure/db/redis"
	"github.com/meridiancredit/investor-portal/internal/infrastructure/notify"
	"github.com/meridiancredit/investor-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger options depend on config; bootstrap a default logger for
		// the fatal path.
		bootstrapLog := logger.Init(logger.Options{})
		bootstrapLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	dispatcher := notify.NewDispatcher(0, buildSender(cfg, log), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildSender selects the passcode delivery implementation: provider-backed
// when an API key is configured, log-only otherwise.
func buildSender(cfg *config.Config, log zerolog.Logger) ports.NotificationSender {
	if cfg.Email.APIKey == "" {
		log.Warn().Msg("no email API key configured, passcodes will only be logged")
		return notify.NewLogSender(log)
	}
	return notify.NewEmailSender(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From)
}
