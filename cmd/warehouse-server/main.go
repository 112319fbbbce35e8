/*-------------------------------------------------------------------------
 *
 * main.go
 *    warehouse-management server entry point
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/cmd/warehouse-server/main.go
 *
 *-------------------------------------------------------------------------
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/api"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/approval"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/audit"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/auth"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/config"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/entities"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/registry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	envFile := flag.String("env-file", ".env", "path to env file")
	flag.Parse()

	/* Missing .env is fine; the environment itself still applies */
	_ = godotenv.Load(*envFile)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	metrics.InitLogging(cfg.Logging.Level, cfg.Logging.Format)

	database, err := db.NewDBWithRetry(cfg.Database.DSN(), db.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 5, 2*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close()

	if cfg.Migration.Auto {
		runner, err := db.NewMigrationRunner(database.DB, cfg.Migration.Dir)
		if err != nil {
			log.Fatal().Err(err).Msg("migration setup failed")
		}
		if err := runner.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	queries := db.NewQueries(database.DB)

	grantCache := auth.NewGrantCache(cfg.Auth.GrantCacheTTL)
	evaluator := auth.NewEvaluator(queries, grantCache)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)

	auditLogger := audit.NewLogger(queries)
	reg := registry.New()
	handlers := entities.DefaultHandlers()
	entities.RegisterAll(reg, handlers)
	workflow := approval.NewWorkflow(queries, reg, auditLogger)
	service := entities.NewService(queries, workflow, handlers)

	apiHandlers := api.NewHandlers(queries, evaluator, grantCache, tokens, workflow, service, auditLogger)
	router := api.NewRouter(apiHandlers, database, tokens, evaluator)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go reportPoolStats(database)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}

func reportPoolStats(database *db.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		open, idle, inUse := database.GetPoolStats()
		metrics.UpdateDBPoolStats("warehouse", open, idle, inUse)
	}
}
