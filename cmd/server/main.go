// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/assessmatch/docs" // registers the OpenAPI document served at /swagger

	"github.com/tomtom215/assessmatch/internal/api"
	"github.com/tomtom215/assessmatch/internal/config"
	"github.com/tomtom215/assessmatch/internal/database"
	"github.com/tomtom215/assessmatch/internal/embedding"
	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/metrics"
	"github.com/tomtom215/assessmatch/internal/supervisor"
	"github.com/tomtom215/assessmatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// warmupTimeout bounds a single model load attempt.
const warmupTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("backend", cfg.Database.Backend).
		Str("provider", cfg.Embedding.Provider).
		Str("model_id", cfg.Embedding.ModelID).
		Str("ranker", cfg.Recommend.Ranker).
		Msg("Starting AssessMatch")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("AssessMatch exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing index")
		}
	}()

	queryEmbedder, err := embedding.NewFromConfig(&cfg.Embedding, logging.Logger())
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	defer func() {
		if err := queryEmbedder.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing embedding model")
		}
	}()

	if cfg.Database.Backend == database.BackendMemory {
		if err := seedMemoryIndex(ctx, cfg, store, queryEmbedder); err != nil {
			return err
		}
	}

	pool := embedding.NewPool(queryEmbedder, cfg.Embedding.Workers)
	defer pool.Close()

	engine, err := initEngine(cfg, pool, store)
	if err != nil {
		return err
	}
	if err := verifyIndexModel(ctx, cfg, engine); err != nil {
		return err
	}
	metrics.SetAppInfo(version, engine.ModelID())

	handler := api.NewHandler(engine, store, cfg, version)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddIndexService(services.NewIndexMonitorService(
		store, engine, cfg.Recommend.HealthInterval, logging.WithComponent("index-monitor")))
	tree.AddModelService(services.NewModelWarmupService(
		queryEmbedder, warmupTimeout, logging.WithComponent("model-warmup")))
	tree.AddAPIService(services.NewHTTPServerService(
		server, server.Addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best effort after shutdown
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return nil
}
