// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/config"
	"github.com/tomtom215/assessmatch/internal/database"
	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/recommend"
	"github.com/tomtom215/assessmatch/internal/recommend/reranking"
)

// verifyTimeout bounds the startup model check.
const verifyTimeout = 30 * time.Second

// initEngine wires the recommendation pipeline.
func initEngine(cfg *config.Config, embedder recommend.Embedder, index recommend.Index) (*recommend.Engine, error) {
	ranker, err := reranking.New(cfg.Recommend.Ranker, cfg.Recommend.SaturationThreshold, cfg.Recommend.PenaltyWeight)
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(recommend.ConfigFromSettings(&cfg.Recommend), embedder, index, ranker, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	logging.Info().
		Str("ranker", engine.RankerName()).
		Str("model_id", engine.ModelID()).
		Int("default_max_results", cfg.Recommend.DefaultMaxResults).
		Dur("request_timeout", cfg.Recommend.RequestTimeout).
		Msg("Recommendation engine initialized")
	return engine, nil
}

// modelVerifier is satisfied by *recommend.Engine.
type modelVerifier interface {
	VerifyModel(ctx context.Context) error
}

// verifyIndexModel refuses to start when the index was built with a different
// model. An unreachable or empty index is logged and left to the readiness probe.
func verifyIndexModel(ctx context.Context, cfg *config.Config, v modelVerifier) error {
	if !cfg.Recommend.VerifyModel {
		logging.Warn().Msg("Index model verification disabled (RECOMMEND_VERIFY_MODEL=false)")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	err := v.VerifyModel(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, recommend.ErrModelMismatch):
		return err
	case errors.Is(err, recommend.ErrIndexUnavailable):
		logging.Warn().Err(err).Msg("Index not available at startup; run assessctl build-embeddings")
		return nil
	default:
		return fmt.Errorf("verify index model: %w", err)
	}
}

// seedMemoryIndex embeds the configured catalog into an in-process index.
func seedMemoryIndex(ctx context.Context, cfg *config.Config, store database.Store, embedder database.DocumentEmbedder) error {
	n, err := database.Rebuild(ctx, store, cfg.Catalog.Path, catalog.LoadOptions{
		InferTestTypes: cfg.Catalog.InferTestTypes,
		Logger:         logging.WithComponent("catalog"),
	}, embedder)
	if err != nil {
		return fmt.Errorf("seed memory index from %s: %w", cfg.Catalog.Path, err)
	}
	logging.Info().Int("records", n).Str("catalog", cfg.Catalog.Path).Msg("Memory index seeded")
	return nil
}
