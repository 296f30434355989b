// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/config"
)

// Provider names accepted by embedding.provider.
const (
	ProviderONNX   = "onnx"
	ProviderGemini = "gemini"
	ProviderHash   = "hash"
)

// NewFromConfig builds a lazily loading QueryEmbedder for the configured
// provider. Nothing expensive happens until the first Embed or Warmup.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFromConfig(cfg *config.EmbeddingConfig, logger zerolog.Logger) (*QueryEmbedder, error) {
	base, modelID, err := baseLoader(cfg, logger)
	if err != nil {
		return nil, err
	}

	load := base
	if cfg.Cache.Enabled {
		load = func(ctx context.Context) (Model, error) {
			m, err := base(ctx)
			if err != nil {
				return nil, err
			}
			var store *BadgerStore
			if cfg.Cache.Path != "" {
				store, err = OpenBadgerStore(cfg.Cache.Path, cfg.Cache.TTL)
				if err != nil {
					_ = m.Close()
					return nil, err
				}
			}
			return NewCachedModel(m, cfg.Cache.Capacity, cfg.Cache.TTL, store, logger), nil
		}
	}

	return NewQueryEmbedder(modelID, cfg.Dimension, load, logger)
}

// baseLoader returns the uncached loader and the model identifier it will report.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func baseLoader(cfg *config.EmbeddingConfig, logger zerolog.Logger) (Loader, string, error) {
	switch cfg.Provider {
	case ProviderONNX:
		opts := ONNXOptions{
			LibraryPath:   cfg.ONNX.LibraryPath,
			ModelPath:     cfg.ONNX.ModelPath,
			TokenizerPath: cfg.ONNX.TokenizerPath,
			ModelID:       cfg.ModelID,
			Dimension:     cfg.Dimension,
			MaxSeqLen:     cfg.ONNX.MaxSeqLen,
		}
		return func(context.Context) (Model, error) {
			return NewONNXModel(opts)
		}, cfg.ModelID, nil

	case ProviderGemini:
		opts := GeminiOptions{
			APIKey:            cfg.Gemini.APIKey,
			Project:           cfg.Gemini.Project,
			Location:          cfg.Gemini.Location,
			Model:             cfg.Gemini.Model,
			ModelID:           cfg.ModelID,
			Dimension:         cfg.Dimension,
			RequestsPerSecond: cfg.Gemini.RequestsPerSecond,
			Burst:             cfg.Gemini.Burst,
			Timeout:           cfg.Gemini.Timeout,
			Logger:            logger,
		}
		return func(ctx context.Context) (Model, error) {
			return NewGeminiModel(ctx, opts)
		}, cfg.ModelID, nil

	case ProviderHash:
		h, err := NewHashModel(cfg.Dimension)
		if err != nil {
			return nil, "", err
		}
		return func(context.Context) (Model, error) {
			return h, nil
		}, h.ModelID(), nil

	default:
		return nil, "", fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
