// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/metrics"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// Loader constructs the underlying model. It is called lazily, at most once
// successfully per QueryEmbedder.
type Loader func(ctx context.Context) (Model, error)

// QueryEmbedder normalizes text and embeds it with a lazily loaded model.
// The same instance embeds catalog documents during index builds and queries
// at serve time, so both sides share normalization and model identity.
type QueryEmbedder struct {
	modelID string
	dim     int
	load    Loader
	logger  zerolog.Logger

	mu    sync.Mutex
	model Model
}

// NewQueryEmbedder creates an embedder for the given model identity. The
// loader runs on first use; a failed load is retried on the next call.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewQueryEmbedder(modelID string, dim int, load Loader, logger zerolog.Logger) (*QueryEmbedder, error) {
	if modelID == "" {
		return nil, errors.New("model id is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if load == nil {
		return nil, errors.New("loader is required")
	}
	return &QueryEmbedder{
		modelID: modelID,
		dim:     dim,
		load:    load,
		logger:  logger.With().Str("component", "embedding").Logger(),
	}, nil
}

// ModelID returns the identifier that must match the index metadata.
func (q *QueryEmbedder) ModelID() string { return q.modelID }

// Dimension returns the vector length.
func (q *QueryEmbedder) Dimension() int { return q.dim }

// Loaded reports whether the model handle has been initialized.
func (q *QueryEmbedder) Loaded() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.model != nil
}

// Warmup loads the model now instead of on the first request.
func (q *QueryEmbedder) Warmup(ctx context.Context) error {
	_, err := q.get(ctx)
	return err
}

// get returns the memoized model, loading it if needed.
func (q *QueryEmbedder) get(ctx context.Context) (Model, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.model != nil {
		return q.model, nil
	}

	start := time.Now()
	m, err := q.load(ctx)
	if err != nil {
		q.logger.Error().Err(err).Str("model_id", q.modelID).Msg("model load failed")
		return nil, fmt.Errorf("load embedding model %s: %w", q.modelID, err)
	}
	if m.ModelID() != q.modelID || m.Dimension() != q.dim {
		_ = m.Close()
		return nil, fmt.Errorf("%w: loaded %q (dim %d), configured %q (dim %d)",
			recommend.ErrModelMismatch, m.ModelID(), m.Dimension(), q.modelID, q.dim)
	}

	q.model = m
	q.logger.Info().
		Str("model_id", q.modelID).
		Str("provider", m.Provider()).
		Dur("load_time", time.Since(start)).
		Msg("embedding model loaded")
	return m, nil
}

// Embed normalizes text and returns its embedding. Empty or whitespace-only
// text returns an error matching ErrInvalidInput without loading the model.
func (q *QueryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, fmt.Errorf("%w: query text is empty", ErrInvalidInput)
	}

	m, err := q.get(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	vec, err := m.Embed(ctx, normalized)
	metrics.RecordEmbedding(m.Provider(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(vec) != q.dim {
		return nil, fmt.Errorf("model returned %d dimensions, want %d", len(vec), q.dim)
	}
	return vec, nil
}

// EmbedAll embeds texts in order. Used for catalog documents.
func (q *QueryEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := q.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Close releases the model if it was loaded.
func (q *QueryEmbedder) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.model == nil {
		return nil
	}
	err := q.model.Close()
	q.model = nil
	return err
}

var _ recommend.Embedder = (*QueryEmbedder)(nil)
