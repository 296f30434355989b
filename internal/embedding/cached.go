// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/cache"
	"github.com/tomtom215/assessmatch/internal/metrics"
)

// CachedModel wraps a Model with an in-process LRU and an optional durable
// BadgerDB tier, both keyed by sha256(modelID|text).
type CachedModel struct {
	inner  Model
	memory *cache.LRU[[]float32]
	store  *BadgerStore
	logger zerolog.Logger
}

// NewCachedModel wraps inner. store may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCachedModel(inner Model, capacity int, ttl time.Duration, store *BadgerStore, logger zerolog.Logger) *CachedModel {
	return &CachedModel{
		inner:  inner,
		memory: cache.NewLRU[[]float32](capacity, ttl),
		store:  store,
		logger: logger.With().Str("component", "embedding_cache").Logger(),
	}
}

// ModelID returns the wrapped model's identifier.
func (c *CachedModel) ModelID() string { return c.inner.ModelID() }

// Dimension returns the wrapped model's dimension.
func (c *CachedModel) Dimension() int { return c.inner.Dimension() }

// Provider returns the wrapped model's provider.
func (c *CachedModel) Provider() string { return c.inner.Provider() }

// Embed returns a cached vector when available, computing and storing it otherwise.
// Returned slices are copies and safe to modify.
func (c *CachedModel) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key(c.inner.ModelID(), text)

	if vec, ok := c.memory.Get(key); ok {
		metrics.RecordCacheLookup("memory", true)
		return cloneVector(vec), nil
	}
	metrics.RecordCacheLookup("memory", false)

	if c.store != nil {
		vec, ok, err := c.store.Get(key)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Msg("durable cache read failed")
		case ok && len(vec) == c.inner.Dimension():
			metrics.RecordCacheLookup("badger", true)
			c.memory.Set(key, cloneVector(vec))
			return vec, nil
		default:
			metrics.RecordCacheLookup("badger", false)
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.memory.Set(key, cloneVector(vec))
	metrics.CacheSize.WithLabelValues("memory").Set(float64(c.memory.Len()))
	if c.store != nil {
		if err := c.store.Put(key, vec); err != nil {
			c.logger.Warn().Err(err).Msg("durable cache write failed")
		}
	}
	return vec, nil
}

// Stats returns in-memory cache statistics.
func (c *CachedModel) Stats() cache.Stats {
	return c.memory.Stats()
}

// Close closes the wrapped model and the durable store.
func (c *CachedModel) Close() error {
	var errs []error
	if err := c.inner.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Model = (*CachedModel)(nil)
