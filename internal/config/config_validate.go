// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("server.environment must be development, staging, or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be trace, debug, info, warn, or error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Backend {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the duckdb backend")
		}
	case "memory":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the memory backend")
		}
	default:
		return fmt.Errorf("database.backend must be duckdb or memory, got %q", c.Database.Backend)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	e := &c.Embedding
	if e.ModelID == "" {
		return fmt.Errorf("embedding.model_id is required")
	}
	if e.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive, got %d", e.Dimension)
	}
	if e.Workers <= 0 {
		return fmt.Errorf("embedding.workers must be positive, got %d", e.Workers)
	}

	switch e.Provider {
	case "onnx":
		if e.ONNX.ModelPath == "" || e.ONNX.TokenizerPath == "" {
			return fmt.Errorf("embedding.onnx.model_path and embedding.onnx.tokenizer_path are required for the onnx provider")
		}
		if e.ONNX.MaxSeqLen <= 0 {
			return fmt.Errorf("embedding.onnx.max_seq_len must be positive, got %d", e.ONNX.MaxSeqLen)
		}
	case "gemini":
		if e.Gemini.APIKey == "" && e.Gemini.Project == "" {
			return fmt.Errorf("GEMINI_API_KEY or GEMINI_PROJECT is required for the gemini provider")
		}
		if e.Gemini.RequestsPerSecond < 0 {
			return fmt.Errorf("embedding.gemini.requests_per_second must be >= 0, got %v", e.Gemini.RequestsPerSecond)
		}
	case "hash":
	default:
		return fmt.Errorf("embedding.provider must be onnx, gemini, or hash, got %q", e.Provider)
	}

	if e.Cache.Enabled && e.Cache.Capacity <= 0 {
		return fmt.Errorf("embedding.cache.capacity must be positive when the cache is enabled, got %d", e.Cache.Capacity)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.DefaultMinResults < 0 {
		return fmt.Errorf("recommend.default_min_results must be >= 0, got %d", r.DefaultMinResults)
	}
	if r.DefaultMaxResults < 1 {
		return fmt.Errorf("recommend.default_max_results must be >= 1, got %d", r.DefaultMaxResults)
	}
	if r.DefaultMinResults > r.DefaultMaxResults {
		return fmt.Errorf("recommend.default_min_results (%d) must be <= recommend.default_max_results (%d)",
			r.DefaultMinResults, r.DefaultMaxResults)
	}
	if r.MaxResultsLimit < r.DefaultMaxResults {
		return fmt.Errorf("recommend.max_results_limit (%d) must be >= recommend.default_max_results (%d)",
			r.MaxResultsLimit, r.DefaultMaxResults)
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("recommend.request_timeout must be positive, got %v", r.RequestTimeout)
	}
	switch r.Ranker {
	case "balanced", "penalty":
	default:
		return fmt.Errorf("recommend.ranker must be balanced or penalty, got %q", r.Ranker)
	}
	if r.SaturationThreshold < 1 {
		return fmt.Errorf("recommend.saturation_threshold must be >= 1, got %d", r.SaturationThreshold)
	}
	if r.FetchMultiplier < 1 {
		return fmt.Errorf("recommend.fetch_multiplier must be >= 1, got %d", r.FetchMultiplier)
	}
	if r.FetchFloor < 1 {
		return fmt.Errorf("recommend.fetch_floor must be >= 1, got %d", r.FetchFloor)
	}
	if r.HealthInterval <= 0 {
		return fmt.Errorf("recommend.health_interval must be positive, got %v", r.HealthInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
	}
	if c.Server.Environment == "production" {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("security.cors_origins must not contain * in production")
			}
		}
	}
	return nil
}
