// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/assessmatch/internal/config"
)

// Config holds engine settings.
type Config struct {
	// DefaultMinResults applies when Request.MinResults is zero.
	DefaultMinResults int `json:"default_min_results"`

	// DefaultMaxResults applies when Request.MaxResults is zero.
	DefaultMaxResults int `json:"default_max_results"`

	// MaxResultsLimit caps Request.MaxResults.
	MaxResultsLimit int `json:"max_results_limit"`

	// RequestTimeout bounds a whole Recommend call. Zero disables the deadline.
	RequestTimeout time.Duration `json:"request_timeout"`

	// FetchMultiplier and FetchFloor size retrieval:
	// k = max(max_results * FetchMultiplier, FetchFloor).
	FetchMultiplier int `json:"fetch_multiplier"`
	FetchFloor      int `json:"fetch_floor"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultMinResults: 1,
		DefaultMaxResults: 10,
		MaxResultsLimit:   50,
		RequestTimeout:    10 * time.Second,
		FetchMultiplier:   3,
		FetchFloor:        30,
	}
}

// ConfigFromSettings maps the recommend section of the application config.
func ConfigFromSettings(rc *config.RecommendConfig) *Config {
	return &Config{
		DefaultMinResults: rc.DefaultMinResults,
		DefaultMaxResults: rc.DefaultMaxResults,
		MaxResultsLimit:   rc.MaxResultsLimit,
		RequestTimeout:    rc.RequestTimeout,
		FetchMultiplier:   rc.FetchMultiplier,
		FetchFloor:        rc.FetchFloor,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DefaultMinResults < 0 {
		return fmt.Errorf("default_min_results must be non-negative, got %d", c.DefaultMinResults)
	}
	if c.DefaultMaxResults < 1 {
		return fmt.Errorf("default_max_results must be positive, got %d", c.DefaultMaxResults)
	}
	if c.DefaultMinResults > c.DefaultMaxResults {
		return fmt.Errorf("default_min_results must be <= default_max_results, got %d > %d",
			c.DefaultMinResults, c.DefaultMaxResults)
	}
	if c.MaxResultsLimit < c.DefaultMaxResults {
		return fmt.Errorf("max_results_limit must be >= default_max_results, got %d < %d",
			c.MaxResultsLimit, c.DefaultMaxResults)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative, got %v", c.RequestTimeout)
	}
	if c.FetchMultiplier < 1 {
		return fmt.Errorf("fetch_multiplier must be positive, got %d", c.FetchMultiplier)
	}
	if c.FetchFloor < 1 {
		return fmt.Errorf("fetch_floor must be positive, got %d", c.FetchFloor)
	}
	return nil
}

// FetchK returns how many candidates to retrieve for a list of at most
// maxResults: max(maxResults*multiplier, floor).
func (c *Config) FetchK(maxResults int) int {
	k := maxResults * c.FetchMultiplier
	if k < c.FetchFloor {
		k = c.FetchFloor
	}
	return k
}

// FetchK applies the default sizing rule, max(maxResults*3, 30).
func FetchK(maxResults int) int {
	return DefaultConfig().FetchK(maxResults)
}
