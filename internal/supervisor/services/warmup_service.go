// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Warmer loads a lazily initialized model.
type Warmer interface {
	Warmup(ctx context.Context) error
	ModelID() string
}

// ModelWarmupService loads the query model in the background after startup
// so the first request does not pay the load cost. The model still loads on
// demand if a request arrives first; both paths share one load.
//
// On success the service exits with suture.ErrDoNotRestart. On failure it
// returns the error and suture retries with backoff.
type ModelWarmupService struct {
	warmer  Warmer
	timeout time.Duration
	logger  zerolog.Logger
}

// NewModelWarmupService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelWarmupService(warmer Warmer, timeout time.Duration, logger zerolog.Logger) *ModelWarmupService {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ModelWarmupService{
		warmer:  warmer,
		timeout: timeout,
		logger:  logger.With().Str("service", "model-warmup").Logger(),
	}
}

// Serve implements suture.Service.
func (s *ModelWarmupService) Serve(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.Warmup(ctx); err != nil {
		return fmt.Errorf("warm up model %s: %w", s.warmer.ModelID(), err)
	}

	s.logger.Info().
		Str("model_id", s.warmer.ModelID()).
		Dur("duration", time.Since(start)).
		Msg("query model loaded")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for suture's logs.
func (s *ModelWarmupService) String() string {
	return "model-warmup"
}
