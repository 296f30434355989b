// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/metrics"
)

// IndexProbe is the part of the vector store the monitor polls.
type IndexProbe interface {
	Count(ctx context.Context) (int, error)
}

// ModelVerifier checks that the index was built with the query model.
type ModelVerifier interface {
	VerifyModel(ctx context.Context) error
}

// IndexMonitorService periodically checks index health and publishes the
// assessmatch_index_records and assessmatch_index_healthy gauges.
//
// Healthy means reachable, non-empty, and built with the query model. The
// monitor never fails the tree: an unhealthy index is reported, not fatal,
// since readiness probes already take the instance out of rotation.
type IndexMonitorService struct {
	index    IndexProbe
	verifier ModelVerifier
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	healthy atomic.Bool
	records atomic.Int64
}

// NewIndexMonitorService creates the monitor. verifier may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexMonitorService(index IndexProbe, verifier ModelVerifier, interval time.Duration, logger zerolog.Logger) *IndexMonitorService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &IndexMonitorService{
		index:    index,
		verifier: verifier,
		interval: interval,
		timeout:  5 * time.Second,
		logger:   logger.With().Str("service", "index-monitor").Logger(),
	}
}

// Serve implements suture.Service. It checks once immediately, then on every tick.
func (s *IndexMonitorService) Serve(ctx context.Context) error {
	s.check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check runs one probe cycle and logs health transitions.
func (s *IndexMonitorService) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.index.Count(ctx)
	healthy := err == nil && records > 0
	var reason error = err

	if healthy && s.verifier != nil {
		if verr := s.verifier.VerifyModel(ctx); verr != nil {
			healthy = false
			reason = verr
		}
	}

	metrics.UpdateIndexGauges(records, healthy)
	s.records.Store(int64(records))

	was := s.healthy.Swap(healthy)
	switch {
	case healthy && !was:
		s.logger.Info().Int("records", records).Msg("index healthy")
	case !healthy && was:
		s.logger.Warn().Err(reason).Int("records", records).Msg("index unhealthy")
	case !healthy:
		s.logger.Debug().Err(reason).Int("records", records).Msg("index still unhealthy")
	}
}

// Healthy reports the result of the last check.
func (s *IndexMonitorService) Healthy() bool {
	return s.healthy.Load()
}

// Records reports the record count seen by the last check.
func (s *IndexMonitorService) Records() int {
	return int(s.records.Load())
}

// String implements fmt.Stringer for suture's logs.
func (s *IndexMonitorService) String() string {
	return "index-monitor"
}
