// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/metrics"
)

// Engine runs the query -> embed -> retrieve -> rank pipeline.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	embedder  Embedder
	index     Index
	retriever *Retriever
	ranker    Ranker

	requestCount   atomic.Int64
	errorCount     atomic.Int64
	timeoutCount   atomic.Int64
	successCount   atomic.Int64
	latencyTotalMS atomic.Int64
}

// NewEngine creates a recommendation engine. The embedder, index, and ranker
// are shared handles initialized by the caller.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, embedder Embedder, index Index, ranker Ranker, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if index == nil {
		return nil, errors.New("index is required")
	}
	if ranker == nil {
		return nil, errors.New("ranker is required")
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		embedder:  embedder,
		index:     index,
		retriever: NewRetriever(index),
		ranker:    ranker,
	}, nil
}

// pipelineResult carries the pipeline outcome back to Recommend.
type pipelineResult struct {
	resp *Response
	err  error
}

// Recommend returns a ranked, diversity-balanced list for req.Query.
//
// The returned error, when non-nil, matches exactly one of ErrInvalidInput,
// ErrInvalidParameter, ErrIndexUnavailable, ErrTimeout, or ErrInternal.
// No partial list is ever returned alongside an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req, err := e.prepareRequest(req)
	if err != nil {
		e.finish(start, 0, err)
		return nil, err
	}
	logger := e.logger.With().Str("request_id", req.RequestID).Logger()

	if e.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.RequestTimeout)
		defer cancel()
	}

	// The pipeline runs on its own goroutine so the deadline is honoured even
	// when a component blocks without observing ctx.
	done := make(chan pipelineResult, 1)
	go func() {
		resp, err := e.run(ctx, req, start)
		done <- pipelineResult{resp: resp, err: err}
	}()

	var res pipelineResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = pipelineResult{err: ctx.Err()}
	}

	if res.err != nil {
		err := e.translate(ctx, res.err)
		e.logFailure(logger, err)
		e.finish(start, 0, err)
		return nil, err
	}

	res.resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	e.finish(start, len(res.resp.Items), nil)

	logger.Debug().
		Int("candidates", res.resp.TotalCandidates).
		Int("returned", len(res.resp.Items)).
		Int64("latency_ms", res.resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return res.resp, nil
}

// prepareRequest applies defaults, validates bounds, and assigns a request ID.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.MinResults < 0 || req.MaxResults < 0 {
		return req, fmt.Errorf("%w: result bounds must be non-negative, got min=%d max=%d",
			ErrInvalidParameter, req.MinResults, req.MaxResults)
	}
	if req.MinResults == 0 {
		req.MinResults = e.config.DefaultMinResults
	}
	if req.MaxResults == 0 {
		req.MaxResults = e.config.DefaultMaxResults
	}
	if req.MinResults > req.MaxResults {
		return req, fmt.Errorf("%w: min_results (%d) exceeds max_results (%d)",
			ErrInvalidParameter, req.MinResults, req.MaxResults)
	}
	if req.MaxResults > e.config.MaxResultsLimit {
		return req, fmt.Errorf("%w: max_results (%d) exceeds limit (%d)",
			ErrInvalidParameter, req.MaxResults, e.config.MaxResultsLimit)
	}
	return req, nil
}

// run executes the pipeline stages in order.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) run(ctx context.Context, req Request, start time.Time) (*Response, error) {
	vec, err := e.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, classify("embed query", err)
	}

	k := e.config.FetchK(req.MaxResults)
	candidates, err := e.retriever.Retrieve(ctx, vec, k)
	if err != nil {
		return nil, classify("retrieve candidates", err)
	}

	ranked, err := e.ranker.Rank(candidates, req.MinResults, req.MaxResults)
	if err != nil {
		return nil, classify("rank candidates", err)
	}

	items := make([]catalog.Record, len(ranked))
	scores := make([]float64, len(ranked))
	for i := range ranked {
		items[i] = ranked[i].Record
		scores[i] = ranked[i].Score
	}

	return &Response{
		Items:           items,
		Scores:          scores,
		TotalCandidates: len(candidates),
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			Ranker:    e.ranker.Name(),
			ModelID:   e.embedder.ModelID(),
			FetchK:    k,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}, nil
}

// translate converts a pipeline error into a public error kind. Only the
// request deadline maps to ErrTimeout; a stage's own deadline (an upstream
// embedding call, say) is an internal failure.
func (e *Engine) translate(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v", ErrTimeout, e.config.RequestTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return &InternalError{Op: "request canceled", Err: err}
	}
	return classify("recommend", err)
}

func (e *Engine) logFailure(logger zerolog.Logger, err error) { //nolint:gocritic // logger passed by value is acceptable for zerolog
	switch {
	case IsClientError(err):
		logger.Debug().Err(err).Msg("recommendation rejected")
	case errors.Is(err, ErrIndexUnavailable):
		logger.Warn().Err(err).Msg("index unavailable")
	case errors.Is(err, ErrTimeout):
		logger.Warn().Err(err).Msg("recommendation timed out")
	default:
		var ie *InternalError
		if errors.As(err, &ie) {
			logger.Error().Err(ie.Cause()).Str("op", ie.Op).Msg("recommendation failed")
			return
		}
		logger.Error().Err(err).Msg("recommendation failed")
	}
}

// finish updates counters and Prometheus metrics for one call.
func (e *Engine) finish(start time.Time, results int, err error) {
	elapsed := time.Since(start)
	outcome := Outcome(err)
	metrics.RecordRecommendation(outcome, elapsed, results)

	switch outcome {
	case metrics.OutcomeOK:
		e.successCount.Add(1)
		e.latencyTotalMS.Add(elapsed.Milliseconds())
	case metrics.OutcomeTimeout:
		e.timeoutCount.Add(1)
		e.errorCount.Add(1)
	default:
		e.errorCount.Add(1)
	}
}

// Outcome returns the metric outcome label for err.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidInput):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, ErrInvalidParameter):
		return metrics.OutcomeInvalidParameter
	case errors.Is(err, ErrIndexUnavailable):
		return metrics.OutcomeIndexUnavailable
	case errors.Is(err, ErrTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeInternal
	}
}

// VerifyModel checks that the index was built with the embedder's model and
// dimension. A mismatch returns ErrModelMismatch and must stop startup.
func (e *Engine) VerifyModel(ctx context.Context) error {
	meta, err := e.index.Meta(ctx)
	if err != nil {
		return fmt.Errorf("read index metadata: %w", err)
	}
	if meta.ModelID != e.embedder.ModelID() || meta.Dimension != e.embedder.Dimension() {
		return fmt.Errorf("%w: index built with %q (dim %d), query embedder is %q (dim %d)",
			ErrModelMismatch, meta.ModelID, meta.Dimension, e.embedder.ModelID(), e.embedder.Dimension())
	}
	e.logger.Info().
		Str("model_id", meta.ModelID).
		Int("dimension", meta.Dimension).
		Int("records", meta.Records).
		Msg("index model verified")
	return nil
}

// GetMetrics returns a snapshot of engine counters.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount: e.requestCount.Load(),
		ErrorCount:   e.errorCount.Load(),
		TimeoutCount: e.timeoutCount.Load(),
	}
	if n := e.successCount.Load(); n > 0 {
		m.AverageLatencyMS = float64(e.latencyTotalMS.Load()) / float64(n)
	}
	return m
}

// GetConfig returns the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config
}

// RankerName returns the configured ranker's identifier.
func (e *Engine) RankerName() string {
	return e.ranker.Name()
}

// ModelID returns the query embedder's model identifier.
func (e *Engine) ModelID() string {
	return e.embedder.ModelID()
}
