// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/tomtom215/assessmatch/internal/metrics"
)

// GeminiOptions configures the remote Gemini embedding model.
type GeminiOptions struct {
	APIKey   string
	Project  string
	Location string
	Model    string

	// ModelID is the identifier stored with the index. Defaults to "gemini/" + Model.
	ModelID   string
	Dimension int

	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration

	Logger zerolog.Logger
}

// embedFunc performs one remote embedding call.
type embedFunc func(ctx context.Context, text string) ([]float32, error)

// GeminiModel calls the Gemini embedding API behind a rate limiter and a
// circuit breaker. An open circuit fails fast without touching the network.
type GeminiModel struct {
	id      string
	dim     int
	timeout time.Duration
	call    embedFunc
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]float32]
	name    string
	logger  zerolog.Logger
}

// NewGeminiModel creates a Gemini client. API-key auth selects the Gemini
// API backend; otherwise Vertex AI with Project and Location.
func NewGeminiModel(ctx context.Context, opts GeminiOptions) (*GeminiModel, error) {
	cc := &genai.ClientConfig{APIKey: opts.APIKey, Backend: genai.BackendGeminiAPI}
	if opts.APIKey == "" {
		if opts.Project == "" {
			return nil, errors.New("gemini: api key or project is required")
		}
		cc = &genai.ClientConfig{Project: opts.Project, Location: opts.Location, Backend: genai.BackendVertexAI}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	dim := int32(opts.Dimension) //nolint:gosec // dimension validated by config
	model := opts.Model
	call := func(ctx context.Context, text string) ([]float32, error) {
		resp, err := client.Models.EmbedContent(ctx, model, genai.Text(text), &genai.EmbedContentConfig{
			TaskType:             "RETRIEVAL_QUERY",
			OutputDimensionality: &dim,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini: embed content: %w", err)
		}
		if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
			return nil, errors.New("gemini: empty embedding response")
		}
		return resp.Embeddings[0].Values, nil
	}

	return newGeminiModel(opts, call)
}

// newGeminiModel wires the limiter and breaker around call.
func newGeminiModel(opts GeminiOptions, call embedFunc) (*GeminiModel, error) {
	if opts.Model == "" {
		return nil, errors.New("gemini: model is required")
	}
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("gemini: dimension must be positive, got %d", opts.Dimension)
	}
	id := opts.ModelID
	if id == "" {
		id = "gemini/" + opts.Model
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	g := &GeminiModel{
		id:      id,
		dim:     opts.Dimension,
		timeout: opts.Timeout,
		call:    call,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    "gemini-embed",
		logger:  opts.Logger.With().Str("component", "gemini").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(g.name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)

	g.cb = gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:        g.name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return g, nil
}

// ModelID returns the identifier stored with the index.
func (g *GeminiModel) ModelID() string { return g.id }

// Dimension returns the requested output dimensionality.
func (g *GeminiModel) Dimension() int { return g.dim }

// Provider returns "gemini".
func (g *GeminiModel) Provider() string { return "gemini" }

// Embed waits for a rate-limit token, then calls the API through the breaker.
func (g *GeminiModel) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gemini: rate limit wait: %w", err)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	vec, err := g.cb.Execute(func() ([]float32, error) {
		return g.call(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(g.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)

	if len(vec) != g.dim {
		return nil, fmt.Errorf("gemini: got %d dimensions, want %d", len(vec), g.dim)
	}
	out := cloneVector(vec)
	l2Normalize(out)
	return out, nil
}

// State returns the circuit breaker state name.
func (g *GeminiModel) State() string {
	return stateToString(g.cb.State())
}

// Close is a no-op; the genai client holds no closable resources.
func (g *GeminiModel) Close() error { return nil }

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var _ Model = (*GeminiModel)(nil)
