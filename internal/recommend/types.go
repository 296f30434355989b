// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/assessmatch/internal/catalog"
)

// ScoredCandidate is a catalog record paired with its similarity to the query.
type ScoredCandidate struct {
	// Record is the catalog entry. Record.Seq breaks score ties.
	Record catalog.Record `json:"record"`

	// Score is the cosine similarity in [-1, 1]; higher is more similar.
	Score float64 `json:"score"`
}

// Codes returns the candidate's test-type codes.
func (c *ScoredCandidate) Codes() []string {
	return c.Record.TestType
}

// Request represents a recommendation request.
type Request struct {
	// Query is the free-text hiring need or job description.
	Query string `json:"query"`

	// MinResults is the minimum desired list length. Zero selects the default.
	// The list is never padded; fewer results are returned when fewer exist.
	MinResults int `json:"min_results,omitempty"`

	// MaxResults caps the list length. Zero selects the default.
	MaxResults int `json:"max_results,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the outcome of a successful recommendation.
type Response struct {
	// Items is the ranked recommendation list. Never nil.
	Items []catalog.Record `json:"items"`

	// Scores holds the similarity score for each entry in Items.
	Scores []float64 `json:"scores"`

	// TotalCandidates is the number of candidates retrieved before ranking.
	TotalCandidates int `json:"total_candidates"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`

	// Ranker is the diversity ranker that ordered the list.
	Ranker string `json:"ranker"`

	// ModelID is the embedding model used for the query.
	ModelID string `json:"model_id"`

	// FetchK is the number of candidates requested from the index.
	FetchK int `json:"fetch_k"`

	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// IndexMeta describes the embedding snapshot an index was built from.
type IndexMeta struct {
	ModelID   string    `json:"model_id"`
	Dimension int       `json:"dimension"`
	Records   int       `json:"records"`
	BuiltAt   time.Time `json:"built_at"`
}

// Embedder turns query text into a vector. Implementations return an error
// matching ErrInvalidInput for empty or whitespace-only text.
type Embedder interface {
	// ModelID identifies the model; it must equal the index metadata.
	ModelID() string

	// Dimension is the vector length the model produces.
	Dimension() int

	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is a read-only nearest-neighbour view over the embedded catalog.
// This is typically implemented by the database layer.
type Index interface {
	// Search returns up to k candidates ordered by score descending, ties by
	// Record.Seq ascending. Backend failures and an empty index match
	// ErrIndexUnavailable.
	Search(ctx context.Context, vec []float32, k int) ([]ScoredCandidate, error)

	// Meta returns the model metadata stored alongside the vectors.
	Meta(ctx context.Context) (IndexMeta, error)
}

// Ranker orders similarity-ranked candidates into the final list.
type Ranker interface {
	// Name returns the ranker identifier (e.g., "balanced", "penalty").
	Name() string

	// Rank returns at most maxResults candidates with no duplicate URLs.
	// Negative bounds or minResults > maxResults match ErrInvalidParameter.
	Rank(candidates []ScoredCandidate, minResults, maxResults int) ([]ScoredCandidate, error)
}

// Metrics contains engine counters for observability.
type Metrics struct {
	RequestCount int64 `json:"request_count"`
	ErrorCount   int64 `json:"error_count"`
	TimeoutCount int64 `json:"timeout_count"`

	// AverageLatencyMS is the mean latency of successful requests.
	AverageLatencyMS float64 `json:"average_latency_ms"`
}
