// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package api

import "github.com/tomtom215/assessmatch/internal/catalog"

// RecommendRequest is the body of POST /api/recommend.
//
// Fields:
//   - Query: job description or hiring need, at least 3 characters after trimming
//   - MinResults: desired minimum list length (0 = default)
//   - MaxResults: list length cap (0 = default)
//
// Result bounds are checked by the engine so that a negative or inverted
// range is reported as INVALID_PARAMETER.
type RecommendRequest struct {
	Query      string `json:"query" validate:"mintrimmed=3,max=2000"`
	MinResults int    `json:"min_results,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// RecommendResponse is the body of a successful POST /api/recommend.
type RecommendResponse struct {
	RecommendedAssessments []catalog.Record `json:"recommended_assessments"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// CatalogStats is returned by GET /api/v1/catalog/stats.
type CatalogStats struct {
	Records    int            `json:"records"`
	ModelID    string         `json:"model_id"`
	Dimension  int            `json:"dimension"`
	BuiltAt    string         `json:"built_at,omitempty"`
	TestTypes  map[string]int `json:"test_types"`
	Ranker     string         `json:"ranker"`
	QueryModel string         `json:"query_model"`
}

// ScoredAssessment is one entry of the GET /api/v1/recommend result.
type ScoredAssessment struct {
	Assessment catalog.Record `json:"assessment"`
	Score      float64        `json:"score"`
}

// RecommendResult is the enveloped payload of GET /api/v1/recommend.
type RecommendResult struct {
	Query           string             `json:"query"`
	Results         []ScoredAssessment `json:"results"`
	TotalCandidates int                `json:"total_candidates"`
	Ranker          string             `json:"ranker"`
	ModelID         string             `json:"model_id"`
	FetchK          int                `json:"fetch_k"`
	LatencyMS       int64              `json:"latency_ms"`
}
