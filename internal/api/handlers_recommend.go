// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// Recommend handles POST /api/recommend.
//
// @Summary Recommend assessments for a hiring need
// @Description Embeds the query, retrieves similar catalog entries, and returns a test-type balanced list. The body is not wrapped in the standard envelope.
// @Tags Recommend
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Query and optional result bounds"
// @Success 200 {object} RecommendResponse "Ranked recommendations"
// @Failure 400 {object} APIResponse "Invalid input or parameters"
// @Failure 503 {object} APIResponse "Index unavailable"
// @Failure 504 {object} APIResponse "Request timed out"
// @Failure 500 {object} APIResponse "Internal error"
// @Router /api/recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
			return
		}
		NewResponseWriter(w, r).BadRequest("Invalid JSON request body")
		return
	}

	// A blank query is the engine's INVALID_INPUT, not a validation failure.
	if strings.TrimSpace(req.Query) != "" {
		if apiErr := validateRequest(&req); apiErr != nil {
			NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
			return
		}
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		Query:      req.Query,
		MinResults: req.MinResults,
		MaxResults: req.MaxResults,
		RequestID:  logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Raw(http.StatusOK, RecommendResponse{
		RecommendedAssessments: resp.Items,
	})
}

// RecommendQuery handles GET /api/v1/recommend.
//
// @Summary Recommend assessments (query string form)
// @Description Same pipeline as POST /api/recommend, with scores and diagnostics in the standard envelope.
// @Tags Recommend
// @Produce json
// @Param q query string true "Job description or hiring need"
// @Param max query int false "Maximum results (default 10)"
// @Param min query int false "Minimum results (default 1)"
// @Success 200 {object} APIResponse{data=RecommendResult} "Ranked recommendations"
// @Failure 400 {object} APIResponse "Invalid input or parameters"
// @Failure 503 {object} APIResponse "Index unavailable"
// @Failure 504 {object} APIResponse "Request timed out"
// @Router /api/v1/recommend [get]
func (h *Handler) RecommendQuery(w http.ResponseWriter, r *http.Request) {
	maxResults, err := intParam(r, "max", 0)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, err.Error())
		return
	}
	minResults, err := intParam(r, "min", 0)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, err.Error())
		return
	}

	query := r.URL.Query().Get("q")
	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		Query:      query,
		MinResults: minResults,
		MaxResults: maxResults,
		RequestID:  logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}

	results := make([]ScoredAssessment, len(resp.Items))
	for i := range resp.Items {
		results[i] = ScoredAssessment{Assessment: resp.Items[i], Score: resp.Scores[i]}
	}

	WriteSuccess(w, r, RecommendResult{
		Query:           strings.TrimSpace(query),
		Results:         results,
		TotalCandidates: resp.TotalCandidates,
		Ranker:          resp.Metadata.Ranker,
		ModelID:         resp.Metadata.ModelID,
		FetchK:          resp.Metadata.FetchK,
		LatencyMS:       resp.Metadata.LatencyMS,
	})
}
