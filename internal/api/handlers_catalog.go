// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// CatalogStats handles GET /api/v1/catalog/stats.
//
// @Summary Index statistics
// @Description Record count, model metadata, and the test-type histogram of the indexed catalog.
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse{data=CatalogStats}
// @Failure 503 {object} APIResponse "Index unavailable"
// @Router /api/v1/catalog/stats [get]
func (h *Handler) CatalogStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meta, err := h.index.Meta(ctx)
	if err != nil {
		// A reachable but empty index reports zeros.
		if !errors.Is(err, recommend.ErrIndexUnavailable) || h.index.Ping(ctx) != nil {
			respondRecommendError(w, r, err)
			return
		}
	}

	records, err := h.index.Records(ctx)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}

	stats := CatalogStats{
		Records:    len(records),
		ModelID:    meta.ModelID,
		Dimension:  meta.Dimension,
		TestTypes:  catalog.Histogram(records),
		Ranker:     h.engine.RankerName(),
		QueryModel: h.engine.ModelID(),
	}
	if !meta.BuiltAt.IsZero() {
		stats.BuiltAt = meta.BuiltAt.UTC().Format(time.RFC3339)
	}

	WriteSuccess(w, r, stats)
}

// TestTypes handles GET /api/v1/catalog/test-types.
//
// @Summary Test-type codes
// @Description Maps each single-letter test-type code to its description.
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/v1/catalog/test-types [get]
func (h *Handler) TestTypes(w http.ResponseWriter, r *http.Request) {
	codes := catalog.Codes()
	out := make(map[string]string, len(codes))
	for _, code := range codes {
		out[code] = catalog.Describe(code)
	}
	WriteSuccess(w, r, out)
}

// EngineStats handles GET /api/v1/stats.
//
// @Summary Engine and HTTP statistics
// @Description Recommendation counters and per-route latency percentiles since startup.
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/v1/stats [get]
func (h *Handler) EngineStats(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"engine":    h.engine.GetMetrics(),
		"endpoints": h.perfMon.GetStats(),
		"uptime":    time.Since(h.startTime).Seconds(),
	})
}
