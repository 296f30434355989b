// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package api

import (
	"context"
	"net/http"
	"time"
)

// readinessTimeout bounds the index probes behind /api/v1/health/ready.
const readinessTimeout = 3 * time.Second

// Health handles GET /health.
//
// @Summary Basic health check
// @Description Returns {"status":"healthy"} while the process serves requests.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Raw(http.StatusOK, HealthResponse{Status: "healthy"})
}

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":   true,
		"version": h.version,
		"uptime":  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Ready means the index is reachable, non-empty, and built with the query model.
//
// @Summary Readiness probe
// @Description Returns 200 only when the index holds records embedded with the configured model. Returns 503 otherwise.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse "Service is ready"
// @Failure 503 {object} APIResponse "Service is not ready"
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{
		"index": "ok",
		"model": "ok",
	}
	ready := true

	records, err := h.index.Count(ctx)
	switch {
	case err != nil:
		checks["index"] = "unreachable"
		ready = false
	case records == 0:
		checks["index"] = "empty"
		ready = false
	}

	if ready {
		if err := h.engine.VerifyModel(ctx); err != nil {
			checks["model"] = sanitizeLogValue(err.Error())
			ready = false
		}
	}

	data := map[string]interface{}{
		"ready":    ready,
		"records":  records,
		"model_id": h.engine.ModelID(),
		"checks":   checks,
	}

	rw := NewResponseWriter(w, r)
	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service is not ready", data)
		return
	}
	rw.Success(data)
}
