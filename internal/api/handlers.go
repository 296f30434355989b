// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/config"
	"github.com/tomtom215/assessmatch/internal/middleware"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// Recommender is the slice of *recommend.Engine the handlers use.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	VerifyModel(ctx context.Context) error
	GetMetrics() recommend.Metrics
	RankerName() string
	ModelID() string
}

// CatalogIndex is the read side of the vector store.
type CatalogIndex interface {
	Meta(ctx context.Context) (recommend.IndexMeta, error)
	Count(ctx context.Context) (int, error)
	Records(ctx context.Context) ([]catalog.Record, error)
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: request decoding and validation helpers
//   - handlers_health.go: health and readiness probes
//   - handlers_recommend.go: recommendation endpoints
//   - handlers_catalog.go: catalog and engine statistics
type Handler struct {
	engine    Recommender
	index     CatalogIndex
	config    *config.Config
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(engine, store, cfg, version)
//	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(engine Recommender, index CatalogIndex, cfg *config.Config, version string) *Handler {
	return &Handler{
		engine:    engine,
		index:     index,
		config:    cfg,
		perfMon:   middleware.NewPerformanceMonitor(1000, 2*time.Second),
		version:   version,
		startTime: time.Now(),
	}
}

// PerformanceMonitor returns the monitor wired into the router.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
