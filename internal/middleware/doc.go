// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency, and in-flight instrumentation
    labelled by chi route pattern
  - Compression: pooled gzip writers for clients that accept gzip
  - PerformanceMonitor: sliding-window latency percentiles per route

All components use the func(http.Handler) http.Handler shape and plug
directly into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)

Route patterns are only known after chi has matched the request, so the
metrics middlewares read the pattern after calling the next handler.

Thread Safety:

PerformanceMonitor guards its window with sync.RWMutex. The other
middlewares keep no shared mutable state beyond the gzip writer pool.
*/
package middleware
