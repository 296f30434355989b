// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package api provides the HTTP interface of the recommendation service.

Key Components:

  - Router: chi route table and middleware stack
  - Handler: request handlers over a Recommender and a CatalogIndex
  - ResponseWriter: standardized JSON envelope with request ID and timing
  - Error mapping: recommendation error kinds to HTTP status codes

Endpoints:

	POST /api/recommend             recommendations, raw {"recommended_assessments": [...]}
	GET  /api/v1/recommend?q=       recommendations with scores, enveloped
	GET  /health                    raw {"status": "healthy"}
	GET  /api/v1/health/live        liveness
	GET  /api/v1/health/ready       index reachable, non-empty, model verified
	GET  /api/v1/catalog/stats      record count, model metadata, test-type histogram
	GET  /api/v1/catalog/test-types code to description map
	GET  /api/v1/stats              engine counters and per-route latency
	GET  /metrics                   Prometheus
	GET  /swagger/*                 OpenAPI UI

Error Mapping:

	INVALID_INPUT, INVALID_PARAMETER, VALIDATION_FAILED  400
	INDEX_UNAVAILABLE                                    503
	TIMEOUT                                              504
	INTERNAL_ERROR                                       500

Error bodies always use the envelope:

	{"success": false, "error": {"code": "...", "message": "...", "request_id": "..."}}

Internal error causes are logged with the request ID and never returned to
the client.

Usage Example:

	engine, _ := recommend.NewEngine(recCfg, embedder, store, ranker, logger)
	handler := api.NewHandler(engine, store, cfg, version)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	srv := &http.Server{Addr: ":8000", Handler: router.SetupChi()}

Thread Safety:

Handlers hold no per-request state. The engine and store are shared and
safe for concurrent use.

@title AssessMatch API
@version 1.0
@description Recommends assessments from a product catalog for a free-text hiring need.
@license.name AGPL-3.0-or-later
@BasePath /
*/
package api
