// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the API router at /metrics:

	curl http://localhost:8000/metrics

# Available Metrics

Recommendation:
  - recommend_requests_total: Calls by outcome (counter)
    Labels: outcome (ok, invalid_input, invalid_parameter, index_unavailable, timeout, internal)
  - recommend_duration_seconds: End-to-end latency (histogram)
  - recommend_result_size: Records returned per successful call (histogram)
  - recommend_deferred_candidates_total: Candidates moved to the second ranking pass (counter)

Embedding:
  - embedding_duration_seconds: Per-text model latency (histogram)
    Labels: provider (onnx, gemini, hash)
  - embedding_errors_total: Failed computations (counter)
  - embedding_pool_waiting: Jobs queued for a worker slot (gauge)
  - cache_hits_total / cache_misses_total / cache_entries
    Labels: cache (memory, badger)

Index:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
    Labels: operation, table
  - index_records: Records in the current snapshot (gauge)
  - index_healthy: 1 when reachable, non-empty, and model-compatible (gauge)

HTTP:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

Circuit Breaker:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total, circuit_breaker_state_transitions_total

# Thread Safety

All metric operations are safe for concurrent use.
*/
package metrics
