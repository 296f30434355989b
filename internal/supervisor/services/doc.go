// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package services provides suture.Service wrappers for AssessMatch components.

Each wrapper implements suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Runs *http.Server with graceful shutdown on context cancellation
  - http.ErrServerClosed is treated as a clean exit

Index Monitor (IndexMonitorService):
  - Polls the vector store record count and verifies the index model
  - Publishes assessmatch_index_records and assessmatch_index_healthy
  - Logs health transitions; never fails the tree

Model Warmup (ModelWarmupService):
  - Loads the lazily initialized query model once after startup
  - Exits with suture.ErrDoNotRestart on success, retries with backoff on failure

# Usage

	tree.AddIndexService(services.NewIndexMonitorService(store, engine, 30*time.Second, logger))
	tree.AddModelService(services.NewModelWarmupService(embedder, 2*time.Minute, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, logger))
*/
package services
