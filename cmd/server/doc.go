// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package main is the entry point for the AssessMatch server.

AssessMatch recommends assessments from a product catalog for a free-text
job description. A query is embedded, the nearest catalog entries are
retrieved from the vector index, and a diversity ranker balances the list
across test types.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("assessmatch")
	├── IndexSupervisor ("index-layer")
	│   └── Index Monitor (record gauge, model check)
	├── ModelSupervisor ("model-layer")
	│   └── Model Warmup (loads the query model once)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Index: DuckDB file, or an in-memory index seeded from catalog.path
 4. Query embedder: ONNX, Gemini, or hash provider, loaded lazily
 5. Engine: retriever plus balanced or penalty ranker
 6. Model check: a model id mismatch between index and embedder stops startup
 7. Supervisor tree and HTTP server

# Configuration

	HTTP_PORT=8000               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	INDEX_BACKEND=duckdb         # duckdb or memory
	DUCKDB_PATH=data/assessmatch.duckdb
	CATALOG_PATH=data/assessments.csv
	EMBEDDING_PROVIDER=onnx      # onnx, gemini, or hash
	EMBEDDING_MODEL_ID=sentence-transformers/all-MiniLM-L6-v2
	RECOMMEND_RANKER=balanced    # balanced or penalty

A DuckDB index is built offline with:

	assessctl build-embeddings --catalog data/assessments.csv

# Graceful Shutdown

SIGINT or SIGTERM cancels the root context. The HTTP server drains in-flight
requests within server.shutdown_timeout, then services that failed to stop
are reported.
*/
package main
