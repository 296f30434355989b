// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package database provides the vector index behind candidate retrieval.

Two Store implementations are available:

  - DB: DuckDB through database/sql. Records and vectors live in the
    assessments table (embedding FLOAT[n]); the index_meta table records the
    model id, dimension, record count, and build time of the snapshot.
  - MemoryIndex: a brute-force cosine index in process memory.

Both replace their contents atomically with ReplaceSnapshot and answer
Search with results ordered by score descending, ties by catalog order.

# Errors

Backend failures and an index with no snapshot match
recommend.ErrIndexUnavailable (ErrEmptyIndex wraps it). Cancellation of the
caller's context is returned unwrapped so the service can report a timeout.
A statement that exceeds database.query_timeout while the caller is still
waiting is reported as unavailable.

# Usage

	store, err := database.Open(&cfg.Database)
	if err != nil {
	    return err
	}
	defer store.Close()

	err = store.ReplaceSnapshot(ctx, &database.Snapshot{
	    ModelID: embedder.ModelID(), Dimension: embedder.Dimension(),
	    Records: records, Vectors: vectors,
	})
*/
package database
