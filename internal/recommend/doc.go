// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

// Package recommend implements the assessment recommendation pipeline.
//
// # Architecture
//
// A request flows through four stages:
//
//   - Embed: the query is normalized and embedded with the same model that
//     built the catalog index (see internal/embedding)
//   - Retrieve: the top FetchK(max) = max(3*max, 30) candidates are read from
//     the vector index, ordered by score with insertion-order tie breaks
//   - Rank: a diversity ranker (see internal/recommend/reranking) balances
//     test-type facets without padding the list
//   - Respond: records and scores are returned with request metadata
//
// # Errors
//
// Every error returned by Engine.Recommend matches exactly one of
// ErrInvalidInput, ErrInvalidParameter, ErrIndexUnavailable, ErrTimeout, or
// ErrInternal. The API layer maps these to 400, 400, 503, 504, and 500.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, embedder, index, reranking.NewFacetBalancer(2), logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.VerifyModel(ctx); errors.Is(err, recommend.ErrModelMismatch) {
//	    return err // refuse to start
//	}
//	resp, err := engine.Recommend(ctx, recommend.Request{Query: "Java developer", MaxResults: 5})
//
// # Thread Safety
//
// Engine holds only shared read-only handles and atomic counters; concurrent
// Recommend calls are independent.
package recommend
