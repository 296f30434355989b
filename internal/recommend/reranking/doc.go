// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

// Package reranking implements diversity rankers over similarity-ordered candidates.
//
// Rankers turn the retriever's candidate list into the final recommendation
// list. They trade a little relevance for coverage of assessment test types
// so a query about one skill does not return a list made entirely of
// knowledge tests.
//
//	Retriever -> candidates (by similarity) -> Ranker -> final list
//
// # Available Rankers
//
// FacetBalancer ("balanced", default):
//   - Two-pass greedy selection
//   - Defers candidates whose test types are all saturated while a later
//     candidate is under-represented
//   - Deferred candidates fill remaining slots in similarity order
//
// FacetPenalty ("penalty"):
//   - Single-pass greedy selection
//   - Subtracts weight * saturation from each candidate's score
//
// Both rankers never pad the list, never return a URL twice, and never
// penalize records without test types.
//
// # Interface
//
// All rankers implement recommend.Ranker:
//
//	type Ranker interface {
//	    Name() string
//	    Rank(candidates []ScoredCandidate, minResults, maxResults int) ([]ScoredCandidate, error)
//	}
//
// # Example
//
// With threshold 2, candidates K1 K2 K3 K4 P5 (K = knowledge test,
// P = personality) and maxResults 3, FacetBalancer returns K1 K2 P5.
//
// # Thread Safety
//
// Rankers hold only immutable settings and are safe for concurrent use.
package reranking
