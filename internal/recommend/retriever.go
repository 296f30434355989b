// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// Retriever fetches the top-k most similar catalog records for a query vector.
// It is read-only and safe for concurrent use.
type Retriever struct {
	index Index
}

// NewRetriever creates a retriever over index.
func NewRetriever(index Index) *Retriever {
	return &Retriever{index: index}
}

// Retrieve returns up to k candidates ordered by score descending, ties broken
// by catalog insertion order. An unreachable or empty index yields an error
// matching ErrIndexUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, vec []float32, k int) ([]ScoredCandidate, error) {
	if r == nil || r.index == nil {
		return nil, fmt.Errorf("%w: no index configured", ErrIndexUnavailable)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidParameter, k)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("retrieve: empty query vector")
	}

	hits, err := r.index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: index holds no records", ErrIndexUnavailable)
	}

	SortCandidates(hits)
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// SortCandidates orders candidates by score descending, then Record.Seq ascending.
func SortCandidates(c []ScoredCandidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		return c[i].Record.Seq < c[j].Record.Seq
	})
}
