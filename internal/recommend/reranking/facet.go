// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package reranking

import (
	"fmt"

	"github.com/tomtom215/assessmatch/internal/metrics"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// maxRerankSize limits slice allocations to prevent excessive memory usage.
// The engine already bounds candidates by FetchK; this caps direct callers.
const maxRerankSize = 10000

// DefaultSaturationThreshold is the per-code selection count at which a
// test type is considered saturated.
const DefaultSaturationThreshold = 2

// FacetBalancer implements two-pass greedy facet balancing over test types.
//
// Pass 1 walks candidates in similarity order. A candidate whose codes are all
// saturated is deferred when some later candidate is still under-represented
// (it has no codes, or any code below the threshold). Pass 2 appends deferred
// candidates in their original order until the list is full.
//
// The list is never padded: when fewer than minResults candidates exist, all
// of them are returned.
type FacetBalancer struct {
	threshold int
}

// NewFacetBalancer creates a balancer. A threshold below 1 selects
// DefaultSaturationThreshold.
func NewFacetBalancer(threshold int) *FacetBalancer {
	if threshold < 1 {
		threshold = DefaultSaturationThreshold
	}
	return &FacetBalancer{threshold: threshold}
}

// Name returns the ranker identifier.
func (b *FacetBalancer) Name() string {
	return "balanced"
}

// Threshold returns the saturation threshold in use.
func (b *FacetBalancer) Threshold() int {
	return b.threshold
}

// Rank orders candidates into at most maxResults entries with unique URLs.
//
//nolint:gocritic // rangeValCopy: ScoredCandidate passed by value in range, acceptable for clarity
func (b *FacetBalancer) Rank(candidates []recommend.ScoredCandidate, minResults, maxResults int) ([]recommend.ScoredCandidate, error) {
	if err := validateBounds(minResults, maxResults); err != nil {
		return nil, err
	}
	if len(candidates) > maxRerankSize {
		candidates = candidates[:maxRerankSize]
	}
	limit := maxResults
	if limit > len(candidates) {
		limit = len(candidates)
	}

	selected := make([]recommend.ScoredCandidate, 0, limit)
	counts := make(map[string]int)
	seen := make(map[string]struct{}, len(candidates))
	var deferred []int

	for i, c := range candidates {
		if len(selected) == maxResults {
			break
		}
		if _, dup := seen[c.Record.URL]; dup {
			continue
		}
		seen[c.Record.URL] = struct{}{}

		if b.saturated(c.Record.TestType, counts) && b.laterUnderRepresented(candidates[i+1:], counts, seen) {
			deferred = append(deferred, i)
			continue
		}

		selected = append(selected, c)
		for _, code := range c.Record.TestType {
			counts[code]++
		}
	}

	used := 0
	for _, i := range deferred {
		if len(selected) == maxResults {
			break
		}
		selected = append(selected, candidates[i])
		used++
	}
	if used > 0 {
		metrics.RecommendDeferred.Add(float64(used))
	}

	return selected, nil
}

// saturated reports whether codes is non-empty and every code has reached
// the threshold. Records without codes are never saturated.
func (b *FacetBalancer) saturated(codes []string, counts map[string]int) bool {
	if len(codes) == 0 {
		return false
	}
	for _, code := range codes {
		if counts[code] < b.threshold {
			return false
		}
	}
	return true
}

// laterUnderRepresented reports whether any unseen candidate in rest would not
// be saturated under the current counts.
//
//nolint:gocritic // rangeValCopy: ScoredCandidate passed by value in range, acceptable for clarity
func (b *FacetBalancer) laterUnderRepresented(rest []recommend.ScoredCandidate, counts map[string]int, seen map[string]struct{}) bool {
	for _, c := range rest {
		if _, dup := seen[c.Record.URL]; dup {
			continue
		}
		if !b.saturated(c.Record.TestType, counts) {
			return true
		}
	}
	return false
}

// validateBounds rejects negative bounds and min > max.
func validateBounds(minResults, maxResults int) error {
	if minResults < 0 || maxResults < 0 {
		return fmt.Errorf("%w: result bounds must be non-negative, got min=%d max=%d",
			recommend.ErrInvalidParameter, minResults, maxResults)
	}
	if minResults > maxResults {
		return fmt.Errorf("%w: min_results (%d) exceeds max_results (%d)",
			recommend.ErrInvalidParameter, minResults, maxResults)
	}
	return nil
}

// Ensure FacetBalancer implements the interface.
var _ recommend.Ranker = (*FacetBalancer)(nil)
