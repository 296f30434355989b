// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package reranking

import (
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// DefaultPenaltyWeight is the score deduction applied to a fully saturated candidate.
const DefaultPenaltyWeight = 0.15

// FacetPenalty implements single-pass greedy selection with a saturation penalty.
// At each step it picks the remaining candidate with the highest adjusted score:
//
//	adjusted(i) = score(i) - weight * saturation(i)
//
// Where saturation(i) is the fraction of candidate i's test-type codes already
// selected at least threshold times. Candidates without codes have zero
// saturation. Ties keep similarity order.
type FacetPenalty struct {
	weight    float64
	threshold int
}

// NewFacetPenalty creates a penalty ranker. Non-positive arguments select defaults.
func NewFacetPenalty(weight float64, threshold int) *FacetPenalty {
	if weight <= 0 {
		weight = DefaultPenaltyWeight
	}
	if threshold < 1 {
		threshold = DefaultSaturationThreshold
	}
	return &FacetPenalty{weight: weight, threshold: threshold}
}

// Name returns the ranker identifier.
func (p *FacetPenalty) Name() string {
	return "penalty"
}

// Rank greedily selects up to maxResults candidates with unique URLs.
//
//nolint:gocritic // rangeValCopy: ScoredCandidate passed by value in range, acceptable for clarity
func (p *FacetPenalty) Rank(candidates []recommend.ScoredCandidate, minResults, maxResults int) ([]recommend.ScoredCandidate, error) {
	if err := validateBounds(minResults, maxResults); err != nil {
		return nil, err
	}
	if len(candidates) > maxRerankSize {
		candidates = candidates[:maxRerankSize]
	}

	// Drop duplicate URLs up front; the first (highest ranked) occurrence wins.
	pool := make([]recommend.ScoredCandidate, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Record.URL]; dup {
			continue
		}
		seen[c.Record.URL] = struct{}{}
		pool = append(pool, c)
	}

	k := maxResults
	if k > len(pool) {
		k = len(pool)
	}

	selected := make([]recommend.ScoredCandidate, 0, k)
	taken := make([]bool, len(pool))
	counts := make(map[string]int)

	for len(selected) < k {
		bestIdx := -1
		bestScore := 0.0

		for i, c := range pool {
			if taken[i] {
				continue
			}
			adjusted := c.Score - p.weight*p.saturation(c.Record.TestType, counts)
			if bestIdx < 0 || adjusted > bestScore {
				bestScore = adjusted
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}

		taken[bestIdx] = true
		selected = append(selected, pool[bestIdx])
		for _, code := range pool[bestIdx].Record.TestType {
			counts[code]++
		}
	}

	return selected, nil
}

// saturation returns the fraction of codes at or above the threshold.
func (p *FacetPenalty) saturation(codes []string, counts map[string]int) float64 {
	if len(codes) == 0 {
		return 0
	}
	n := 0
	for _, code := range codes {
		if counts[code] >= p.threshold {
			n++
		}
	}
	return float64(n) / float64(len(codes))
}

// Ensure FacetPenalty implements the interface.
var _ recommend.Ranker = (*FacetPenalty)(nil)
