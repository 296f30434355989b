// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package reranking

import (
	"fmt"

	"github.com/tomtom215/assessmatch/internal/recommend"
)

// Ranker names accepted by recommend.ranker.
const (
	NameBalanced = "balanced"
	NamePenalty  = "penalty"
)

// New returns the ranker registered under name. An empty name selects the
// balanced ranker. weight is used by the penalty ranker only.
func New(name string, threshold int, weight float64) (recommend.Ranker, error) {
	switch name {
	case NameBalanced, "":
		return NewFacetBalancer(threshold), nil
	case NamePenalty:
		return NewFacetPenalty(weight, threshold), nil
	default:
		return nil, fmt.Errorf("unknown ranker %q", name)
	}
}
