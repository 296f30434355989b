// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashModel is a deterministic bag-of-words embedder using the hashing trick.
// It needs no model files and is used for tests, local development, and
// offline catalog builds. Vectors are L2-normalized, so cosine similarity
// reflects shared terms.
type HashModel struct {
	id  string
	dim int
}

// NewHashModel creates a hashing embedder. The model id encodes the
// dimension so indexes built with different sizes never match.
func NewHashModel(dim int) (*HashModel, error) {
	if dim < 8 {
		return nil, fmt.Errorf("hash model dimension must be >= 8, got %d", dim)
	}
	return &HashModel{id: fmt.Sprintf("hash-bow-%d", dim), dim: dim}, nil
}

// ModelID returns the model identifier.
func (h *HashModel) ModelID() string { return h.id }

// Dimension returns the vector length.
func (h *HashModel) Dimension() int { return h.dim }

// Provider returns "hash".
func (h *HashModel) Provider() string { return "hash" }

// Embed hashes unigrams and bigrams of text into a fixed-size vector.
func (h *HashModel) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	vec := make([]float32, h.dim)
	for i, tok := range tokens {
		h.add(vec, tok, 1)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}
	l2Normalize(vec)
	return vec, nil
}

// add accumulates weight into the bucket for term. The sign comes from a
// second hash bit to keep collisions unbiased.
func (h *HashModel) add(vec []float32, term string, weight float32) {
	f := fnv.New64a()
	_, _ = f.Write([]byte(term))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dim))
	if (sum>>63)&1 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Close is a no-op.
func (h *HashModel) Close() error { return nil }

var _ Model = (*HashModel)(nil)
