// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"errors"
	"math"

	"github.com/tomtom215/assessmatch/internal/recommend"
)

// ErrInvalidInput is returned for empty or whitespace-only text.
// It is the same sentinel the recommendation engine checks.
var ErrInvalidInput = recommend.ErrInvalidInput

// ErrClosed is returned by models and pools used after Close.
var ErrClosed = errors.New("embedding model closed")

// Model computes embeddings for already-normalized text.
type Model interface {
	// ModelID identifies the model; it is stored in the index metadata.
	ModelID() string

	// Dimension is the length of every vector the model returns.
	Dimension() int

	// Provider names the backend for metrics ("onnx", "gemini", "hash").
	Provider() string

	Embed(ctx context.Context, text string) ([]float32, error)

	Close() error
}

// l2Normalize scales vec to unit length in place. Zero vectors are left as is.
func l2Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
