// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// MemoryIndex is a brute-force cosine index held in process memory. It backs
// the memory backend and tests that do not need DuckDB.
type MemoryIndex struct {
	mu      sync.RWMutex
	meta    recommend.IndexMeta
	records []catalog.Record
	vectors [][]float32
	norms   []float64
}

// NewMemoryIndex constructs an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// ReplaceSnapshot swaps the stored snapshot atomically.
func (m *MemoryIndex) ReplaceSnapshot(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([]catalog.Record, len(snap.Records))
	vectors := make([][]float32, len(snap.Vectors))
	norms := make([]float64, len(snap.Vectors))
	for i := range snap.Records {
		records[i] = snap.Records[i]
		records[i].Seq = i
		vectors[i] = append([]float32(nil), snap.Vectors[i]...)
		norms[i] = norm(vectors[i])
	}

	builtAt := snap.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
	m.vectors = vectors
	m.norms = norms
	m.meta = recommend.IndexMeta{
		ModelID:   snap.ModelID,
		Dimension: snap.Dimension,
		Records:   len(records),
		BuiltAt:   builtAt.UTC(),
	}
	return nil
}

// Meta returns the current snapshot metadata, or ErrEmptyIndex.
func (m *MemoryIndex) Meta(ctx context.Context) (recommend.IndexMeta, error) {
	if err := ctx.Err(); err != nil {
		return recommend.IndexMeta{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.meta.ModelID == "" {
		return recommend.IndexMeta{}, ErrEmptyIndex
	}
	return m.meta, nil
}

// Search scores every record against vec and returns the top k.
func (m *MemoryIndex) Search(ctx context.Context, vec []float32, k int) ([]recommend.ScoredCandidate, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", recommend.ErrInvalidParameter, k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	records, vectors, norms, dim := m.records, m.vectors, m.norms, m.meta.Dimension
	m.mu.RUnlock()

	if len(records) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(vec) != dim {
		return nil, fmt.Errorf("query vector has %d dimensions, index has %d", len(vec), dim)
	}

	qnorm := norm(vec)
	hits := make([]recommend.ScoredCandidate, len(records))
	for i := range records {
		hits[i] = recommend.ScoredCandidate{
			Record: records[i],
			Score:  cosine(vec, vectors[i], qnorm, norms[i]),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Record.Seq < hits[j].Record.Seq
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored records.
func (m *MemoryIndex) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Records returns a copy of the stored records in catalog order.
func (m *MemoryIndex) Records(context.Context) ([]catalog.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]catalog.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Ping always succeeds.
func (m *MemoryIndex) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryIndex) Close() error { return nil }

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}

var _ Store = (*MemoryIndex)(nil)
