// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/metrics"
)

// Snapshot is a complete embedded catalog: records in insertion order, one
// vector per record, and the model that produced the vectors.
type Snapshot struct {
	ModelID   string
	Dimension int
	Records   []catalog.Record
	Vectors   [][]float32
	BuiltAt   time.Time
}

// Validate checks the snapshot is internally consistent.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	if s.ModelID == "" {
		return fmt.Errorf("%w: model id is required", ErrInvalidSnapshot)
	}
	if s.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidSnapshot, s.Dimension)
	}
	if len(s.Records) != len(s.Vectors) {
		return fmt.Errorf("%w: %d records but %d vectors", ErrInvalidSnapshot, len(s.Records), len(s.Vectors))
	}
	seen := make(map[string]struct{}, len(s.Records))
	for i := range s.Records {
		url := s.Records[i].URL
		if url == "" {
			return fmt.Errorf("%w: record %d has no url", ErrInvalidSnapshot, i)
		}
		if _, dup := seen[url]; dup {
			return fmt.Errorf("%w: duplicate url %q", ErrInvalidSnapshot, url)
		}
		seen[url] = struct{}{}
		if len(s.Vectors[i]) != s.Dimension {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				ErrInvalidSnapshot, i, len(s.Vectors[i]), s.Dimension)
		}
	}
	return nil
}

// ReplaceSnapshot swaps the index contents for snap in one transaction.
// Concurrent searches see either the old or the new catalog, never a mix.
func (db *DB) ReplaceSnapshot(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	start := time.Now()
	err := db.replaceSnapshot(ctx, snap)
	metrics.RecordDBQuery("replace", "assessments", time.Since(start), err)
	if err != nil {
		return unavailable(ctx, "replace snapshot", err)
	}
	return nil
}

func (db *DB) replaceSnapshot(ctx context.Context, snap *Snapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx, dropAssessmentsSQL); err != nil {
		return fmt.Errorf("drop assessments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createAssessmentsSQL(snap.Dimension)); err != nil {
		return fmt.Errorf("create assessments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertAssessmentSQL(snap.Dimension))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range snap.Records {
		r := &snap.Records[i]
		codes := r.TestType
		if codes == nil {
			codes = []string{}
		}
		tt, err := json.Marshal(codes)
		if err != nil {
			return fmt.Errorf("marshal test types for %s: %w", r.URL, err)
		}
		if _, err := stmt.ExecContext(ctx,
			i, r.ID(), r.URL, r.Name, r.Description, r.Duration,
			r.AdaptiveSupport, r.RemoteSupport, string(tt), vectorLiteral(snap.Vectors[i]),
		); err != nil {
			return fmt.Errorf("insert %s: %w", r.URL, err)
		}
	}

	builtAt := snap.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, clearMetaSQL); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertMetaSQL, snap.ModelID, snap.Dimension, len(snap.Records), builtAt.UTC()); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return tx.Commit()
}

// vectorLiteral renders vec as a DuckDB list literal for CAST(? AS FLOAT[n]).
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.Grow(len(vec) * 12)
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
