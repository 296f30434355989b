// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/metrics"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// Meta returns the model metadata of the current snapshot. Before the first
// snapshot it returns ErrEmptyIndex.
func (db *DB) Meta(ctx context.Context) (recommend.IndexMeta, error) {
	qctx, cancel := db.withQueryTimeout(ctx)
	defer cancel()

	var meta recommend.IndexMeta
	start := time.Now()
	err := db.conn.QueryRowContext(qctx, selectMetaSQL).
		Scan(&meta.ModelID, &meta.Dimension, &meta.Records, &meta.BuiltAt)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("meta", "index_meta", time.Since(start), nil)
		return recommend.IndexMeta{}, ErrEmptyIndex
	}
	metrics.RecordDBQuery("meta", "index_meta", time.Since(start), err)
	if err != nil {
		return recommend.IndexMeta{}, unavailable(ctx, "read metadata", err)
	}
	return meta, nil
}

// Search returns the k records most similar to vec, ordered by cosine score
// descending and catalog order ascending.
func (db *DB) Search(ctx context.Context, vec []float32, k int) ([]recommend.ScoredCandidate, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", recommend.ErrInvalidParameter, k)
	}
	meta, err := db.Meta(ctx)
	if err != nil {
		return nil, err
	}
	if meta.Records == 0 {
		return nil, ErrEmptyIndex
	}
	if len(vec) != meta.Dimension {
		return nil, fmt.Errorf("query vector has %d dimensions, index has %d", len(vec), meta.Dimension)
	}

	qctx, cancel := db.withQueryTimeout(ctx)
	defer cancel()

	start := time.Now()
	out, err := db.search(qctx, vec, k, meta.Dimension)
	metrics.RecordDBQuery("search", "assessments", time.Since(start), err)
	if err != nil {
		return nil, unavailable(ctx, "search", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyIndex
	}
	return out, nil
}

func (db *DB) search(ctx context.Context, vec []float32, k, dim int) ([]recommend.ScoredCandidate, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if zeroVector(vec) {
		rows, err = db.conn.QueryContext(ctx, unscoredSQL(), k)
	} else {
		rows, err = db.conn.QueryContext(ctx, searchSQL(dim), vectorLiteral(vec), k)
	}
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	out := make([]recommend.ScoredCandidate, 0, k)
	for rows.Next() {
		var (
			c     recommend.ScoredCandidate
			score sql.NullFloat64
		)
		if err := scanRecord(rows, &c.Record, &score); err != nil {
			return nil, err
		}
		c.Score = score.Float64
		out = append(out, c)
	}
	return out, rows.Err()
}

// zeroVector reports whether every component of vec is zero.
// array_cosine_similarity does not return 0 for such a query.
func zeroVector(vec []float32) bool {
	for _, x := range vec {
		if x != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of records in the current snapshot.
func (db *DB) Count(ctx context.Context) (int, error) {
	qctx, cancel := db.withQueryTimeout(ctx)
	defer cancel()

	var n int
	start := time.Now()
	err := db.conn.QueryRowContext(qctx, countSQL).Scan(&n)
	if isMissingTable(err) {
		metrics.RecordDBQuery("count", "assessments", time.Since(start), nil)
		return 0, nil
	}
	metrics.RecordDBQuery("count", "assessments", time.Since(start), err)
	if err != nil {
		return 0, unavailable(ctx, "count", err)
	}
	return n, nil
}

// Records returns every record of the current snapshot in catalog order.
func (db *DB) Records(ctx context.Context) ([]catalog.Record, error) {
	qctx, cancel := db.withQueryTimeout(ctx)
	defer cancel()

	start := time.Now()
	out, err := db.records(qctx)
	if isMissingTable(err) {
		metrics.RecordDBQuery("records", "assessments", time.Since(start), nil)
		return []catalog.Record{}, nil
	}
	metrics.RecordDBQuery("records", "assessments", time.Since(start), err)
	if err != nil {
		return nil, unavailable(ctx, "list records", err)
	}
	return out, nil
}

func (db *DB) records(ctx context.Context) ([]catalog.Record, error) {
	rows, err := db.conn.QueryContext(ctx, selectRecordsSQL)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	out := []catalog.Record{}
	for rows.Next() {
		var r catalog.Record
		if err := scanRecord(rows, &r, nil); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// scanRecord reads recordColumns, plus a trailing score column when score is non-nil.
func scanRecord(rows *sql.Rows, r *catalog.Record, score *sql.NullFloat64) error {
	var (
		desc, duration sql.NullString
		testTypes      string
	)
	dest := []any{
		&r.Seq, &r.URL, &r.Name, &desc, &duration,
		&r.AdaptiveSupport, &r.RemoteSupport, &testTypes,
	}
	if score != nil {
		dest = append(dest, score)
	}
	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("scan record: %w", err)
	}
	r.Description = desc.String
	r.Duration = duration.String

	codes := []string{}
	if err := json.Unmarshal([]byte(testTypes), &codes); err != nil {
		return fmt.Errorf("decode test types for %s: %w", r.URL, err)
	}
	r.TestType = codes
	return nil
}

var _ Store = (*DB)(nil)
