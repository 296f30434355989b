// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/config"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// testDBSemaphore serializes DuckDB tests; parallel in-memory instances
// compete for the same threads and memory budget.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Backend:   BackendDuckDB,
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// stores returns one of each Store implementation for contract tests.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"duckdb": setupTestDB(t),
		"memory": NewMemoryIndex(),
	}
}

func rec(name string, codes ...string) catalog.Record {
	return catalog.Record{
		URL:         "https://example.com/products/" + name + "/",
		Name:        name,
		Description: name + " assessment",
		Duration:    "30 minutes",
		TestType:    codes,
	}
}

// axisSnapshot places records on unit vectors so scores against a query are exact.
func axisSnapshot() *Snapshot {
	return &Snapshot{
		ModelID:   "test-model",
		Dimension: 3,
		Records: []catalog.Record{
			rec("java", "K"),
			rec("java-advanced", "K", "S"),
			rec("personality", "P"),
			rec("untyped"),
		},
		Vectors: [][]float32{
			{1, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
}

func TestStore_EmptyIndex(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Meta(ctx); !errors.Is(err, ErrEmptyIndex) {
				t.Errorf("Meta() error = %v, want ErrEmptyIndex", err)
			}

			_, err := s.Search(ctx, []float32{1, 0, 0}, 5)
			if !errors.Is(err, recommend.ErrIndexUnavailable) {
				t.Errorf("Search() error = %v, want ErrIndexUnavailable", err)
			}

			n, err := s.Count(ctx)
			if err != nil || n != 0 {
				t.Errorf("Count() = %d, %v, want 0, nil", n, err)
			}

			records, err := s.Records(ctx)
			if err != nil || len(records) != 0 {
				t.Errorf("Records() = %d, %v, want 0, nil", len(records), err)
			}
		})
	}
}

func TestStore_SearchOrdering(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.ReplaceSnapshot(ctx, axisSnapshot()); err != nil {
				t.Fatalf("ReplaceSnapshot() error = %v", err)
			}

			hits, err := s.Search(ctx, []float32{1, 0, 0}, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(hits) != 4 {
				t.Fatalf("len(hits) = %d, want 4", len(hits))
			}

			// Equal scores keep catalog order.
			want := []string{"java", "java-advanced"}
			for i, w := range want {
				if hits[i].Record.Name != w {
					t.Errorf("hits[%d] = %s, want %s", i, hits[i].Record.Name, w)
				}
				if diff := hits[i].Score - 1; diff > 1e-6 || diff < -1e-6 {
					t.Errorf("hits[%d].Score = %v, want 1", i, hits[i].Score)
				}
			}
			if hits[0].Record.Seq >= hits[1].Record.Seq {
				t.Errorf("seq not ascending on tie: %d, %d", hits[0].Record.Seq, hits[1].Record.Seq)
			}
			for i := 1; i < len(hits); i++ {
				if hits[i].Score > hits[i-1].Score {
					t.Errorf("scores not descending at %d", i)
				}
			}
		})
	}
}

func TestStore_SearchLimit(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.ReplaceSnapshot(ctx, axisSnapshot()); err != nil {
				t.Fatal(err)
			}
			hits, err := s.Search(ctx, []float32{0, 1, 0}, 2)
			if err != nil {
				t.Fatal(err)
			}
			if len(hits) != 2 {
				t.Fatalf("len(hits) = %d, want 2", len(hits))
			}
			if hits[0].Record.Name != "personality" {
				t.Errorf("top hit = %s, want personality", hits[0].Record.Name)
			}

			if _, err := s.Search(ctx, []float32{0, 1, 0}, 0); !errors.Is(err, recommend.ErrInvalidParameter) {
				t.Errorf("Search(k=0) error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestStore_SearchZeroVector(t *testing.T) {
	ctx := context.Background()
	want := []string{"java", "java-advanced", "personality", "untyped"}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.ReplaceSnapshot(ctx, axisSnapshot()); err != nil {
				t.Fatal(err)
			}
			hits, err := s.Search(ctx, []float32{0, 0, 0}, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(hits) != len(want) {
				t.Fatalf("len(hits) = %d, want %d", len(hits), len(want))
			}
			for i, h := range hits {
				if h.Score != 0 {
					t.Errorf("hits[%d].Score = %v, want 0", i, h.Score)
				}
				if h.Record.Name != want[i] {
					t.Errorf("hits[%d] = %s, want %s", i, h.Record.Name, want[i])
				}
			}
		})
	}
}

func TestStore_RecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			snap := axisSnapshot()
			snap.Records[0].AdaptiveSupport = true
			snap.Records[0].RemoteSupport = true
			if err := s.ReplaceSnapshot(ctx, snap); err != nil {
				t.Fatal(err)
			}

			records, err := s.Records(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 4 {
				t.Fatalf("len(records) = %d, want 4", len(records))
			}

			first := records[0]
			if first.URL != snap.Records[0].URL || first.Duration != "30 minutes" {
				t.Errorf("first record = %+v", first)
			}
			if !first.AdaptiveSupport || !first.RemoteSupport {
				t.Error("support flags not persisted")
			}
			if len(records[1].TestType) != 2 || records[1].TestType[1] != "S" {
				t.Errorf("TestType = %v, want [K S]", records[1].TestType)
			}
			if records[3].TestType == nil || len(records[3].TestType) != 0 {
				t.Errorf("untyped TestType = %#v, want empty non-nil", records[3].TestType)
			}
			for i, r := range records {
				if r.Seq != i {
					t.Errorf("records[%d].Seq = %d", i, r.Seq)
				}
			}
		})
	}
}

func TestStore_ReplaceSwapsSnapshot(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.ReplaceSnapshot(ctx, axisSnapshot()); err != nil {
				t.Fatal(err)
			}

			next := &Snapshot{
				ModelID:   "other-model",
				Dimension: 2,
				Records:   []catalog.Record{rec("only")},
				Vectors:   [][]float32{{0.6, 0.8}},
				BuiltAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			}
			if err := s.ReplaceSnapshot(ctx, next); err != nil {
				t.Fatalf("second ReplaceSnapshot() error = %v", err)
			}

			meta, err := s.Meta(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if meta.ModelID != "other-model" || meta.Dimension != 2 || meta.Records != 1 {
				t.Errorf("Meta() = %+v", meta)
			}
			if !meta.BuiltAt.Equal(next.BuiltAt) {
				t.Errorf("BuiltAt = %v, want %v", meta.BuiltAt, next.BuiltAt)
			}

			n, _ := s.Count(ctx)
			if n != 1 {
				t.Errorf("Count() = %d, want 1", n)
			}
			if _, err := s.Search(ctx, []float32{1, 0, 0}, 5); err == nil {
				t.Error("Search() with stale dimension should fail")
			}
		})
	}
}

func TestStore_InvalidSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"missing model", func(s *Snapshot) { s.ModelID = "" }},
		{"zero dimension", func(s *Snapshot) { s.Dimension = 0 }},
		{"vector count", func(s *Snapshot) { s.Vectors = s.Vectors[:2] }},
		{"vector length", func(s *Snapshot) { s.Vectors[1] = []float32{1, 0} }},
		{"duplicate url", func(s *Snapshot) { s.Records[1].URL = s.Records[0].URL }},
		{"empty url", func(s *Snapshot) { s.Records[2].URL = "" }},
	}

	ctx := context.Background()
	for name, s := range stores(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				snap := axisSnapshot()
				tt.mutate(snap)
				if err := s.ReplaceSnapshot(ctx, snap); !errors.Is(err, ErrInvalidSnapshot) {
					t.Errorf("ReplaceSnapshot() error = %v, want ErrInvalidSnapshot", err)
				}
			})
		}

		t.Run(name+"/rejected snapshot leaves index empty", func(t *testing.T) {
			if _, err := s.Meta(ctx); !errors.Is(err, ErrEmptyIndex) {
				t.Errorf("Meta() error = %v, want ErrEmptyIndex", err)
			}
		})
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.ReplaceSnapshot(context.Background(), axisSnapshot()); err != nil {
				t.Fatal(err)
			}
			_, err := s.Search(ctx, []float32{1, 0, 0}, 5)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Search() error = %v, want context.Canceled", err)
			}
			if errors.Is(err, recommend.ErrIndexUnavailable) {
				t.Error("cancellation must not be reported as index unavailable")
			}
		})
	}
}

func TestDB_ClosedIsUnavailable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	if err := db.ReplaceSnapshot(ctx, axisSnapshot()); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Search(ctx, []float32{1, 0, 0}, 5); !errors.Is(err, recommend.ErrIndexUnavailable) {
		t.Errorf("Search() on closed db error = %v, want ErrIndexUnavailable", err)
	}
	if err := db.Ping(ctx); !errors.Is(err, recommend.ErrIndexUnavailable) {
		t.Errorf("Ping() on closed db error = %v, want ErrIndexUnavailable", err)
	}
}

func TestDB_PersistsAcrossReopen(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	cfg := &config.DatabaseConfig{
		Backend: BackendDuckDB,
		Path:    filepath.Join(t.TempDir(), "nested", "index.duckdb"),
		Threads: 1,
	}
	ctx := context.Background()

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.ReplaceSnapshot(ctx, axisSnapshot()); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = New(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	meta, err := db.Meta(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ModelID != "test-model" || meta.Records != 4 {
		t.Errorf("Meta() after reopen = %+v", meta)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{BackendMemory, false},
		{"chroma", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(&config.DatabaseConfig{Backend: tt.backend})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}

func TestVectorLiteral(t *testing.T) {
	got := vectorLiteral([]float32{1, -0.5, 0.25})
	if got != "[1,-0.5,0.25]" {
		t.Errorf("vectorLiteral() = %q", got)
	}
	if got := vectorLiteral(nil); got != "[]" {
		t.Errorf("vectorLiteral(nil) = %q", got)
	}
}

func TestUnavailable(t *testing.T) {
	cause := fmt.Errorf("IO Error: could not read file")
	err := unavailable(context.Background(), "search", cause)
	if !errors.Is(err, recommend.ErrIndexUnavailable) || !errors.Is(err, cause) {
		t.Errorf("unavailable() = %v, want both sentinel and cause", err)
	}
	if unavailable(context.Background(), "x", nil) != nil {
		t.Error("unavailable(nil) should be nil")
	}
	if got := unavailable(context.Background(), "meta", ErrEmptyIndex); got != ErrEmptyIndex {
		t.Errorf("already-classified errors should pass through, got %v", got)
	}
}
