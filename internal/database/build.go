// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/catalog"
)

// ErrEmptyCatalog is returned when a snapshot would contain no records.
var ErrEmptyCatalog = errors.New("catalog has no records")

// DocumentEmbedder embeds catalog documents with the model the index is tagged with.
type DocumentEmbedder interface {
	ModelID() string
	Dimension() int
	EmbedAll(ctx context.Context, texts []string) ([][]float32, error)
}

// BuildSnapshot embeds each record's Document text and returns a snapshot
// tagged with the embedder's model. Records keep their catalog order.
func BuildSnapshot(ctx context.Context, records []catalog.Record, embedder DocumentEmbedder) (*Snapshot, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	docs := make([]string, len(records))
	for i := range records {
		docs[i] = records[i].Document()
	}

	vectors, err := embedder.EmbedAll(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}

	snap := &Snapshot{
		ModelID:   embedder.ModelID(),
		Dimension: embedder.Dimension(),
		Records:   records,
		Vectors:   vectors,
		BuiltAt:   time.Now().UTC(),
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Rebuild loads the catalog at path, embeds it, and replaces the store's snapshot.
// It returns the number of records indexed.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func Rebuild(ctx context.Context, store Store, path string, opts catalog.LoadOptions, embedder DocumentEmbedder) (int, error) {
	logger := opts.Logger

	records, err := catalog.LoadFile(path, opts)
	if err != nil {
		return 0, err
	}
	logger.Info().Str("path", path).Int("records", len(records)).Msg("catalog loaded")

	start := time.Now()
	snap, err := BuildSnapshot(ctx, records, embedder)
	if err != nil {
		return 0, err
	}
	logEmbedded(&logger, snap, time.Since(start))

	if err := store.ReplaceSnapshot(ctx, snap); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return len(snap.Records), nil
}

func logEmbedded(logger *zerolog.Logger, snap *Snapshot, took time.Duration) {
	logger.Info().
		Str("model_id", snap.ModelID).
		Int("dimension", snap.Dimension).
		Int("records", len(snap.Records)).
		Dur("took", took).
		Msg("catalog embedded")
}
