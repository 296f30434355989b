// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/config"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// Backend names accepted by database.backend.
const (
	BackendDuckDB = "duckdb"
	BackendMemory = "memory"
)

// Store is a writable vector index.
type Store interface {
	recommend.Index

	ReplaceSnapshot(ctx context.Context, snap *Snapshot) error
	Count(ctx context.Context) (int, error)
	Records(ctx context.Context) ([]catalog.Record, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the store selected by cfg.Backend.
func Open(cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Backend {
	case BackendDuckDB, "":
		return New(cfg)
	case BackendMemory:
		return NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}
