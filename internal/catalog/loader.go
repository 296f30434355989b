// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrNoURLColumn is returned when a CSV catalog has no url column.
var ErrNoURLColumn = errors.New("catalog: csv header has no url column")

// LoadOptions controls catalog ingestion.
type LoadOptions struct {
	// InferTestTypes fills empty test_type sets from description keywords.
	InferTestTypes bool

	Logger zerolog.Logger
}

// LoadFile reads a catalog from a .csv or .json file.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func LoadFile(path string, opts LoadOptions) ([]Record, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied catalog path
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f, opts)
	case ".csv", "":
		return LoadCSV(f, opts)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .csv or .json)", filepath.Ext(path))
	}
}

// LoadCSV parses a CSV catalog. Column order is free; names are matched
// case-insensitively.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func LoadCSV(r io.Reader, opts LoadOptions) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["url"]; !ok {
		return nil, ErrNoURLColumn
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var raw []Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		raw = append(raw, Record{
			URL:             field(row, "url"),
			Name:            field(row, "name"),
			Description:     field(row, "description"),
			Duration:        field(row, "duration"),
			AdaptiveSupport: ParseBool(field(row, "adaptive_support")),
			RemoteSupport:   ParseBool(field(row, "remote_support")),
			TestType:        ParseTestTypes(field(row, "test_type")),
		})
	}
	return finalize(raw, opts), nil
}

// LoadJSON parses a JSON array of records.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func LoadJSON(r io.Reader, opts LoadOptions) ([]Record, error) {
	var raw []Record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	return finalize(raw, opts), nil
}

// finalize drops rows without a URL and duplicate URLs (first wins), derives
// missing names, optionally infers test types, and assigns Seq.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func finalize(raw []Record, opts LoadOptions) []Record {
	logger := opts.Logger
	out := make([]Record, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i := range raw {
		rec := raw[i]
		if rec.URL == "" {
			logger.Warn().Int("row", i+1).Msg("skipping catalog row without url")
			continue
		}
		if _, dup := seen[rec.URL]; dup {
			logger.Warn().Str("url", rec.URL).Msg("dropping duplicate catalog url")
			continue
		}
		seen[rec.URL] = struct{}{}

		if rec.Name == "" {
			rec.Name = NameFromURL(rec.URL)
		}
		if len(rec.TestType) == 0 && opts.InferTestTypes {
			rec.TestType = InferTestTypes(rec.Description)
		}
		rec.Seq = len(out)
		out = append(out, rec)
	}

	logger.Debug().Int("records", len(out)).Int("rows", len(raw)).Msg("catalog loaded")
	return out
}

// ParseBool treats true, 1, yes, and y (any case) as true.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}
