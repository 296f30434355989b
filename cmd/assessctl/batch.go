// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

var (
	errNoQueryColumn = errors.New("input CSV has no query column")
	errNoQueries     = errors.New("input CSV has no non-blank queries")
)

// batchHeader is the submission format: one row per recommended URL.
var batchHeader = []string{"Query", "Assessment_url"}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Recommend for every query in a CSV and write Query,Assessment_url rows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Usage:    "Input CSV with a query column (matched case-insensitively)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output CSV path",
				Value: "output_recommendations.csv",
			},
			&cli.IntFlag{
				Name:  "max",
				Usage: "Recommendations written per query",
				Value: 1,
			},
		},
		Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
			maxResults := int(c.Int("max"))
			if maxResults <= 0 {
				return fmt.Errorf("%w: --max must be positive, got %d", recommend.ErrInvalidParameter, maxResults)
			}

			in, err := os.Open(c.String("input"))
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer closeFile(in)

			queries, err := readQueries(in)
			if err != nil {
				return err
			}

			engine, err := s.engine()
			if err != nil {
				return err
			}
			if err := engine.VerifyModel(ctx); err != nil {
				return err
			}

			rows, err := runBatch(ctx, engine, queries, maxResults)
			if err != nil {
				return err
			}

			path := c.String("output")
			if err := writeBatchFile(path, rows); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Results written to: %s (%d queries, %d rows)\n", path, len(queries), len(rows))
			return nil
		}),
	}
}

// readQueries returns the trimmed, non-blank values of the query column.
func readQueries(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errNoQueryColumn
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(name), "query") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errNoQueryColumn
	}

	var queries []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read queries: %w", err)
		}
		if col >= len(row) {
			continue
		}
		if q := strings.TrimSpace(row[col]); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return nil, errNoQueries
	}
	return queries, nil
}

type batchRow struct {
	Query string
	URL   string
}

// recommender is the part of *recommend.Engine a batch run needs.
type recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// runBatch recommends for each query in order. A query that fails on its own
// gets a row with an empty URL; an unavailable index or bad bounds stop the run.
func runBatch(ctx context.Context, engine recommender, queries []string, maxResults int) ([]batchRow, error) {
	logger := logging.WithComponent("batch")
	rows := make([]batchRow, 0, len(queries)*maxResults)

	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := engine.Recommend(ctx, recommend.Request{Query: q, MaxResults: maxResults})
		switch {
		case errors.Is(err, recommend.ErrIndexUnavailable), errors.Is(err, recommend.ErrInvalidParameter):
			return nil, err
		case err != nil:
			logger.Warn().Err(err).Int("row", i+1).Msg("query failed")
			rows = append(rows, batchRow{Query: q})
			continue
		}

		if len(resp.Items) == 0 {
			rows = append(rows, batchRow{Query: q})
			continue
		}
		for j := range resp.Items {
			rows = append(rows, batchRow{Query: q, URL: resp.Items[j].URL})
		}
	}
	return rows, nil
}

func writeBatchFile(path string, rows []batchRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // G304: operator-supplied output path
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeBatch(f, rows); err != nil {
		closeFile(f)
		return err
	}
	return f.Close()
}

func writeBatch(w io.Writer, rows []batchRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(batchHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Query, r.URL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		logging.Warn().Err(err).Str("file", f.Name()).Msg("close file")
	}
}
