// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/database"
	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// errIndexNotEmpty is returned by build-embeddings without --replace.
var errIndexNotEmpty = errors.New("index already holds records; pass --replace to rebuild it")

func buildEmbeddingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "build-embeddings",
		Usage: "Embed a catalog file and write it to the index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "Catalog file (.csv or .json); defaults to catalog.path",
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Replace an existing non-empty index",
			},
		},
		Action: withUnseededSession(func(ctx context.Context, c *cli.Command, s *session) error {
			path := c.String("catalog")
			if path == "" {
				path = s.cfg.Catalog.Path
			}

			existing, err := s.store.Count(ctx)
			if err != nil {
				return err
			}
			if existing > 0 && !c.Bool("replace") {
				return fmt.Errorf("%w (%d records)", errIndexNotEmpty, existing)
			}

			n, err := database.Rebuild(ctx, s.store, path, catalog.LoadOptions{
				InferTestTypes: s.cfg.Catalog.InferTestTypes,
				Logger:         logging.WithComponent("catalog"),
			}, s.embedder)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Embeddings built: %d records (model %s, dimension %d)\n",
				n, s.embedder.ModelID(), s.embedder.Dimension())
			return nil
		}),
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show index size, model metadata, and test-type histogram",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		},
		Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
			meta, err := s.store.Meta(ctx)
			if err != nil {
				return err
			}
			records, err := s.store.Records(ctx)
			if err != nil {
				return err
			}

			st := indexStats{
				ModelID:   meta.ModelID,
				Dimension: meta.Dimension,
				Records:   meta.Records,
				BuiltAt:   meta.BuiltAt,
				TestTypes: catalog.Histogram(records),
			}
			if c.Bool("json") {
				return printJSON(c.Root().Writer, st)
			}
			printStats(c.Root().Writer, &st)
			return nil
		}),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a query through the recommendation pipeline",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max", Usage: "Maximum results (0 = recommend.default_max_results)"},
			&cli.IntFlag{Name: "min", Usage: "Minimum results (0 = recommend.default_min_results)"},
			&cli.BoolFlag{Name: "raw", Usage: "Print retrieval order without diversity ranking"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		},
		Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("%w: a query argument is required", recommend.ErrInvalidInput)
			}
			maxResults := int(c.Int("max"))
			minResults := int(c.Int("min"))

			var hits []searchHit
			if c.Bool("raw") {
				k := maxResults
				if k <= 0 {
					k = s.cfg.Recommend.DefaultMaxResults
				}
				vec, err := s.embedder.Embed(ctx, query)
				if err != nil {
					return err
				}
				candidates, err := recommend.NewRetriever(s.store).Retrieve(ctx, vec, k)
				if err != nil {
					return err
				}
				for i := range candidates {
					hits = append(hits, searchHit{Record: candidates[i].Record, Score: candidates[i].Score})
				}
			} else {
				engine, err := s.engine()
				if err != nil {
					return err
				}
				resp, err := engine.Recommend(ctx, recommend.Request{
					Query:      query,
					MinResults: minResults,
					MaxResults: maxResults,
				})
				if err != nil {
					return err
				}
				for i := range resp.Items {
					hits = append(hits, searchHit{Record: resp.Items[i], Score: resp.Scores[i]})
				}
			}

			if c.Bool("json") {
				return printJSON(c.Root().Writer, hits)
			}
			printHits(c.Root().Writer, hits)
			return nil
		}),
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check the index is reachable, non-empty, and built with the configured model",
		Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
			if err := s.store.Ping(ctx); err != nil {
				return fmt.Errorf("index unreachable: %w", err)
			}
			n, err := s.store.Count(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: index holds no records", recommend.ErrIndexUnavailable)
			}

			engine, err := s.engine()
			if err != nil {
				return err
			}
			if err := engine.VerifyModel(ctx); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Status: healthy (%d records, model %s)\n", n, engine.ModelID())
			return nil
		}),
	}
}
