// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/config"
	"github.com/tomtom215/assessmatch/internal/database"
	"github.com/tomtom215/assessmatch/internal/embedding"
	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/recommend"
	"github.com/tomtom215/assessmatch/internal/recommend/reranking"
)

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "assessctl",
		Usage:  "Build and inspect the AssessMatch assessment index",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Sources: cli.EnvVars(config.ConfigPathEnvVar),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level for diagnostics on stderr (overrides logging.level)",
			},
		},
		Commands: []*cli.Command{
			buildEmbeddingsCommand(),
			statsCommand(),
			searchCommand(),
			healthCommand(),
			batchCommand(),
		},
	}
}

// session holds the handles a command works with.
type session struct {
	cfg      *config.Config
	store    database.Store
	embedder *embedding.QueryEmbedder
}

// openSession loads configuration and opens the index and the query embedder.
// The embedding model itself loads on first use. A memory index lives only for
// this process, so when seed is set it is filled from catalog.path.
func openSession(ctx context.Context, c *cli.Command, seed bool) (*session, error) {
	if path := c.String("config"); path != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if l := c.String("log-level"); l != "" {
		level = l
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    "console",
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	store, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	emb, err := embedding.NewFromConfig(&cfg.Embedding, logging.Logger())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	s := &session{cfg: cfg, store: store, embedder: emb}
	if seed && cfg.Database.Backend == database.BackendMemory {
		if err := s.seed(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) seed(ctx context.Context) error {
	_, err := database.Rebuild(ctx, s.store, s.cfg.Catalog.Path, catalog.LoadOptions{
		InferTestTypes: s.cfg.Catalog.InferTestTypes,
		Logger:         logging.WithComponent("catalog"),
	}, s.embedder)
	if err != nil {
		return fmt.Errorf("seed memory index from %s: %w", s.cfg.Catalog.Path, err)
	}
	return nil
}

func (s *session) Close() {
	if err := s.embedder.Close(); err != nil {
		logging.Warn().Err(err).Msg("close embedding model")
	}
	if err := s.store.Close(); err != nil {
		logging.Warn().Err(err).Msg("close index")
	}
}

// engine builds the recommendation pipeline over the session's handles.
func (s *session) engine() (*recommend.Engine, error) {
	rc := &s.cfg.Recommend
	ranker, err := reranking.New(rc.Ranker, rc.SaturationThreshold, rc.PenaltyWeight)
	if err != nil {
		return nil, err
	}
	return recommend.NewEngine(recommend.ConfigFromSettings(rc), s.embedder, s.store, ranker, logging.Logger())
}

type sessionFunc func(ctx context.Context, c *cli.Command, s *session) error

// withSession opens a session for the duration of fn.
func withSession(fn sessionFunc) cli.ActionFunc {
	return sessionAction(true, fn)
}

// withUnseededSession is withSession for commands that write the index themselves.
func withUnseededSession(fn sessionFunc) cli.ActionFunc {
	return sessionAction(false, fn)
}

func sessionAction(seed bool, fn sessionFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		s, err := openSession(ctx, c, seed)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, c, s)
	}
}
