// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Embedding.ModelID != "sentence-transformers/all-MiniLM-L6-v2" {
		t.Errorf("Embedding.ModelID = %q", cfg.Embedding.ModelID)
	}
	if cfg.Embedding.Dimension != 384 {
		t.Errorf("Embedding.Dimension = %d, want 384", cfg.Embedding.Dimension)
	}
	if cfg.Recommend.DefaultMinResults != 1 || cfg.Recommend.DefaultMaxResults != 10 {
		t.Errorf("recommend bounds = %d..%d, want 1..10", cfg.Recommend.DefaultMinResults, cfg.Recommend.DefaultMaxResults)
	}
	if cfg.Recommend.SaturationThreshold != 2 {
		t.Errorf("Recommend.SaturationThreshold = %d, want 2", cfg.Recommend.SaturationThreshold)
	}
	if cfg.Recommend.FetchMultiplier != 3 || cfg.Recommend.FetchFloor != 30 {
		t.Errorf("fetch sizing = x%d floor %d, want x3 floor 30", cfg.Recommend.FetchMultiplier, cfg.Recommend.FetchFloor)
	}
	if cfg.Recommend.RequestTimeout != 10*time.Second {
		t.Errorf("Recommend.RequestTimeout = %v, want 10s", cfg.Recommend.RequestTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"DUCKDB_PATH", "database.path"},
		{"EMBEDDING_PROVIDER", "embedding.provider"},
		{"GEMINI_API_KEY", "embedding.gemini.api_key"},
		{"RECOMMEND_RANKER", "recommend.ranker"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("EMBEDDING_PROVIDER", "hash")
	t.Setenv("RECOMMEND_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Embedding.Provider != "hash" {
		t.Errorf("Embedding.Provider = %q, want hash", cfg.Embedding.Provider)
	}
	if cfg.Recommend.RequestTimeout != 3*time.Second {
		t.Errorf("Recommend.RequestTimeout = %v, want 3s", cfg.Recommend.RequestTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadWithKoanf_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 8088
embedding:
  provider: hash
  dimension: 64
recommend:
  ranker: penalty
  default_max_results: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("Server.Port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Embedding.Dimension != 64 {
		t.Errorf("Embedding.Dimension = %d, want 64", cfg.Embedding.Dimension)
	}
	if cfg.Recommend.Ranker != "penalty" {
		t.Errorf("Recommend.Ranker = %q, want penalty", cfg.Recommend.Ranker)
	}
	if cfg.Recommend.DefaultMaxResults != 5 {
		t.Errorf("Recommend.DefaultMaxResults = %d, want 5", cfg.Recommend.DefaultMaxResults)
	}
	// untouched keys keep defaults
	if cfg.Recommend.FetchFloor != 30 {
		t.Errorf("Recommend.FetchFloor = %d, want 30", cfg.Recommend.FetchFloor)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"unknown backend", func(c *Config) { c.Database.Backend = "chroma" }, "database.backend"},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "openai" }, "embedding.provider"},
		{"gemini without credentials", func(c *Config) { c.Embedding.Provider = "gemini" }, "GEMINI_API_KEY"},
		{"min above max", func(c *Config) { c.Recommend.DefaultMinResults = 11 }, "default_min_results"},
		{"unknown ranker", func(c *Config) { c.Recommend.Ranker = "mmr" }, "recommend.ranker"},
		{"zero saturation", func(c *Config) { c.Recommend.SaturationThreshold = 0 }, "saturation_threshold"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "cors_origins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
