// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

// Package config loads AssessMatch configuration.
//
// Loading order (koanf v2), later layers override earlier ones:
//  1. Defaults from defaultConfig()
//  2. Optional YAML file (CONFIG_PATH, else config.yaml / /etc/assessmatch/config.yaml)
//  3. Environment variables mapped explicitly in envTransformFunc
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("invalid configuration")
//	}
//	db, err := database.New(&cfg.Database)
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes file:line in every entry.
	// Default: false
	Caller bool `koanf:"caller"`
}

// DatabaseConfig holds vector index storage settings.
type DatabaseConfig struct {
	// Backend selects the index implementation: duckdb or memory.
	// Default: duckdb
	Backend string `koanf:"backend"`

	// Path is the DuckDB file. ":memory:" keeps the index in process memory.
	// Default: data/assessmatch.duckdb
	Path string `koanf:"path"`

	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	// QueryTimeout bounds a single similarity query.
	// Default: 5s
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// CatalogConfig holds catalog ingestion settings.
type CatalogConfig struct {
	// Path is the catalog file (CSV or JSON) used by build-embeddings and the memory backend.
	// Default: data/assessments.csv
	Path string `koanf:"path"`

	// InferTestTypes fills empty test_type sets from description keywords.
	// Default: false
	InferTestTypes bool `koanf:"infer_test_types"`
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	// Provider is onnx, gemini, or hash.
	// Default: onnx
	Provider string `koanf:"provider"`

	// ModelID is recorded in the index and must match at query time.
	// Default: sentence-transformers/all-MiniLM-L6-v2
	ModelID string `koanf:"model_id"`

	// Dimension is the vector length the model produces.
	// Default: 384
	Dimension int `koanf:"dimension"`

	// Workers bounds concurrent embedding computations.
	// Default: 4
	Workers int `koanf:"workers"`

	ONNX   ONNXConfig           `koanf:"onnx"`
	Gemini GeminiConfig         `koanf:"gemini"`
	Cache  EmbeddingCacheConfig `koanf:"cache"`
}

// ONNXConfig configures the local ONNX Runtime model.
type ONNXConfig struct {
	LibraryPath   string `koanf:"library_path"` // onnxruntime shared library
	ModelPath     string `koanf:"model_path"`
	TokenizerPath string `koanf:"tokenizer_path"` // HuggingFace tokenizer.json
	MaxSeqLen     int    `koanf:"max_seq_len"`
}

// GeminiConfig configures the remote Gemini embedding model.
type GeminiConfig struct {
	APIKey   string `koanf:"api_key"`
	Project  string `koanf:"project"`  // Vertex AI project; used when APIKey is empty
	Location string `koanf:"location"` // Vertex AI location
	Model    string `koanf:"model"`

	// RequestsPerSecond limits outbound embedding calls. 0 disables limiting.
	// Default: 10
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	Timeout time.Duration `koanf:"timeout"`
}

// EmbeddingCacheConfig configures query-vector caching.
type EmbeddingCacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Capacity int           `koanf:"capacity"`
	TTL      time.Duration `koanf:"ttl"`

	// Path enables the durable BadgerDB cache when non-empty.
	// Default: "" (memory only)
	Path string `koanf:"path"`
}

// RecommendConfig holds pipeline settings.
type RecommendConfig struct {
	// DefaultMinResults applies when the caller omits min_results.
	// Default: 1
	DefaultMinResults int `koanf:"default_min_results"`

	// DefaultMaxResults applies when the caller omits max_results.
	// Default: 10
	DefaultMaxResults int `koanf:"default_max_results"`

	// MaxResultsLimit caps caller-supplied max_results.
	// Default: 50
	MaxResultsLimit int `koanf:"max_results_limit"`

	// RequestTimeout bounds a whole recommend call.
	// Default: 10s
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// Ranker is balanced (two-pass facet balancing) or penalty (single-pass score penalty).
	// Default: balanced
	Ranker string `koanf:"ranker"`

	// SaturationThreshold is the per-code count at which a facet counts as saturated.
	// Default: 2
	SaturationThreshold int `koanf:"saturation_threshold"`

	// PenaltyWeight is the per-saturation score deduction used by the penalty ranker.
	// Default: 0.15
	PenaltyWeight float64 `koanf:"penalty_weight"`

	// FetchMultiplier and FetchFloor size retrieval: k = max(max*multiplier, floor).
	// Default: 3 and 30
	FetchMultiplier int `koanf:"fetch_multiplier"`
	FetchFloor      int `koanf:"fetch_floor"`

	// VerifyModel fails startup when the index model id differs from the embedder.
	// Default: true
	VerifyModel bool `koanf:"verify_model"`

	// HealthInterval is how often the index monitor refreshes health and gauges.
	// Default: 30s
	HealthInterval time.Duration `koanf:"health_interval"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads configuration from defaults, file, and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
