// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/assessmatch/config.yaml",
	"/etc/assessmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Backend:      "duckdb",
			Path:         "data/assessmatch.duckdb",
			MaxMemory:    "512MB",
			QueryTimeout: 5 * time.Second,
		},
		Catalog: CatalogConfig{
			Path: "data/assessments.csv",
		},
		Embedding: EmbeddingConfig{
			Provider:  "onnx",
			ModelID:   "sentence-transformers/all-MiniLM-L6-v2",
			Dimension: 384,
			Workers:   4,
			ONNX: ONNXConfig{
				LibraryPath:   "/usr/lib/libonnxruntime.so",
				ModelPath:     "models/all-MiniLM-L6-v2/model.onnx",
				TokenizerPath: "models/all-MiniLM-L6-v2/tokenizer.json",
				MaxSeqLen:     256,
			},
			Gemini: GeminiConfig{
				Model:             "gemini-embedding-001",
				Location:          "us-central1",
				RequestsPerSecond: 10,
				Burst:             5,
				Timeout:           10 * time.Second,
			},
			Cache: EmbeddingCacheConfig{
				Enabled:  true,
				Capacity: 2048,
				TTL:      time.Hour,
			},
		},
		Recommend: RecommendConfig{
			DefaultMinResults:   1,
			DefaultMaxResults:   10,
			MaxResultsLimit:     50,
			RequestTimeout:      10 * time.Second,
			Ranker:              "balanced",
			SaturationThreshold: 2,
			PenaltyWeight:       0.15,
			FetchMultiplier:     3,
			FetchFloor:          30,
			VerifyModel:         true,
			HealthInterval:      30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration using koanf layering.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_PORT -> server.port, EMBEDDING_PROVIDER -> embedding.provider, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as a single string (env vars).
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"port":             "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"index_backend":        "database.backend",
	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"index_query_timeout":  "database.query_timeout",
	"catalog_path":         "catalog.path",
	"catalog_infer_types":  "catalog.infer_test_types",
	"embedding_provider":   "embedding.provider",
	"embedding_model_id":   "embedding.model_id",
	"embedding_dimension":  "embedding.dimension",
	"embedding_workers":    "embedding.workers",
	"onnx_library_path":    "embedding.onnx.library_path",
	"onnx_model_path":      "embedding.onnx.model_path",
	"onnx_tokenizer_path":  "embedding.onnx.tokenizer_path",
	"onnx_max_seq_len":     "embedding.onnx.max_seq_len",
	"gemini_api_key":       "embedding.gemini.api_key",
	"gemini_project":       "embedding.gemini.project",
	"gemini_location":      "embedding.gemini.location",
	"gemini_model":         "embedding.gemini.model",
	"gemini_rps":           "embedding.gemini.requests_per_second",
	"gemini_burst":         "embedding.gemini.burst",
	"embedding_cache":      "embedding.cache.enabled",
	"embedding_cache_size": "embedding.cache.capacity",
	"embedding_cache_ttl":  "embedding.cache.ttl",
	"embedding_cache_path": "embedding.cache.path",

	"recommend_min_results":     "recommend.default_min_results",
	"recommend_max_results":     "recommend.default_max_results",
	"recommend_max_limit":       "recommend.max_results_limit",
	"recommend_timeout":         "recommend.request_timeout",
	"recommend_ranker":          "recommend.ranker",
	"recommend_saturation":      "recommend.saturation_threshold",
	"recommend_penalty_weight":  "recommend.penalty_weight",
	"recommend_fetch_mult":      "recommend.fetch_multiplier",
	"recommend_fetch_floor":     "recommend.fetch_floor",
	"recommend_verify_model":    "recommend.verify_model",
	"recommend_health_interval": "recommend.health_interval",

	"cors_origins":        "security.cors_origins",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"rate_limit_disabled": "security.rate_limit_disabled",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
