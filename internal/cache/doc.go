// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package cache provides a thread-safe in-memory LRU cache with TTL support.

The embedding layer uses it to keep recently computed query vectors so that
repeated queries skip model inference.

# Overview

The cache provides:
  - Generic values (LRU[V])
  - O(1) Get, Set, Remove and eviction (hashmap + doubly-linked list)
  - Lazy TTL expiration on Get, plus CleanupExpired for periodic sweeps
  - Hit, miss, and eviction counters

# Usage Example

	vectors := cache.NewLRU[[]float32](2048, time.Hour)
	key := cache.Key(modelID, normalizedText)
	if vec, ok := vectors.Get(key); ok {
	    return vec, nil
	}
	vectors.Set(key, vec)

# Thread Safety

All methods are safe for concurrent use. Values are stored as given;
callers that mutate slices must copy them first.
*/
package cache
