// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key returns the hex SHA-256 of parts joined with "|".
// Embedding caches use Key(modelID, normalizedText).
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
