// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

var (
	// ErrIndexUnavailable is the recommend sentinel; every backend failure wraps it.
	ErrIndexUnavailable = recommend.ErrIndexUnavailable

	// ErrEmptyIndex means no snapshot has been written yet.
	ErrEmptyIndex = fmt.Errorf("%w: index holds no records", recommend.ErrIndexUnavailable)

	// ErrInvalidSnapshot is returned by ReplaceSnapshot for inconsistent input.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// unavailable wraps a backend failure as ErrIndexUnavailable. Cancellation of
// the caller's context is returned as-is so the service can report a timeout.
func unavailable(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	if errors.Is(err, ErrIndexUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrIndexUnavailable, op, err)
}

// isMissingTable reports whether err is DuckDB's catalog error for an absent table.
func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Catalog Error") && strings.Contains(msg, "does not exist")
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
