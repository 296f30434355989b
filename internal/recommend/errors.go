// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package recommend

import (
	"errors"
	"fmt"
)

// Pipeline error kinds. Callers classify failures with errors.Is; everything
// the engine returns matches exactly one of the first five.
var (
	// ErrInvalidInput means the query text is empty after normalization.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter means min/max result bounds are negative or min > max.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrIndexUnavailable means the vector index is unreachable or holds no records.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrTimeout means the per-request deadline expired.
	ErrTimeout = errors.New("recommendation timed out")

	// ErrInternal covers every other pipeline failure.
	ErrInternal = errors.New("internal recommendation error")

	// ErrModelMismatch means the index was built with a different embedding
	// model or dimension than the one configured for queries.
	ErrModelMismatch = errors.New("embedding model mismatch")
)

// InternalError wraps an unexpected failure. Its message stays opaque to
// clients; the cause is kept for logs and errors.Unwrap.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Op == "" {
		return ErrInternal.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInternal.Error(), e.Op)
}

// Unwrap exposes both ErrInternal and the underlying cause.
func (e *InternalError) Unwrap() []error {
	return []error{ErrInternal, e.Err}
}

// Cause returns the wrapped failure, or nil.
func (e *InternalError) Cause() error {
	return e.Err
}

// classify maps an arbitrary pipeline error onto the public error kinds.
// Known kinds pass through unchanged; anything else becomes an InternalError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidParameter),
		errors.Is(err, ErrIndexUnavailable),
		errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, ErrInternal):
		return err
	default:
		return &InternalError{Op: op, Err: err}
	}
}

// IsClientError reports whether err was caused by caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidParameter)
}
