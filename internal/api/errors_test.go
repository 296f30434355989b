// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/assessmatch/internal/recommend"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{recommend.ErrInvalidInput, http.StatusBadRequest, ErrCodeInvalidInput},
		{fmt.Errorf("wrapped: %w", recommend.ErrInvalidParameter), http.StatusBadRequest, ErrCodeInvalidParameter},
		{recommend.ErrIndexUnavailable, http.StatusServiceUnavailable, ErrCodeIndexUnavailable},
		{recommend.ErrTimeout, http.StatusGatewayTimeout, ErrCodeTimeout},
		{context.Canceled, http.StatusInternalServerError, ErrCodeInternalError},
		{errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code, msg := errorResponse(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("errorResponse(%v) = %d %s, want %d %s", tt.err, status, code, tt.wantStatus, tt.wantCode)
			}
			if msg == "" {
				t.Error("message must not be empty")
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
