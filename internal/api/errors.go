// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/assessmatch/internal/logging"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// errorResponse maps a recommendation error onto its HTTP status, error code,
// and client-safe message. Internal causes never reach the client.
func errorResponse(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeInvalidInput, err.Error()
	case errors.Is(err, recommend.ErrInvalidParameter):
		return http.StatusBadRequest, ErrCodeInvalidParameter, err.Error()
	case errors.Is(err, recommend.ErrIndexUnavailable):
		return http.StatusServiceUnavailable, ErrCodeIndexUnavailable, "The assessment index is not available"
	case errors.Is(err, recommend.ErrTimeout):
		return http.StatusGatewayTimeout, ErrCodeTimeout, "The recommendation request timed out"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred"
	}
}

// respondRecommendError writes the error envelope for a failed recommendation.
func respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("code", code).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("Recommendation failed")
	}
	WriteError(w, r, status, code, message)
}
