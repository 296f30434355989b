// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package validation wraps go-playground/validator for API request structs.

A single validator instance is created lazily and shared. Field names in
errors come from the struct's json tag, so messages match what clients send.

Custom Tags:

  - mintrimmed=N: at least N characters (runes) after trimming surrounding
    whitespace; used for free-text queries

Usage:

	type RecommendRequest struct {
	    Query string `json:"query" validate:"mintrimmed=3,max=2000"`
	}

	if err := validation.ValidateStruct(&req); err != nil {
	    apiErr := err.ToAPIError() // Code "VALIDATION_FAILED"
	    ...
	}

Errors are returned as *RequestValidationError holding one ValidationError
per failed field. ToAPIError flattens them into a message plus a details map
suitable for the API error envelope.
*/
package validation
