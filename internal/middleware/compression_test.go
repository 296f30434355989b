// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const compressBody = `{"recommended_assessments":[{"name":"Java 8 (New)"}]}`

func compressHandler() http.Handler {
	return Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, compressBody)
	}))
}

func TestCompression_GzipsWhenAccepted(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", nil)
	req.Header.Set("Accept-Encoding", "br, gzip")
	rec := httptest.NewRecorder()
	compressHandler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if string(body) != compressBody {
		t.Errorf("body = %q, want %q", body, compressBody)
	}
}

func TestCompression_PlainWhenNotAccepted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"identity only", "identity"},
		{"gzip refused", "gzip;q=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.header != "" {
				req.Header.Set("Accept-Encoding", tt.header)
			}
			rec := httptest.NewRecorder()
			compressHandler().ServeHTTP(rec, req)

			if rec.Header().Get("Content-Encoding") != "" {
				t.Errorf("unexpected Content-Encoding %q", rec.Header().Get("Content-Encoding"))
			}
			if !strings.Contains(rec.Body.String(), "recommended_assessments") {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"gzip":              true,
		"GZIP":              true,
		"deflate, gzip;q=1": true,
		"gzip; q=0":         false,
		"deflate":           false,
		"":                  false,
	}
	for header, want := range tests {
		if got := acceptsGzip(header); got != want {
			t.Errorf("acceptsGzip(%q) = %v, want %v", header, got, want)
		}
	}
}
