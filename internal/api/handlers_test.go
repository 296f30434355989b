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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/config"
	"github.com/tomtom215/assessmatch/internal/database"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

// stubRecommender returns canned results and records the last request.
type stubRecommender struct {
	resp      *recommend.Response
	err       error
	verifyErr error
	last      recommend.Request
	calls     int
}

func (s *stubRecommender) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	s.calls++
	s.last = req
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is empty", recommend.ErrInvalidInput)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubRecommender) VerifyModel(context.Context) error { return s.verifyErr }
func (s *stubRecommender) GetMetrics() recommend.Metrics     { return recommend.Metrics{RequestCount: int64(s.calls)} }
func (s *stubRecommender) RankerName() string                { return "balanced" }
func (s *stubRecommender) ModelID() string                   { return "test-model" }

func testRecords() []catalog.Record {
	return []catalog.Record{
		{URL: "https://example.com/view/java-8/", Name: "Java 8 (New)", Duration: "18 minutes", RemoteSupport: true, TestType: []string{"K"}},
		{URL: "https://example.com/view/opq32r/", Name: "OPQ32r", AdaptiveSupport: true, TestType: []string{"P"}},
		{URL: "https://example.com/view/verify-g/", Name: "Verify G+", TestType: []string{"A", "K"}},
	}
}

func testResponse() *recommend.Response {
	items := testRecords()[:2]
	return &recommend.Response{
		Items:           items,
		Scores:          []float64{0.91, 0.72},
		TotalCandidates: 3,
		Metadata:        recommend.ResponseMetadata{Ranker: "balanced", ModelID: "test-model", FetchK: 30},
	}
}

// newTestServer builds a router over stub and a memory index holding records.
func newTestServer(t *testing.T, stub *stubRecommender, records []catalog.Record) http.Handler {
	t.Helper()

	index := database.NewMemoryIndex()
	if len(records) > 0 {
		vectors := make([][]float32, len(records))
		for i := range vectors {
			vectors[i] = []float32{1, float32(i)}
		}
		snap := &database.Snapshot{ModelID: "test-model", Dimension: 2, Records: records, Vectors: vectors}
		if err := index.ReplaceSnapshot(context.Background(), snap); err != nil {
			t.Fatalf("ReplaceSnapshot() error = %v", err)
		}
	}

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	handler := NewHandler(stub, index, &config.Config{}, "test")
	return NewRouter(handler, cfg).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func TestRecommend_Success(t *testing.T) {
	stub := &stubRecommender{resp: testResponse()}
	srv := newTestServer(t, stub, nil)

	rec := doRequest(t, srv, http.MethodPost, "/api/recommend",
		`{"query":"Java developers who collaborate","max_results":5}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string][]map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	items, ok := body["recommended_assessments"]
	if !ok {
		t.Fatalf("missing recommended_assessments in %s", rec.Body.String())
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0]["name"] != "Java 8 (New)" || items[0]["remote_support"] != "Yes" || items[0]["adaptive_support"] != "No" {
		t.Errorf("first item = %v", items[0])
	}
	if strings.Contains(rec.Body.String(), `"success"`) {
		t.Error("POST /api/recommend must not be enveloped")
	}

	if stub.last.MaxResults != 5 || stub.last.MinResults != 0 {
		t.Errorf("engine request bounds = %d..%d, want 0..5", stub.last.MinResults, stub.last.MaxResults)
	}
	if stub.last.RequestID == "" || stub.last.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("engine request ID %q does not match header %q", stub.last.RequestID, rec.Header().Get("X-Request-ID"))
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestRecommend_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantCalled bool
	}{
		{"whitespace query", `{"query":"   \n\t"}`, http.StatusBadRequest, ErrCodeInvalidInput, true},
		{"empty query", `{"query":""}`, http.StatusBadRequest, ErrCodeInvalidInput, true},
		{"short query", `{"query":"  ab "}`, http.StatusBadRequest, ErrCodeValidationFailed, false},
		{"unknown field", `{"query":"java","limit":3}`, http.StatusBadRequest, ErrCodeBadRequest, false},
		{"malformed json", `{"query":`, http.StatusBadRequest, ErrCodeBadRequest, false},
		{"wrong type", `{"query":"java","max_results":"ten"}`, http.StatusBadRequest, ErrCodeBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRecommender{resp: testResponse()}
			srv := newTestServer(t, stub, nil)

			rec := doRequest(t, srv, http.MethodPost, "/api/recommend", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if env.Error.RequestID == "" {
				t.Error("error envelope missing request_id")
			}
			if (stub.calls > 0) != tt.wantCalled {
				t.Errorf("engine called = %v, want %v", stub.calls > 0, tt.wantCalled)
			}
		})
	}
}

func TestRecommend_ErrorKindMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid parameter", fmt.Errorf("%w: min_results (5) exceeds max_results (2)", recommend.ErrInvalidParameter), http.StatusBadRequest, ErrCodeInvalidParameter},
		{"index unavailable", fmt.Errorf("%w: dial tcp: refused", recommend.ErrIndexUnavailable), http.StatusServiceUnavailable, ErrCodeIndexUnavailable},
		{"timeout", fmt.Errorf("%w after 10s", recommend.ErrTimeout), http.StatusGatewayTimeout, ErrCodeTimeout},
		{"internal", &recommend.InternalError{Op: "rank candidates", Err: errors.New("secret stack detail")}, http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &stubRecommender{err: tt.err}, nil)

			rec := doRequest(t, srv, http.MethodPost, "/api/recommend", `{"query":"data analyst"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "dial tcp") {
				t.Errorf("internal cause leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestRecommendQuery(t *testing.T) {
	t.Run("success envelope with scores", func(t *testing.T) {
		stub := &stubRecommender{resp: testResponse()}
		srv := newTestServer(t, stub, nil)

		rec := doRequest(t, srv, http.MethodGet, "/api/v1/recommend?q=java+developer&max=4&min=2", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var env struct {
			Success bool            `json:"success"`
			Data    RecommendResult `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatal(err)
		}
		if !env.Success || len(env.Data.Results) != 2 {
			t.Fatalf("unexpected payload %s", rec.Body.String())
		}
		if env.Data.Results[0].Score != 0.91 || env.Data.FetchK != 30 || env.Data.Query != "java developer" {
			t.Errorf("data = %+v", env.Data)
		}
		if stub.last.MinResults != 2 || stub.last.MaxResults != 4 {
			t.Errorf("bounds = %d..%d, want 2..4", stub.last.MinResults, stub.last.MaxResults)
		}
	})

	t.Run("malformed integer", func(t *testing.T) {
		stub := &stubRecommender{resp: testResponse()}
		srv := newTestServer(t, stub, nil)

		rec := doRequest(t, srv, http.MethodGet, "/api/v1/recommend?q=java&max=ten", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Error.Code != ErrCodeInvalidParameter {
			t.Errorf("code = %q", env.Error.Code)
		}
		if stub.calls != 0 {
			t.Error("engine must not be called")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := newTestServer(t, &stubRecommender{resp: testResponse()}, nil)

		rec := doRequest(t, srv, http.MethodGet, "/api/v1/recommend", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Error.Code != ErrCodeInvalidInput {
			t.Errorf("code = %q", env.Error.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubRecommender{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"healthy"}` {
		t.Errorf("body = %s", got)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK || !decodeEnvelope(t, rec).Success {
		t.Errorf("live: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		records    []catalog.Record
		verifyErr  error
		wantStatus int
	}{
		{"ready", testRecords(), nil, http.StatusOK},
		{"empty index", nil, nil, http.StatusServiceUnavailable},
		{"model mismatch", testRecords(), recommend.ErrModelMismatch, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &stubRecommender{verifyErr: tt.verifyErr}, tt.records)

			rec := doRequest(t, srv, http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestCatalogStats(t *testing.T) {
	srv := newTestServer(t, &stubRecommender{}, testRecords())

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/catalog/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data CatalogStats `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	stats := env.Data
	if stats.Records != 3 || stats.ModelID != "test-model" || stats.Dimension != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TestTypes["K"] != 2 || stats.TestTypes["P"] != 1 || stats.TestTypes["A"] != 1 {
		t.Errorf("histogram = %v", stats.TestTypes)
	}
	if stats.BuiltAt == "" {
		t.Error("BuiltAt should be set")
	}
}

func TestCatalogStats_EmptyIndex(t *testing.T) {
	srv := newTestServer(t, &stubRecommender{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/catalog/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"records":0`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestTestTypes(t *testing.T) {
	srv := newTestServer(t, &stubRecommender{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/catalog/test-types", "")
	var env struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data["K"] != "Knowledge & Skills Tests" || len(env.Data) != len(catalog.Codes()) {
		t.Errorf("test types = %v", env.Data)
	}
}

func TestEngineStats(t *testing.T) {
	stub := &stubRecommender{resp: testResponse()}
	srv := newTestServer(t, stub, nil)

	doRequest(t, srv, http.MethodPost, "/api/recommend", `{"query":"sales manager"}`)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/stats", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"request_count":1`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "POST /api/recommend") {
		t.Errorf("missing per-route stats: %s", rec.Body.String())
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubRecommender{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || decodeEnvelope(t, rec).Error.Code != ErrCodeNotFound {
		t.Errorf("404: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/recommend", "")
	if rec.Code != http.StatusMethodNotAllowed || decodeEnvelope(t, rec).Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("405: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t, &stubRecommender{}, nil)

	doRequest(t, srv, http.MethodGet, "/health", "")
	rec := doRequest(t, srv, http.MethodGet, "/metrics", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("metrics output missing api_requests_total")
	}
}
