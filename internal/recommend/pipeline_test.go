// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package recommend_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/catalog"
	"github.com/tomtom215/assessmatch/internal/database"
	"github.com/tomtom215/assessmatch/internal/embedding"
	"github.com/tomtom215/assessmatch/internal/recommend"
	"github.com/tomtom215/assessmatch/internal/recommend/reranking"
)

// fixedModel embeds every query as the same vector so catalog scores are
// controlled entirely by the stored vectors.
type fixedModel struct {
	vec []float32
}

func (m *fixedModel) ModelID() string  { return "fixed" }
func (m *fixedModel) Dimension() int   { return len(m.vec) }
func (m *fixedModel) Provider() string { return "fixed" }
func (m *fixedModel) Close() error     { return nil }
func (m *fixedModel) Embed(context.Context, string) ([]float32, error) {
	return append([]float32(nil), m.vec...), nil
}

func pipeline(t *testing.T, model embedding.Model, snap *database.Snapshot) (*recommend.Engine, *database.MemoryIndex) {
	t.Helper()

	q, err := embedding.NewQueryEmbedder(model.ModelID(), model.Dimension(),
		func(context.Context) (embedding.Model, error) { return model, nil }, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	index := database.NewMemoryIndex()
	if snap != nil {
		if err := index.ReplaceSnapshot(context.Background(), snap); err != nil {
			t.Fatalf("ReplaceSnapshot() error = %v", err)
		}
	}

	engine, err := recommend.NewEngine(nil, q, index, reranking.NewFacetBalancer(reranking.DefaultSaturationThreshold), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return engine, index
}

// angledSnapshot gives record i the vector at angle 0.1*(i+1) from the
// x axis, so similarity to [1, 0] strictly decreases with i.
func angledSnapshot(records []catalog.Record) *database.Snapshot {
	vectors := make([][]float32, len(records))
	for i := range records {
		theta := 0.1 * float64(i+1)
		vectors[i] = []float32{float32(math.Cos(theta)), float32(math.Sin(theta))}
	}
	return &database.Snapshot{ModelID: "fixed", Dimension: 2, Records: records, Vectors: vectors}
}

func product(name string, codes ...string) catalog.Record {
	return catalog.Record{
		URL:      "https://www.example.com/products/product-catalog/view/" + name + "/",
		Name:     name,
		TestType: codes,
	}
}

func names(items []catalog.Record) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Name
	}
	return out
}

func TestPipeline_DiversityDisplacement(t *testing.T) {
	snap := angledSnapshot([]catalog.Record{
		product("K1", "K"),
		product("K2", "K"),
		product("K3", "K"),
		product("K4", "K"),
		product("P5", "P"),
	})
	engine, _ := pipeline(t, &fixedModel{vec: []float32{1, 0}}, snap)

	resp, err := engine.Recommend(context.Background(), recommend.Request{
		Query:      "Java developer who can collaborate",
		MaxResults: 3,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	got := names(resp.Items)
	want := []string{"K1", "K2", "P5"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Recommend() = %v, want %v", got, want)
	}
	if resp.TotalCandidates != 5 {
		t.Errorf("TotalCandidates = %d, want 5", resp.TotalCandidates)
	}
	if resp.Metadata.Ranker != "balanced" || resp.Metadata.FetchK != 30 {
		t.Errorf("Metadata = %+v", resp.Metadata)
	}
}

func TestPipeline_Properties(t *testing.T) {
	codes := []string{"K", "P", "A", "S", "", "B"}
	records := make([]catalog.Record, 40)
	for i := range records {
		c := codes[i%len(codes)]
		if c == "" {
			records[i] = product(fmt.Sprintf("r%02d", i))
		} else {
			records[i] = product(fmt.Sprintf("r%02d", i), c)
		}
	}
	engine, _ := pipeline(t, &fixedModel{vec: []float32{1, 0}}, angledSnapshot(records))

	for hi := 1; hi <= 20; hi++ {
		for _, lo := range []int{1, hi / 2, hi} {
			if lo == 0 {
				continue
			}
			t.Run(fmt.Sprintf("min=%d,max=%d", lo, hi), func(t *testing.T) {
				req := recommend.Request{Query: "graduate analyst", MinResults: lo, MaxResults: hi}
				a, err := engine.Recommend(context.Background(), req)
				if err != nil {
					t.Fatal(err)
				}
				if len(a.Items) > hi || len(a.Items) < lo {
					t.Errorf("len = %d, want within [%d, %d]", len(a.Items), lo, hi)
				}
				seen := map[string]bool{}
				for _, it := range a.Items {
					if seen[it.URL] {
						t.Errorf("duplicate URL %s", it.URL)
					}
					seen[it.URL] = true
				}

				b, err := engine.Recommend(context.Background(), req)
				if err != nil {
					t.Fatal(err)
				}
				if fmt.Sprint(names(a.Items)) != fmt.Sprint(names(b.Items)) {
					t.Error("identical requests returned different lists")
				}
			})
		}
	}
}

func TestPipeline_HashModelEndToEnd(t *testing.T) {
	records := []catalog.Record{
		{URL: "https://example.com/view/java-8/", Name: "Java 8", Description: "Multi-choice test of core Java programming knowledge", TestType: []string{"K"}},
		{URL: "https://example.com/view/opq32r/", Name: "OPQ32r", Description: "Occupational personality questionnaire", TestType: []string{"P"}},
		{URL: "https://example.com/view/verify-numerical/", Name: "Verify Numerical", Description: "Numerical reasoning ability test", TestType: []string{"A"}},
		{URL: "https://example.com/view/customer-service-sim/", Name: "Customer Service Simulation", Description: "Interactive call handling simulation", TestType: []string{"S"}},
		{URL: "https://example.com/view/sjt/", Name: "Graduate SJT", Description: "Situational judgement for graduates", TestType: []string{"B"}},
	}

	model, err := embedding.NewHashModel(256)
	if err != nil {
		t.Fatal(err)
	}
	builder, err := embedding.NewQueryEmbedder(model.ModelID(), model.Dimension(),
		func(context.Context) (embedding.Model, error) { return model, nil }, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	docs := make([]string, len(records))
	for i := range records {
		docs[i] = records[i].Document()
	}
	vectors, err := builder.EmbedAll(context.Background(), docs)
	if err != nil {
		t.Fatalf("EmbedAll() error = %v", err)
	}

	snap := &database.Snapshot{ModelID: model.ModelID(), Dimension: model.Dimension(), Records: records, Vectors: vectors}
	engine, _ := pipeline(t, model, snap)

	if err := engine.VerifyModel(context.Background()); err != nil {
		t.Fatalf("VerifyModel() error = %v", err)
	}

	// A query identical to a catalog document must rank that record first.
	resp, err := engine.Recommend(context.Background(), recommend.Request{
		Query:      "  " + records[2].Document() + "\n",
		MaxResults: 3,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].URL != records[2].URL {
		t.Errorf("top result = %v, want %s", names(resp.Items), records[2].Name)
	}
	if math.Abs(resp.Scores[0]-1) > 1e-5 {
		t.Errorf("top score = %v, want 1", resp.Scores[0])
	}
}

func TestPipeline_Errors(t *testing.T) {
	model := &fixedModel{vec: []float32{1, 0}}

	tests := []struct {
		name    string
		snap    *database.Snapshot
		req     recommend.Request
		wantErr error
	}{
		{
			name:    "empty catalog",
			snap:    nil,
			req:     recommend.Request{Query: "Java developer"},
			wantErr: recommend.ErrIndexUnavailable,
		},
		{
			name:    "whitespace query",
			snap:    angledSnapshot([]catalog.Record{product("K1", "K")}),
			req:     recommend.Request{Query: " \t\n "},
			wantErr: recommend.ErrInvalidInput,
		},
		{
			name:    "min above max",
			snap:    angledSnapshot([]catalog.Record{product("K1", "K")}),
			req:     recommend.Request{Query: "analyst", MinResults: 5, MaxResults: 2},
			wantErr: recommend.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := pipeline(t, model, tt.snap)
			resp, err := engine.Recommend(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
			if resp != nil {
				t.Error("no partial response may accompany an error")
			}
		})
	}
}

func TestPipeline_ModelMismatch(t *testing.T) {
	snap := angledSnapshot([]catalog.Record{product("K1", "K")})
	snap.ModelID = "sentence-transformers/all-MiniLM-L6-v2"

	engine, _ := pipeline(t, &fixedModel{vec: []float32{1, 0}}, snap)
	if err := engine.VerifyModel(context.Background()); !errors.Is(err, recommend.ErrModelMismatch) {
		t.Errorf("VerifyModel() error = %v, want ErrModelMismatch", err)
	}
}

func TestPipeline_EmptyIndexVerify(t *testing.T) {
	engine, _ := pipeline(t, &fixedModel{vec: []float32{1, 0}}, nil)
	err := engine.VerifyModel(context.Background())
	if !errors.Is(err, recommend.ErrIndexUnavailable) {
		t.Errorf("VerifyModel() error = %v, want ErrIndexUnavailable", err)
	}
}
