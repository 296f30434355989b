// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/assessmatch/internal/catalog"
)

type indexStats struct {
	ModelID   string         `json:"model_id"`
	Dimension int            `json:"dimension"`
	Records   int            `json:"records"`
	BuiltAt   time.Time      `json:"built_at"`
	TestTypes map[string]int `json:"test_types"`
}

type searchHit struct {
	Record catalog.Record `json:"assessment"`
	Score  float64        `json:"score"`
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStats(w io.Writer, st *indexStats) {
	fmt.Fprintf(w, "Model:     %s\n", st.ModelID)
	fmt.Fprintf(w, "Dimension: %d\n", st.Dimension)
	fmt.Fprintf(w, "Records:   %d\n", st.Records)
	fmt.Fprintf(w, "Built at:  %s\n", st.BuiltAt.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, "Test types:")

	codes := make([]string, 0, len(st.TestTypes))
	for code := range st.TestTypes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		n := st.TestTypes[code]
		label := catalog.Describe(code)
		if code == "" {
			code, label = "-", "Unspecified"
		}
		fmt.Fprintf(w, "  %-2s %-40s %d\n", code, label, n)
	}
}

func printHits(w io.Writer, hits []searchHit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	for i := range hits {
		r := &hits[i].Record
		types := strings.Join(r.TestType, ", ")
		if types == "" {
			types = "Unspecified"
		}
		fmt.Fprintf(w, "Result #%d (Score: %.4f)\n", i+1, hits[i].Score)
		fmt.Fprintf(w, "Name: %s\n", r.Name)
		fmt.Fprintf(w, "URL: %s\n", r.URL)
		fmt.Fprintf(w, "Duration: %s\n", r.Duration)
		fmt.Fprintf(w, "Test Type: %s\n\n", types)
	}
}
