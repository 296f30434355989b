// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package catalog

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		url        string
		wantPrefix string
	}{
		{"scheme stripped", "https://www.shl.com/products/view/java-8-new/", "wwwshlcom-products-view-java-8-new-"},
		{"underscores become hyphens", "http://example.com/a_b", "examplecom-a-b-"},
		{"hyphen runs collapse", "https://example.com//x---y/", "examplecom-x-y-"},
		{"uppercase lowered", "https://EXAMPLE.com/Test", "examplecom-test-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Slugify(tt.url)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("Slugify(%q) = %q, want prefix %q", tt.url, got, tt.wantPrefix)
			}
			if len(got) != len(tt.wantPrefix)+8 {
				t.Errorf("Slugify(%q) = %q, want 8-char hash suffix", tt.url, got)
			}
		})
	}
}

func TestSlugify_TruncatesAndIsStable(t *testing.T) {
	t.Parallel()

	url := "https://example.com/" + strings.Repeat("segment/", 20)
	got := Slugify(url)
	if len(got) != 48+1+8 {
		t.Errorf("len(Slugify) = %d, want %d", len(got), 57)
	}
	if Slugify(url) != got {
		t.Error("Slugify should be deterministic")
	}
	if Slugify(url+"x") == got {
		t.Error("different URLs with equal truncated prefix must differ by hash suffix")
	}
}

func TestNameFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.shl.com/products/product-catalog/view/java-8-new/", "Java 8 New"},
		{"https://www.shl.com/products/product-catalog/view/verify-g-plus/", "Verify G Plus"},
		{"https://example.com/view/sales-rep/x", "Sales Rep"},
		{"", "Assessment"},
		{"nohost", "Assessment"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if got := NameFromURL(tt.url); got != tt.want {
				t.Errorf("NameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestRecord_Document(t *testing.T) {
	t.Parallel()

	r := Record{
		URL:             "https://example.com/view/java/",
		Description:     "Java knowledge test",
		Duration:        "30 minutes",
		AdaptiveSupport: true,
		TestType:        []string{"K", "P"},
	}
	want := "URL: https://example.com/view/java/\n" +
		"Duration: 30 minutes\n" +
		"Adaptive Support: Yes\n" +
		"Remote Support: No\n" +
		"Test Types: K, P\n" +
		"Description: Java knowledge test"
	if got := r.Document(); got != want {
		t.Errorf("Document() =\n%s\nwant\n%s", got, want)
	}

	empty := Record{URL: "u"}
	doc := empty.Document()
	if !strings.Contains(doc, "Duration: Unspecified") || !strings.Contains(doc, "Test Types: Unspecified") {
		t.Errorf("Document() should mark missing fields Unspecified, got %q", doc)
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	t.Parallel()

	r := Record{URL: "u", Name: "N", RemoteSupport: true}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got := string(data)
	for _, want := range []string{`"adaptive_support":"No"`, `"remote_support":"Yes"`, `"test_type":[]`} {
		if !strings.Contains(got, want) {
			t.Errorf("Marshal() = %s, missing %s", got, want)
		}
	}
	if strings.Contains(got, "Seq") || strings.Contains(got, "seq") {
		t.Errorf("Marshal() should not expose seq: %s", got)
	}
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantAdaptive bool
		wantRemote   bool
		wantTypes    []string
	}{
		{"booleans and list", `{"url":"u","adaptive_support":true,"remote_support":false,"test_type":["K","P"]}`, true, false, []string{"K", "P"}},
		{"yes/no strings", `{"url":"u","adaptive_support":"Yes","remote_support":"y","test_type":"K, P"}`, true, true, []string{"K", "P"}},
		{"numeric flag", `{"url":"u","adaptive_support":1,"test_type":null}`, true, false, nil},
		{"missing fields", `{"url":"u"}`, false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var r Record
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if r.AdaptiveSupport != tt.wantAdaptive {
				t.Errorf("AdaptiveSupport = %v, want %v", r.AdaptiveSupport, tt.wantAdaptive)
			}
			if r.RemoteSupport != tt.wantRemote {
				t.Errorf("RemoteSupport = %v, want %v", r.RemoteSupport, tt.wantRemote)
			}
			if strings.Join(r.TestType, ",") != strings.Join(tt.wantTypes, ",") {
				t.Errorf("TestType = %v, want %v", r.TestType, tt.wantTypes)
			}
		})
	}
}
