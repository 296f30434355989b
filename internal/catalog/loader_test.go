// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `url,name,description,duration,adaptive_support,remote_support,test_type
https://example.com/view/java-8/,Java 8,Java knowledge test,30 minutes,no,yes,"['K']"
https://example.com/view/opq/,,Personality questionnaire,25 minutes,Yes,1,"[""P""]"
https://example.com/view/java-8/,Dup,dup row,,,,K
https://example.com/view/verify/,Verify,Numerical reasoning,,true,y,"A, K"
,Missing,no url,,,,
https://example.com/view/blank/,Blank,Leadership and coaching,,,,
`

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	records, err := LoadCSV(strings.NewReader(sampleCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("len(records) = %d, want 4 (duplicate and url-less rows dropped)", len(records))
	}

	for i, r := range records {
		if r.Seq != i {
			t.Errorf("records[%d].Seq = %d, want %d", i, r.Seq, i)
		}
	}

	java := records[0]
	if java.Name != "Java 8" || java.AdaptiveSupport || !java.RemoteSupport {
		t.Errorf("java record = %+v", java)
	}
	if !reflect.DeepEqual(java.TestType, []string{"K"}) {
		t.Errorf("java TestType = %v, want [K]", java.TestType)
	}

	opq := records[1]
	if opq.Name != "Opq" {
		t.Errorf("derived Name = %q, want Opq", opq.Name)
	}
	if !opq.AdaptiveSupport || !opq.RemoteSupport {
		t.Errorf("opq flags = %v/%v, want true/true", opq.AdaptiveSupport, opq.RemoteSupport)
	}
	if !reflect.DeepEqual(opq.TestType, []string{"P"}) {
		t.Errorf("opq TestType = %v, want [P]", opq.TestType)
	}

	if !reflect.DeepEqual(records[2].TestType, []string{"A", "K"}) {
		t.Errorf("verify TestType = %v, want [A K]", records[2].TestType)
	}
	if len(records[3].TestType) != 0 {
		t.Errorf("blank TestType = %v, want empty without inference", records[3].TestType)
	}
}

func TestLoadCSV_InferTestTypes(t *testing.T) {
	t.Parallel()

	records, err := LoadCSV(strings.NewReader(sampleCSV), LoadOptions{InferTestTypes: true})
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	blank := records[3]
	if !reflect.DeepEqual(blank.TestType, []string{"C", "D"}) {
		t.Errorf("inferred TestType = %v, want [C D]", blank.TestType)
	}
	// explicit codes are never overwritten
	if !reflect.DeepEqual(records[0].TestType, []string{"K"}) {
		t.Errorf("explicit TestType changed to %v", records[0].TestType)
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadCSV(strings.NewReader("name,description\nx,y\n"), LoadOptions{}); !errors.Is(err, ErrNoURLColumn) {
		t.Errorf("LoadCSV() error = %v, want ErrNoURLColumn", err)
	}

	records, err := LoadCSV(strings.NewReader(""), LoadOptions{})
	if err != nil || len(records) != 0 {
		t.Errorf("LoadCSV(empty) = %v, %v; want no records, nil", records, err)
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	input := `[
		{"url":"https://example.com/view/a/","description":"A","adaptive_support":"Yes","remote_support":true,"test_type":["K"]},
		{"url":"https://example.com/view/a/","description":"dup"},
		{"url":"https://example.com/view/b/","name":"B","test_type":"P; S"}
	]`
	records, err := LoadJSON(strings.NewReader(input), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Description != "A" {
		t.Errorf("first occurrence should win, got %q", records[0].Description)
	}
	if !reflect.DeepEqual(records[1].TestType, []string{"P", "S"}) {
		t.Errorf("TestType = %v, want [P S]", records[1].TestType)
	}
	if records[1].Seq != 1 {
		t.Errorf("Seq = %d, want 1", records[1].Seq)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "catalog.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	records, err := LoadFile(csvPath, LoadOptions{})
	if err != nil || len(records) != 4 {
		t.Errorf("LoadFile(csv) = %d records, %v", len(records), err)
	}

	if _, err := LoadFile(filepath.Join(dir, "catalog.xml"), LoadOptions{}); err == nil {
		t.Error("LoadFile(missing) should fail")
	}

	xmlPath := filepath.Join(dir, "catalog.xml")
	if err := os.WriteFile(xmlPath, []byte("<x/>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(xmlPath, LoadOptions{}); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("LoadFile(xml) error = %v, want unsupported format", err)
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"true", "TRUE", "1", "yes", "Yes", " y "} {
		if !ParseBool(in) {
			t.Errorf("ParseBool(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"", "false", "0", "no", "n", "maybe"} {
		if ParseBool(in) {
			t.Errorf("ParseBool(%q) = true, want false", in)
		}
	}
}
