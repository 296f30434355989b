// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

// Package catalog holds the assessment record model and the loaders that
// turn catalog files into records ready for embedding.
package catalog

import (
	"crypto/md5" //nolint:gosec // md5 is a stable short id suffix, not a security primitive
	"encoding/hex"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record is a single assessment product. Records are immutable after load.
type Record struct {
	// URL is the canonical product URL and the record's unique key.
	URL string

	// Name is the display name. Derived from the URL when the source omits it.
	Name string

	Description string

	// Duration is a display string such as "30 minutes". Empty when unknown.
	Duration string

	AdaptiveSupport bool
	RemoteSupport   bool

	// TestType holds zero or more single-letter category codes (see Descriptions).
	TestType []string

	// Seq is the insertion order in the catalog, used to break score ties.
	Seq int
}

// recordJSON is the client-facing wire shape.
type recordJSON struct {
	URL             string   `json:"url"`
	Name            string   `json:"name"`
	AdaptiveSupport yesNo    `json:"adaptive_support"`
	Description     string   `json:"description"`
	Duration        string   `json:"duration"`
	RemoteSupport   yesNo    `json:"remote_support"`
	TestType        []string `json:"test_type"`
}

// MarshalJSON renders support flags as "Yes"/"No" and test_type as an array, never null.
func (r Record) MarshalJSON() ([]byte, error) { //nolint:gocritic // hugeParam: value receiver so both Record and *Record marshal
	tt := r.TestType
	if tt == nil {
		tt = []string{}
	}
	return json.Marshal(recordJSON{
		URL:             r.URL,
		Name:            r.Name,
		AdaptiveSupport: yesNo(r.AdaptiveSupport),
		Description:     r.Description,
		Duration:        r.Duration,
		RemoteSupport:   yesNo(r.RemoteSupport),
		TestType:        tt,
	})
}

// UnmarshalJSON accepts booleans or "Yes"/"No"/"true"/"1" strings for the
// support flags, and a list or delimited string for test_type.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		URL             string          `json:"url"`
		Name            string          `json:"name"`
		AdaptiveSupport json.RawMessage `json:"adaptive_support"`
		Description     string          `json:"description"`
		Duration        string          `json:"duration"`
		RemoteSupport   json.RawMessage `json:"remote_support"`
		TestType        json.RawMessage `json:"test_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.URL = strings.TrimSpace(raw.URL)
	r.Name = strings.TrimSpace(raw.Name)
	r.Description = strings.TrimSpace(raw.Description)
	r.Duration = strings.TrimSpace(raw.Duration)
	r.AdaptiveSupport = parseRawBool(raw.AdaptiveSupport)
	r.RemoteSupport = parseRawBool(raw.RemoteSupport)

	var list []string
	if len(raw.TestType) > 0 && json.Unmarshal(raw.TestType, &list) == nil {
		r.TestType = cleanCodes(list)
		return nil
	}
	var s string
	if len(raw.TestType) > 0 && json.Unmarshal(raw.TestType, &s) == nil {
		r.TestType = ParseTestTypes(s)
	}
	return nil
}

type yesNo bool

func (b yesNo) MarshalJSON() ([]byte, error) {
	if b {
		return []byte(`"Yes"`), nil
	}
	return []byte(`"No"`), nil
}

func parseRawBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return ParseBool(s)
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return n == 1
	}
	return false
}

// ID returns a stable, filesystem-safe identifier derived from the URL.
func (r *Record) ID() string {
	return Slugify(r.URL)
}

// Document is the text embedded for this record. Query and catalog text go
// through the same normalization before reaching the model.
func (r *Record) Document() string {
	duration := r.Duration
	if duration == "" {
		duration = "Unspecified"
	}
	types := strings.Join(r.TestType, ", ")
	if types == "" {
		types = "Unspecified"
	}

	var b strings.Builder
	b.WriteString("URL: ")
	b.WriteString(r.URL)
	b.WriteString("\nDuration: ")
	b.WriteString(duration)
	b.WriteString("\nAdaptive Support: ")
	b.WriteString(yesNoString(r.AdaptiveSupport))
	b.WriteString("\nRemote Support: ")
	b.WriteString(yesNoString(r.RemoteSupport))
	b.WriteString("\nTest Types: ")
	b.WriteString(types)
	b.WriteString("\nDescription: ")
	b.WriteString(r.Description)
	return b.String()
}

// HasTestType reports whether code is one of the record's test types.
func (r *Record) HasTestType(code string) bool {
	for _, c := range r.TestType {
		if c == code {
			return true
		}
	}
	return false
}

func yesNoString(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

const maxSlugLen = 48

// Slugify lowercases the URL, drops the scheme, maps path separators to
// hyphens, removes everything outside [a-z0-9-], collapses hyphen runs,
// truncates to 48 characters, and appends the first 8 hex digits of md5(url).
func Slugify(url string) string {
	safe := strings.ToLower(url)
	safe = strings.ReplaceAll(safe, "https://", "")
	safe = strings.ReplaceAll(safe, "http://", "")
	safe = strings.NewReplacer("/", "-", "_", "-").Replace(safe)

	var b strings.Builder
	b.Grow(len(safe))
	prevHyphen := false
	for _, c := range safe {
		switch {
		case c == '-':
			if !prevHyphen {
				b.WriteRune(c)
			}
			prevHyphen = true
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			b.WriteRune(c)
			prevHyphen = false
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}

	sum := md5.Sum([]byte(url)) //nolint:gosec // see import
	return slug + "-" + hex.EncodeToString(sum[:])[:8]
}

// NameFromURL derives a display name from the second-to-last path segment,
// e.g. ".../view/java-8-new/" becomes "Java 8 New".
func NameFromURL(url string) string {
	if url == "" {
		return "Assessment"
	}
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return "Assessment"
	}
	seg := strings.ReplaceAll(parts[len(parts)-2], "-", " ")
	if strings.TrimSpace(seg) == "" {
		return "Assessment"
	}
	// Casers carry state and are not shared between goroutines.
	return cases.Title(language.English).String(seg)
}
