// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package catalog

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Descriptions maps test-type codes to their display names.
var Descriptions = map[string]string{
	"A": "Ability & Aptitude Tests",
	"B": "Behavioral & Situational Judgment Tests",
	"C": "Competency Assessments",
	"D": "Development & Feedback Tools",
	"E": "Assessment Exercises",
	"K": "Knowledge & Skills Tests",
	"P": "Personality Assessments",
	"S": "Simulations & Interactive Assessments",
}

// keywords drive InferTestTypes. Matching is substring based on lowercased text.
var keywords = map[string][]string{
	"A": {"ability", "aptitude", "cognitive", "reasoning", "numerical", "verbal", "quantitative", "logical"},
	"B": {"situational judgement", "situational judgment", "biodata", "situational", "scenario", "judgement", "judgment"},
	"C": {"competency", "competencies", "competence", "capability", "leadership", "managerial", "collaboration"},
	"D": {"development", "360", "feedback", "coaching", "growth", "learning journey"},
	"E": {"assessment exercise", "assessment centre", "assessment center", "case study", "in-basket", "inbasket", "role-play"},
	"K": {
		"knowledge", "skill", "skills", "technical", "coding", "programming", "automation", "sql",
		"python", "excel", "marketing", "finance", "sales", "data", "analysis",
	},
	"P": {"personality", "behavior", "behaviour", "trait", "motivation", "opq", "preferences"},
	"S": {"simulation", "simulated", "virtual experience", "immersive"},
}

// fallbackTestType is assigned when no keyword matches.
const fallbackTestType = "K"

// Codes returns all known test-type codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(Descriptions))
	for c := range Descriptions {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Describe returns the display name for code, or "Unknown".
func Describe(code string) string {
	if d, ok := Descriptions[code]; ok {
		return d
	}
	return "Unknown"
}

// InferTestTypes guesses test-type codes from free text. The result is sorted
// and never empty.
func InferTestTypes(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, code := range Codes() {
		for _, kw := range keywords[code] {
			if strings.Contains(lower, kw) {
				found = append(found, code)
				break
			}
		}
	}
	if len(found) == 0 {
		return []string{fallbackTestType}
	}
	return found
}

// ParseTestTypes accepts a JSON list (["K","P"]), a single-quoted list
// literal (['K', 'P']), or a comma/semicolon separated string (K, P).
// Empty input yields nil.
func ParseTestTypes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return cleanCodes(list)
		}
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	return cleanCodes(parts)
}

// cleanCodes trims quotes and whitespace, drops empties and duplicates, and
// keeps first-seen order.
func cleanCodes(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.Trim(strings.TrimSpace(c), `'"`)
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Histogram counts records per test-type code. Records with no codes are
// counted under the empty string.
func Histogram(records []Record) map[string]int {
	h := make(map[string]int)
	for i := range records {
		if len(records[i].TestType) == 0 {
			h[""]++
			continue
		}
		for _, c := range records[i].TestType {
			h[c]++
		}
	}
	return h
}
