// Copyright (c) 2025, the pcdebug authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openstack

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The CLI renders human-oriented tables, not a stable machine contract.
// These functions absorb that instability so the traversal engine only
// ever sees clean identifiers. Every function is total: it returns a
// value or a named error, and never panics past this boundary.

var parentheticalRe = regexp.MustCompile(`\(([^)]+)\)`)

// Value extracts a single-field query response. A failed or empty result
// yields false.
func Value(res QueryResult) (string, bool) {
	if !res.OK() || res.Empty() {
		return "", false
	}
	return strings.TrimSpace(res.Output), true
}

// List extracts a list-valued query response, one entry per non-empty
// line. A failed result yields nil.
func List(res QueryResult) []string {
	if !res.OK() {
		return nil
	}
	var out []string
	for _, line := range strings.Split(res.Output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParentheticalID extracts the identifier from a "Name (uuid)" rendering.
// The match is positional: whatever sits between the first parentheses,
// independent of the name's content.
func ParentheticalID(s string) (string, bool) {
	m := parentheticalRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LiteralRecords parses a list of records rendered either as genuine JSON
// or as a Python-style literal list of dicts, which is how some table
// fields print. A parse failure is a named error for the caller to report;
// it must never abort sibling work.
func LiteralRecords(s string) ([]map[string]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") {
		return nil, fmt.Errorf("literal records: input does not start with '[': %.40q", s)
	}

	var records []map[string]any
	if err := json.Unmarshal([]byte(s), &records); err == nil {
		return records, nil
	}
	if err := json.Unmarshal([]byte(literalToJSON(s)), &records); err != nil {
		return nil, fmt.Errorf("literal records: %w", err)
	}
	return records, nil
}

// LiteralStrings parses a list of strings rendered as a Python-style
// literal, e.g. the security_group_ids field: ['id-1', 'id-2'].
func LiteralStrings(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") {
		return nil, fmt.Errorf("literal strings: input does not start with '[': %.40q", s)
	}

	var out []string
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, nil
	}
	if err := json.Unmarshal([]byte(literalToJSON(s)), &out); err != nil {
		return nil, fmt.Errorf("literal strings: %w", err)
	}
	return out, nil
}

// JSONField decodes a JSON object and returns the named top-level field.
// Used for machine-readable re-queries (-f json) where table truncation
// would otherwise corrupt the data.
func JSONField(s, key string) (any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, fmt.Errorf("json field %q: %w", key, err)
	}
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("json field %q: not present", key)
	}
	return v, nil
}

// FlavorID resolves a flavor identifier from a server's flavor field,
// whose rendering varies across deployments: "name (id)" on older
// releases, a bare literal map with an id key on newer ones. Returns
// false only when both forms fail.
func FlavorID(s string) (string, bool) {
	if id, ok := ParentheticalID(s); ok {
		return id, true
	}

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return "", false
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		if err = json.Unmarshal([]byte(literalToJSON(s)), &m); err != nil {
			return "", false
		}
	}
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// literalToJSON rewrites a Python-style literal into JSON: single-quoted
// strings become double-quoted (embedded double quotes escaped), and the
// bare words None/True/False become their JSON counterparts. Quote state
// is tracked so replacements never touch string contents.
func literalToJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch c {
			case '\'':
				b.WriteByte('"')
				inString = false
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteByte(c)
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '\'':
			b.WriteByte('"')
			inString = true
		case matchBareWord(s, i, "None"):
			b.WriteString("null")
			i += len("None") - 1
		case matchBareWord(s, i, "True"):
			b.WriteString("true")
			i += len("True") - 1
		case matchBareWord(s, i, "False"):
			b.WriteString("false")
			i += len("False") - 1
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// matchBareWord reports whether word occurs at s[i] with non-word
// characters (or boundaries) on both sides.
func matchBareWord(s string, i int, word string) bool {
	if !strings.HasPrefix(s[i:], word) {
		return false
	}
	if i > 0 && isWordChar(s[i-1]) {
		return false
	}
	end := i + len(word)
	if end < len(s) && isWordChar(s[end]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
