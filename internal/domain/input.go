package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// maxPayloadDepth bounds the walk over nested payloads so adversarial
// input cannot force unbounded recursion.
const maxPayloadDepth = 32

// ExtractQueryText cleans a raw query: if a structured JSON payload
// trails the free text, its string values (recursively) are appended to
// the text. Input with no detectable payload passes through as-is.
func ExtractQueryText(raw string) string {
	idx := strings.Index(raw, "{")
	if idx <= 0 {
		return raw
	}

	textPart := strings.TrimSpace(raw[:idx])

	var payload any
	if err := json.Unmarshal([]byte(raw[idx:]), &payload); err != nil {
		return textPart
	}

	values := collectStrings(payload, 0)
	if len(values) == 0 {
		return textPart
	}
	return textPart + " " + strings.Join(values, " ")
}

// collectStrings walks the decoded payload (object / array / scalar)
// and gathers string values in order. Object keys are visited sorted,
// since Go map iteration order is randomized.
func collectStrings(node any, depth int) []string {
	if depth > maxPayloadDepth {
		return nil
	}

	switch v := node.(type) {
	case string:
		return []string{v}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var out []string
		for _, k := range keys {
			out = append(out, collectStrings(v[k], depth+1)...)
		}
		return out
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, collectStrings(item, depth+1)...)
		}
		return out
	default:
		// Numbers, booleans and nulls carry no query text.
		return nil
	}
}
