// Package llm wraps the optional text-generation collaborator. The core runs
// fine without one; components that take a Generator must treat nil as
// "unavailable" and use their deterministic fallbacks.
package llm

import "context"

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ExtractJSON returns the first balanced brace-delimited substring of s.
// Model output often wraps the requested JSON object in prose or code fences;
// callers parse the extracted object and fall back on their rule tier when
// nothing usable is found.
func ExtractJSON(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}
