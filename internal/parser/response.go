package parser

import (
	"strings"
)

// CleanModelResponse isolates the JSON array in a raw model response.
// Everything from the sentinel on is dropped, then code fences and any
// preamble, and finally the text between the first '[' and the last ']' is kept.
func CleanModelResponse(raw string) (string, error) {
	s := raw
	if idx := strings.Index(s, Sentinel); idx >= 0 {
		s = s[:idx]
	}

	s = stripCodeFences(s)

	start := arrayStart(s)
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", ErrNoJSONArray
	}
	return s[start : end+1], nil
}

// arrayStart returns the index of the first '[' that opens an array of
// objects (or an empty array), so bracketed preamble like "[debug]" is
// skipped. Falls back to the first '['.
func arrayStart(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' {
			continue
		}
		rest := strings.TrimLeft(s[i+1:], " \t\r\n")
		if strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "]") {
			return i
		}
	}
	return strings.Index(s, "[")
}

// stripCodeFences removes markdown fence lines such as "```json" and "```".
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
