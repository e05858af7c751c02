// Package jsonextract recovers structured JSON from free-form model output.
//
// Model responses frequently wrap JSON in markdown fences, append prose after
// it, or leave trailing commas behind. Parse applies a fixed repair order and
// reports "not found" instead of failing when nothing usable is present.
package jsonextract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	leadingFenceRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFenceRe = regexp.MustCompile("\\s*```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// StripFences removes a leading ```json (or bare ```) marker and a trailing
// ``` marker from s.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(leadingFenceRe.ReplaceAllString(s, ""))
	return strings.TrimSpace(trailingFenceRe.ReplaceAllString(s, ""))
}

// StripTrailingCommas drops commas that directly precede a closing bracket.
func StripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// FirstBlock returns the first balanced {...} or [...] span of s.
// Brackets inside string literals are ignored, including escaped quotes.
func FirstBlock(s string) (string, bool) {
	var (
		inString bool
		escaped  bool
		depth    int
		start    = -1
	)
	// Structural characters are ASCII, so a byte scan is safe on UTF-8 input.
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			if depth == 0 {
				start = i
			}
			depth++
		case '}', ']':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Parse extracts a JSON value from model output. The repair order is:
//
//  1. the first balanced block, as-is
//  2. the same block with trailing commas removed
//  3. a line-by-line scan that collects every block that parses on its own;
//     the collected values are returned as a []any
//
// ok is false when nothing parses. Callers must treat that as "no structured
// result", not as an empty object.
func Parse(raw string) (value any, ok bool) {
	s := StripFences(raw)

	if block, found := FirstBlock(s); found {
		if v, err := decode(block); err == nil {
			return v, true
		}
		if v, err := decode(StripTrailingCommas(block)); err == nil {
			return v, true
		}
	}

	var (
		collected []any
		buf       strings.Builder
	)
	for _, line := range strings.Split(s, "\n") {
		buf.WriteString(strings.TrimSpace(line))
		block, found := FirstBlock(buf.String())
		if !found {
			continue
		}
		if v, err := decode(block); err == nil {
			collected = append(collected, v)
			buf.Reset()
		}
	}
	if len(collected) > 0 {
		return collected, true
	}
	return nil, false
}

func decode(block string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return nil, err
	}
	return v, nil
}
