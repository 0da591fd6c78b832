package jsonutil

import (
	"regexp"
	"strings"
)

const codeFence = "```"

// fenceMarker matches an opening ```json (with optional newline) or a closing ```
// (with optional leading newline), wherever they appear.
var fenceMarker = regexp.MustCompile("(?i)```json\\n?|\\n?```")

// StripCodeFence removes markdown code fences around a model answer.
func StripCodeFence(raw string) string {
	return strings.TrimSpace(fenceMarker.ReplaceAllString(raw, ""))
}

// ExtractObject returns the first balanced JSON object in raw. A fenced block is
// preferred when present.
func ExtractObject(raw string) (string, bool) {
	out, _, ok := extract(raw)
	return out, ok
}

func extract(raw string) (string, int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", -1, false
	}
	lead := strings.Index(raw, trimmed)
	if obj, offset, ok := extractFromFence(trimmed); ok {
		return obj, lead + offset, true
	}
	obj, offset, ok := extractJSONObject(trimmed)
	if !ok {
		return "", -1, false
	}
	return obj, lead + offset, true
}

func extractFromFence(raw string) (string, int, bool) {
	start := strings.Index(raw, codeFence)
	if start == -1 {
		return "", -1, false
	}
	rest := raw[start+len(codeFence):]
	end := strings.Index(rest, codeFence)
	if end == -1 {
		return "", -1, false
	}
	block := rest[:end]
	offset := start + len(codeFence)
	obj, rel, ok := extractJSONObject(block)
	if !ok {
		return "", -1, false
	}
	return obj, offset + rel, true
}

func extractJSONObject(raw string) (string, int, bool) {
	start := strings.Index(raw, "{")
	if start == -1 {
		return "", -1, false
	}
	depth := 0
	inString := false
	escape := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], start, true
			}
		}
	}
	return "", -1, false
}
