package ai

import (
	"encoding/json"
	"strings"
)

// Extractor finds one JSON literal opened by open ('[' or '{') inside free
// text. fits narrows the literals a caller accepts; nil accepts any valid
// JSON. Generators depend on this interface so the heuristic can change
// without touching callers.
type Extractor interface {
	Extract(text string, open byte, fits func(raw string) bool) (string, bool)
}

// FirstMatch takes the span from the first opener to the last matching
// closer. When that span does not fit it scans the balanced literals left
// to right and returns the first one that does.
type FirstMatch struct{}

func (FirstMatch) Extract(text string, open byte, fits func(raw string) bool) (string, bool) {
	closer, ok := closerFor(open)
	if !ok {
		return "", false
	}
	accept := func(raw string) bool {
		return json.Valid([]byte(raw)) && (fits == nil || fits(raw))
	}
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closer)
	if start < 0 || end <= start {
		return "", false
	}
	if span := text[start : end+1]; accept(span) {
		return span, true
	}
	for i := start; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		if j, ok := balancedEnd(text, i, open, closer); ok && accept(text[i:j+1]) {
			return text[i : j+1], true
		}
	}
	return "", false
}

func closerFor(open byte) (byte, bool) {
	switch open {
	case '[':
		return ']', true
	case '{':
		return '}', true
	default:
		return 0, false
	}
}

// balancedEnd returns the index of the closer that balances text[start],
// skipping brackets inside JSON strings.
func balancedEnd(text string, start int, open, closer byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
