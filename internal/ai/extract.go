package ai

import (
	"encoding/json"
	"strings"
)

// ExtractedJSON is the outcome of scanning model output for an embedded
// JSON document. Exactly one of Raw or Failure is set; extraction itself
// never returns an error.
type ExtractedJSON struct {
	Raw     json.RawMessage
	Failure *ParseFailure
}

// ParseFailure captures why no JSON document could be recovered, keeping
// the raw model output for logging and debugging.
type ParseFailure struct {
	Raw    string
	Reason string
}

// OK reports whether a JSON document was recovered.
func (e ExtractedJSON) OK() bool {
	return e.Failure == nil
}

// Extract scans free-form model output for balanced JSON regions and
// returns the largest one that parses as valid JSON. Models routinely wrap
// their JSON in prose ("Here is the analysis: {...} Hope this helps!"), so
// a plain unmarshal of the whole text is not enough.
func Extract(text string) ExtractedJSON {
	return pickRegion(text, balancedRegions(text))
}

// ExtractArray behaves like Extract but prefers top-level array regions,
// for operations whose contract is a JSON array. When no array region
// parses, object regions are still considered so that an array wrapped in
// an envelope object can be recovered by the caller.
func ExtractArray(text string) ExtractedJSON {
	regions := balancedRegions(text)

	var arrays, objects []string
	for _, r := range regions {
		if strings.HasPrefix(r, "[") {
			arrays = append(arrays, r)
		} else {
			objects = append(objects, r)
		}
	}

	if result := pickRegion(text, arrays); result.OK() {
		return result
	}
	return pickRegion(text, objects)
}

// pickRegion tries candidate regions largest-first and returns the first
// one that is valid JSON.
func pickRegion(text string, regions []string) ExtractedJSON {
	if len(regions) == 0 {
		return ExtractedJSON{Failure: &ParseFailure{
			Raw:    text,
			Reason: "no balanced JSON region found in response",
		}}
	}

	// Largest region wins; scan order breaks ties.
	ordered := make([]string, len(regions))
	copy(ordered, regions)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && len(ordered[j]) > len(ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	for _, candidate := range ordered {
		if json.Valid([]byte(candidate)) {
			return ExtractedJSON{Raw: json.RawMessage(candidate)}
		}
	}

	return ExtractedJSON{Failure: &ParseFailure{
		Raw:    text,
		Reason: "balanced JSON regions found but none parsed as valid JSON",
	}}
}

// balancedRegions collects every top-level balanced {...} or [...] region
// in the text. The scanner is string-aware: brackets inside JSON string
// literals (including escaped quotes) do not affect nesting depth.
// Unterminated or mismatched regions are discarded.
func balancedRegions(text string) []string {
	var regions []string

	var stack []byte
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
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
			// Quotes in prose outside any region carry no meaning.
			if len(stack) > 0 {
				inString = true
			}
		case '{', '[':
			if len(stack) == 0 {
				start = i
			}
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				continue // stray close in prose
			}
			open := stack[len(stack)-1]
			if (c == '}' && open != '{') || (c == ']' && open != '[') {
				// Mismatched bracket: the whole pending region is malformed.
				stack = stack[:0]
				start = -1
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 && start >= 0 {
				regions = append(regions, text[start:i+1])
				start = -1
			}
		}
	}

	return regions
}
