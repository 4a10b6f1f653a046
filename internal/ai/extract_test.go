package ai

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtractPlainObject(t *testing.T) {
	result := Extract(`{"overallScore": 85, "summary": "Strong candidate"}`)
	if !result.OK() {
		t.Fatalf("Expected successful extraction, got failure: %s", result.Failure.Reason)
	}

	var obj map[string]any
	if err := json.Unmarshal(result.Raw, &obj); err != nil {
		t.Fatalf("Extracted region is not valid JSON: %v", err)
	}
	if obj["overallScore"].(float64) != 85 {
		t.Errorf("Expected overallScore 85, got %v", obj["overallScore"])
	}
}

func TestExtractObjectWrappedInProse(t *testing.T) {
	text := `Here is the analysis you asked for:

{"overallScore": 72, "summary": "Solid resume"}

Hope this helps! Let me know if you need anything else.`

	result := Extract(text)
	if !result.OK() {
		t.Fatalf("Expected extraction from prose-wrapped response, got failure: %s", result.Failure.Reason)
	}

	var obj map[string]any
	if err := json.Unmarshal(result.Raw, &obj); err != nil {
		t.Fatalf("Extracted region is not valid JSON: %v", err)
	}
	if obj["summary"] != "Solid resume" {
		t.Errorf("Expected summary 'Solid resume', got %v", obj["summary"])
	}
}

func TestExtractBracketsInsideStrings(t *testing.T) {
	// Braces inside string literals must not affect nesting depth.
	text := `Result: {"summary": "Uses C++ and {templates}", "note": "see [1] for details"}`

	result := Extract(text)
	if !result.OK() {
		t.Fatalf("Expected extraction with braces inside strings, got failure: %s", result.Failure.Reason)
	}

	var obj map[string]string
	if err := json.Unmarshal(result.Raw, &obj); err != nil {
		t.Fatalf("Extracted region is not valid JSON: %v", err)
	}
	if obj["summary"] != "Uses C++ and {templates}" {
		t.Errorf("String content was mangled: %q", obj["summary"])
	}
}

func TestExtractEscapedQuotesInsideStrings(t *testing.T) {
	text := `{"summary": "She said \"hire them\" twice}"}`

	result := Extract(text)
	if !result.OK() {
		t.Fatalf("Expected extraction with escaped quotes, got failure: %s", result.Failure.Reason)
	}
	if !json.Valid(result.Raw) {
		t.Error("Extracted region is not valid JSON")
	}
}

func TestExtractLargestRegionWins(t *testing.T) {
	text := `First a small one {"a": 1} and then the real payload {"overallScore": 90, "summary": "Detailed analysis", "strengths": ["clear", "concise"]}`

	result := Extract(text)
	if !result.OK() {
		t.Fatalf("Expected extraction, got failure: %s", result.Failure.Reason)
	}

	var obj map[string]any
	if err := json.Unmarshal(result.Raw, &obj); err != nil {
		t.Fatalf("Extracted region is not valid JSON: %v", err)
	}
	if _, hasScore := obj["overallScore"]; !hasScore {
		t.Error("Expected the larger region to win, got the smaller one")
	}
}

func TestExtractFallsBackWhenLargestInvalid(t *testing.T) {
	// The largest balanced region has a trailing comma and is invalid JSON;
	// the smaller valid one should be returned instead.
	text := `{"broken": "payload", "with": "a much longer body that is invalid",} and {"valid": true}`

	result := Extract(text)
	if !result.OK() {
		t.Fatalf("Expected fallback to smaller valid region, got failure: %s", result.Failure.Reason)
	}

	var obj map[string]bool
	if err := json.Unmarshal(result.Raw, &obj); err != nil {
		t.Fatalf("Extracted region is not valid JSON: %v", err)
	}
	if !obj["valid"] {
		t.Error("Expected the valid region to be selected")
	}
}

func TestExtractNoJSON(t *testing.T) {
	result := Extract("The resume looks great overall, no structured data here.")
	if result.OK() {
		t.Fatal("Expected failure for prose without JSON")
	}
	if result.Failure.Raw == "" {
		t.Error("Failure should preserve the raw response text")
	}
	if !strings.Contains(result.Failure.Reason, "no balanced JSON region") {
		t.Errorf("Unexpected failure reason: %s", result.Failure.Reason)
	}
}

func TestExtractUnterminatedRegion(t *testing.T) {
	result := Extract(`{"summary": "never closed`)
	if result.OK() {
		t.Fatal("Expected failure for unterminated region")
	}
}

func TestExtractMismatchedBrackets(t *testing.T) {
	result := Extract(`{"list": [1, 2}`)
	if result.OK() {
		t.Fatal("Expected failure for mismatched brackets")
	}
}

func TestExtractStrayClosersInProse(t *testing.T) {
	text := `Weird prose with ] stray } closers, then {"ok": true} at the end.`

	result := Extract(text)
	if !result.OK() {
		t.Fatalf("Stray closers in prose should be ignored, got failure: %s", result.Failure.Reason)
	}
}

func TestExtractArrayPrefersArrays(t *testing.T) {
	text := `Summary object first {"count": 2} then the list [{"title": "SRE"}, {"title": "Platform Engineer"}]`

	result := ExtractArray(text)
	if !result.OK() {
		t.Fatalf("Expected array extraction, got failure: %s", result.Failure.Reason)
	}

	var items []map[string]string
	if err := json.Unmarshal(result.Raw, &items); err != nil {
		t.Fatalf("Expected a JSON array, got: %s", result.Raw)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(items))
	}
}

func TestExtractArrayFallsBackToObject(t *testing.T) {
	// No array present: an envelope object should still be recovered so the
	// normalizer can unwrap it.
	text := `{"suggestions": [{"title": "Data Engineer"}]}`

	result := ExtractArray(text)
	if !result.OK() {
		t.Fatalf("Expected object fallback, got failure: %s", result.Failure.Reason)
	}
	if !strings.HasPrefix(string(result.Raw), "{") {
		t.Errorf("Expected an object region, got: %s", result.Raw)
	}
}

func TestExtractArrayNone(t *testing.T) {
	result := ExtractArray("no data at all")
	if result.OK() {
		t.Fatal("Expected failure when nothing is present")
	}
}
