package ai

import (
	"encoding/json"
	"testing"
	"time"

	"resumelens/internal/types"
)

var testAnalyzedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func extractedFrom(t *testing.T, text string) ExtractedJSON {
	t.Helper()
	result := Extract(text)
	if !result.OK() {
		t.Fatalf("Test fixture did not extract: %s", result.Failure.Reason)
	}
	return result
}

func TestNormalizeAnalysisFullResponse(t *testing.T) {
	response := `{
		"overallScore": 82,
		"summary": "Experienced platform engineer with strong cloud background",
		"strengths": ["Clear impact statements", "Relevant certifications"],
		"weaknesses": ["No portfolio link"],
		"extractedSkills": [
			{"name": "Go", "category": "Technical", "level": "Advanced", "confidence": 95, "years": 6},
			{"name": "Mentoring", "category": "soft", "level": "intermediate", "confidence": 80, "years": 3}
		],
		"experience": {
			"totalYears": 9,
			"roles": [
				{"title": "Staff Engineer", "company": "Acme", "duration": "2020-2024", "highlights": ["Led migration to Kubernetes"]}
			]
		},
		"education": [
			{"degree": "BSc Computer Science", "institution": "State University", "year": "2015", "gpa": "3.8"}
		],
		"improvements": [
			{"type": "Content", "section": "Summary", "priority": "High", "original": "old", "suggested": "new", "reason": "stronger opening"}
		],
		"atsCompatibility": {
			"score": 78,
			"parsing_success": true,
			"format_issues": ["Tables in header"],
			"keyword_optimization": 70,
			"recommendations": ["Use standard section names"]
		},
		"careerSuggestions": [
			{"title": "Platform Lead", "industry": "Cloud", "match_score": 88, "required_skills": ["Go", "Kubernetes"], "salary_range": "$170k-$210k", "growth_potential": "High", "reasoning": "direct experience"}
		],
		"skillGaps": [
			{"skill": "Rust", "importance": "Medium", "current_level": "None", "required_level": "Intermediate", "learning_resources": ["The Rust Book"], "estimated_time": "6 months"}
		],
		"industryBenchmark": {
			"industry": "Cloud Infrastructure",
			"percentile": 85,
			"comparison": "above average",
			"marketTrends": ["Platform engineering demand rising"]
		},
		"contactInfo": {"email": "jane@example.com", "phone": "555-0100", "linkedin": "linkedin.com/in/jane", "github": "github.com/jane", "portfolio": ""},
		"keywords": ["go", "kubernetes", "terraform"],
		"readabilityScore": 88,
		"formattingScore": 75,
		"impactScore": 80
	}`

	record := NormalizeAnalysis(extractedFrom(t, response), "resume text", "Perplexity AI", testAnalyzedAt)

	if record.OverallScore != 82 {
		t.Errorf("Expected overall score 82, got %d", record.OverallScore)
	}
	if record.Summary != "Experienced platform engineer with strong cloud background" {
		t.Errorf("Unexpected summary: %q", record.Summary)
	}
	if len(record.ExtractedSkills) != 2 {
		t.Fatalf("Expected 2 skills, got %d", len(record.ExtractedSkills))
	}
	// Case-insensitive enum matching canonicalizes member casing.
	if record.ExtractedSkills[1].Category != types.SkillCategorySoft {
		t.Errorf("Expected Soft category, got %q", record.ExtractedSkills[1].Category)
	}
	if record.ExtractedSkills[1].Level != types.SkillLevelIntermediate {
		t.Errorf("Expected Intermediate level, got %q", record.ExtractedSkills[1].Level)
	}
	if record.Experience.TotalYears != 9 {
		t.Errorf("Expected 9 total years, got %d", record.Experience.TotalYears)
	}
	if len(record.Experience.Roles) != 1 || record.Experience.Roles[0].Company != "Acme" {
		t.Errorf("Roles not normalized: %+v", record.Experience.Roles)
	}
	if record.IndustryBenchmark == nil || record.IndustryBenchmark.Percentile != 85 {
		t.Errorf("Industry benchmark not normalized: %+v", record.IndustryBenchmark)
	}
	if record.ContactInfo.Email != "jane@example.com" {
		t.Errorf("Contact info not normalized: %+v", record.ContactInfo)
	}
	if !record.ATSCompatibility.ParsingSuccess {
		t.Error("Expected parsing_success true")
	}
	if record.ExtractedText != "resume text" {
		t.Errorf("Expected source text provenance, got %q", record.ExtractedText)
	}
	if record.AIProvider != "Perplexity AI" {
		t.Errorf("Expected provider provenance, got %q", record.AIProvider)
	}
	if !record.AnalyzedAt.Equal(testAnalyzedAt) {
		t.Errorf("Expected analyzedAt provenance, got %v", record.AnalyzedAt)
	}
}

func TestNormalizeAnalysisParseFailure(t *testing.T) {
	extracted := Extract("the model rambled and produced no JSON at all")
	if extracted.OK() {
		t.Fatal("Fixture should not extract")
	}

	record := NormalizeAnalysis(extracted, "source", "Perplexity AI", testAnalyzedAt)

	if record.Summary != "No summary available" {
		t.Errorf("Expected default summary, got %q", record.Summary)
	}
	if record.OverallScore != 0 {
		t.Errorf("Expected zero score, got %d", record.OverallScore)
	}
	if record.ATSCompatibility.ParsingSuccess {
		t.Error("Parse failure must mark ATS parsing unsuccessful")
	}
	if record.IndustryBenchmark != nil {
		t.Error("Expected nil industry benchmark on failure")
	}
	if record.Strengths == nil || record.Weaknesses == nil || record.Keywords == nil {
		t.Error("Array fields must default to empty slices, not nil")
	}
	if record.ExtractedText != "source" || record.AIProvider != "Perplexity AI" {
		t.Error("Provenance must be set even on parse failure")
	}
}

func TestNormalizeAnalysisMalformedFieldsDegradeLocally(t *testing.T) {
	// One bad field must not take down its neighbors.
	response := `{
		"overallScore": "not a number at all",
		"summary": "Still a good summary",
		"strengths": "should have been an array",
		"extractedSkills": [{"name": "Go"}, "not an object"],
		"experience": "wrong shape",
		"industryBenchmark": "wrong shape too"
	}`

	record := NormalizeAnalysis(extractedFrom(t, response), "src", "Perplexity AI", testAnalyzedAt)

	if record.OverallScore != 0 {
		t.Errorf("Non-numeric score should become 0, got %d", record.OverallScore)
	}
	if record.Summary != "Still a good summary" {
		t.Errorf("Valid neighbor field was lost: %q", record.Summary)
	}
	if len(record.Strengths) != 0 {
		t.Errorf("Malformed array should become empty, got %v", record.Strengths)
	}
	if len(record.ExtractedSkills) != 1 || record.ExtractedSkills[0].Name != "Go" {
		t.Errorf("Valid skill entries should survive malformed siblings: %+v", record.ExtractedSkills)
	}
	if record.Experience.TotalYears != 0 || record.Experience.Roles == nil {
		t.Errorf("Malformed experience should default: %+v", record.Experience)
	}
	if record.IndustryBenchmark != nil {
		t.Error("Malformed benchmark should become nil")
	}
}

func TestNormalizeEnumFallbacks(t *testing.T) {
	response := `{
		"improvements": [
			{"type": "Content", "section": "s", "priority": "URGENT!!", "suggested": "x", "reason": "y"},
			{"type": "Content", "section": "s", "priority": 42, "suggested": "x", "reason": "y"},
			{"type": "Content", "section": "s", "priority": "medium", "suggested": "x", "reason": "y"}
		]
	}`

	record := NormalizeAnalysis(extractedFrom(t, response), "src", "Perplexity AI", testAnalyzedAt)

	if len(record.Improvements) != 3 {
		t.Fatalf("Expected 3 improvements, got %d", len(record.Improvements))
	}
	// Unknown text and wrong types both take the conservative fallback.
	if record.Improvements[0].Priority != types.PriorityLow {
		t.Errorf("Unknown enum text should fall back to Low, got %q", record.Improvements[0].Priority)
	}
	if record.Improvements[1].Priority != types.PriorityLow {
		t.Errorf("Numeric enum value should fall back to Low, got %q", record.Improvements[1].Priority)
	}
	if record.Improvements[2].Priority != types.PriorityMedium {
		t.Errorf("Case-insensitive match should canonicalize, got %q", record.Improvements[2].Priority)
	}
}

func TestNormalizeScoreClamping(t *testing.T) {
	response := `{"overallScore": 250, "readabilityScore": -10, "formattingScore": "85", "impactScore": 60.7}`

	record := NormalizeAnalysis(extractedFrom(t, response), "src", "Perplexity AI", testAnalyzedAt)

	if record.OverallScore != 100 {
		t.Errorf("Score above range should clamp to 100, got %d", record.OverallScore)
	}
	if record.ReadabilityScore != 0 {
		t.Errorf("Negative score should clamp to 0, got %d", record.ReadabilityScore)
	}
	if record.FormattingScore != 85 {
		t.Errorf("Numeric string should coerce, got %d", record.FormattingScore)
	}
	if record.ImpactScore != 61 {
		t.Errorf("Fractional score should round, got %d", record.ImpactScore)
	}
}

func TestNormalizeAnalysisIdempotent(t *testing.T) {
	response := `{
		"overallScore": 77,
		"summary": "Fine",
		"extractedSkills": [{"name": "Go", "category": "technical", "level": "EXPERT", "confidence": 90, "years": 5}],
		"improvements": [{"type": "skills", "section": "s", "priority": "high", "suggested": "x", "reason": "y"}]
	}`

	first := NormalizeAnalysis(extractedFrom(t, response), "src", "Perplexity AI", testAnalyzedAt)

	// Re-normalizing the normalized output must not change it.
	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Failed to marshal record: %v", err)
	}
	second := NormalizeAnalysis(ExtractedJSON{Raw: encoded}, first.ExtractedText, first.AIProvider, first.AnalyzedAt)

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("Normalization is not idempotent:\nfirst:  %s\nsecond: %s", firstJSON, secondJSON)
	}
}

func TestNormalizeCareerSuggestionsArray(t *testing.T) {
	extracted := ExtractArray(`Here are your options: [
		{"title": "SRE", "industry": "Infrastructure", "match_score": 91, "required_skills": ["Go"], "salary_range": "$150k", "growth_potential": "high", "reasoning": "fit"},
		{"title": "Backend Engineer", "industry": "SaaS", "match_score": 84, "growth_potential": "bogus"}
	]`)

	suggestions := NormalizeCareerSuggestions(extracted)

	if len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].GrowthPotential != types.GrowthHigh {
		t.Errorf("Expected canonicalized High, got %q", suggestions[0].GrowthPotential)
	}
	if suggestions[1].GrowthPotential != types.GrowthLow {
		t.Errorf("Unknown growth potential should fall back to Low, got %q", suggestions[1].GrowthPotential)
	}
	if suggestions[1].RequiredSkills == nil {
		t.Error("Missing skills should default to empty slice")
	}
}

func TestNormalizeCareerSuggestionsEnvelope(t *testing.T) {
	extracted := ExtractArray(`{"suggestions": [{"title": "Data Engineer", "industry": "Analytics", "match_score": 70}]}`)

	suggestions := NormalizeCareerSuggestions(extracted)

	if len(suggestions) != 1 || suggestions[0].Title != "Data Engineer" {
		t.Errorf("Envelope object should be unwrapped: %+v", suggestions)
	}
}

func TestNormalizeCareerSuggestionsGarbage(t *testing.T) {
	suggestions := NormalizeCareerSuggestions(ExtractArray("nothing useful here"))

	if suggestions == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(suggestions) != 0 {
		t.Errorf("Expected empty slice, got %+v", suggestions)
	}
}

func TestNormalizeAtsOptimization(t *testing.T) {
	extracted := extractedFrom(t, `{
		"ats_score": 68,
		"issues": ["Non-standard headings"],
		"missing_keywords": ["terraform"],
		"suggestions": [{"type": "keyword", "current": "infra", "optimized": "infrastructure", "reason": "full term scans better"}],
		"formatting_tips": ["Avoid text boxes"],
		"keyword_density": {"go": 2.5, "kubernetes": 1.2}
	}`)

	result := NormalizeAtsOptimization(extracted, "Perplexity AI", testAnalyzedAt)

	if result == nil {
		t.Fatal("Expected a result")
	}
	if result.ATSScore != 68 {
		t.Errorf("Expected ats score 68, got %d", result.ATSScore)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].Optimized != "infrastructure" {
		t.Errorf("Suggestions not normalized: %+v", result.Suggestions)
	}
	if result.KeywordDensity["go"] != 2.5 {
		t.Errorf("Keyword density not normalized: %+v", result.KeywordDensity)
	}
	if result.AIProvider != "Perplexity AI" || !result.AnalyzedAt.Equal(testAnalyzedAt) {
		t.Error("Provenance not set")
	}
}

func TestNormalizeAtsOptimizationParseFailure(t *testing.T) {
	result := NormalizeAtsOptimization(Extract("no JSON here"), "Perplexity AI", testAnalyzedAt)

	if result != nil {
		t.Errorf("Parse failure should yield nil result, got %+v", result)
	}
}
