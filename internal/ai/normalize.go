package ai

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"resumelens/internal/types"
)

// The normalizer is total: any extraction outcome maps to a fully-populated
// result. Malformed fields degrade locally to their defaults and never take
// neighboring fields down with them. Normalizing an already-normalized
// document is a no-op.

const defaultSummary = "No summary available"

// NormalizeAnalysis builds the canonical analysis record from an extraction
// outcome. A parse failure yields the all-defaults record with ATS parsing
// marked unsuccessful, so callers always receive a usable record.
func NormalizeAnalysis(extracted ExtractedJSON, sourceText, provider string, analyzedAt time.Time) types.AnalysisRecord {
	record := defaultAnalysisRecord(sourceText, provider, analyzedAt)

	obj, ok := asObject(extracted)
	if !ok {
		record.ATSCompatibility.ParsingSuccess = false
		return record
	}

	record.OverallScore = asScore(obj["overallScore"])
	if s, ok := asString(obj["summary"]); ok && s != "" {
		record.Summary = s
	}
	record.Strengths = asStringSlice(obj["strengths"])
	record.Weaknesses = asStringSlice(obj["weaknesses"])
	record.ExtractedSkills = normalizeSkills(obj["extractedSkills"])
	record.Experience = normalizeExperience(obj["experience"])
	record.Education = normalizeEducation(obj["education"])
	record.Improvements = normalizeImprovements(obj["improvements"])
	record.ATSCompatibility = normalizeATSCompatibility(obj["atsCompatibility"])
	record.CareerSuggestions = normalizeCareerSuggestionList(obj["careerSuggestions"])
	record.SkillGaps = normalizeSkillGaps(obj["skillGaps"])
	record.IndustryBenchmark = normalizeIndustryBenchmark(obj["industryBenchmark"])
	record.ContactInfo = normalizeContactInfo(obj["contactInfo"])
	record.Keywords = asStringSlice(obj["keywords"])
	record.ReadabilityScore = asScore(obj["readabilityScore"])
	record.FormattingScore = asScore(obj["formattingScore"])
	record.ImpactScore = asScore(obj["impactScore"])

	return record
}

// NormalizeCareerSuggestions builds the suggestion list for the careers
// operation. Parse failures yield an empty list, never an error. The model
// sometimes wraps the array in an envelope object; a "suggestions" key is
// unwrapped in that case.
func NormalizeCareerSuggestions(extracted ExtractedJSON) []types.CareerSuggestion {
	if !extracted.OK() {
		return []types.CareerSuggestion{}
	}

	var items []any
	if err := json.Unmarshal(extracted.Raw, &items); err != nil {
		var envelope map[string]any
		if err := json.Unmarshal(extracted.Raw, &envelope); err != nil {
			return []types.CareerSuggestion{}
		}
		wrapped, ok := envelope["suggestions"].([]any)
		if !ok {
			return []types.CareerSuggestion{}
		}
		items = wrapped
	}

	suggestions := make([]types.CareerSuggestion, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			suggestions = append(suggestions, normalizeCareerSuggestion(m))
		}
	}
	return suggestions
}

// NormalizeAtsOptimization builds the ATS optimization result. A parse
// failure yields nil (no result) rather than an error, mirroring the
// operation's soft-failure contract.
func NormalizeAtsOptimization(extracted ExtractedJSON, provider string, analyzedAt time.Time) *types.AtsOptimizationResult {
	obj, ok := asObject(extracted)
	if !ok {
		return nil
	}

	result := &types.AtsOptimizationResult{
		ATSScore:        asScore(obj["ats_score"]),
		Issues:          asStringSlice(obj["issues"]),
		MissingKeywords: asStringSlice(obj["missing_keywords"]),
		Suggestions:     normalizeAtsSuggestions(obj["suggestions"]),
		FormattingTips:  asStringSlice(obj["formatting_tips"]),
		KeywordDensity:  asFloatMap(obj["keyword_density"]),
		AnalyzedAt:      analyzedAt,
		AIProvider:      provider,
	}
	return result
}

// defaultAnalysisRecord is the all-defaults record every full analysis
// starts from.
func defaultAnalysisRecord(sourceText, provider string, analyzedAt time.Time) types.AnalysisRecord {
	return types.AnalysisRecord{
		Summary:         defaultSummary,
		Strengths:       []string{},
		Weaknesses:      []string{},
		ExtractedSkills: []types.Skill{},
		Experience:      types.Experience{Roles: []types.Role{}},
		Education:       []types.EducationEntry{},
		Improvements:    []types.Improvement{},
		ATSCompatibility: types.ATSCompatibility{
			ParsingSuccess:  true,
			FormatIssues:    []string{},
			Recommendations: []string{},
		},
		CareerSuggestions: []types.CareerSuggestion{},
		SkillGaps:         []types.SkillGap{},
		IndustryBenchmark: nil,
		ContactInfo:       types.ContactInfo{},
		Keywords:          []string{},
		ExtractedText:     sourceText,
		AnalyzedAt:        analyzedAt,
		AIProvider:        provider,
	}
}

func normalizeSkills(v any) []types.Skill {
	items, ok := v.([]any)
	if !ok {
		return []types.Skill{}
	}
	skills := make([]types.Skill, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		skills = append(skills, types.Skill{
			Name:       asStringOr(m["name"], ""),
			Category:   types.SkillCategory(normalizeEnum(m["category"], skillCategories, string(types.SkillCategoryTechnical))),
			Level:      types.SkillLevel(normalizeEnum(m["level"], skillLevels, string(types.SkillLevelBeginner))),
			Confidence: asScore(m["confidence"]),
			Years:      asNonNegativeInt(m["years"]),
		})
	}
	return skills
}

func normalizeExperience(v any) types.Experience {
	exp := types.Experience{Roles: []types.Role{}}
	m, ok := v.(map[string]any)
	if !ok {
		return exp
	}
	exp.TotalYears = asNonNegativeInt(m["totalYears"])
	roles, ok := m["roles"].([]any)
	if !ok {
		return exp
	}
	for _, item := range roles {
		rm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		exp.Roles = append(exp.Roles, types.Role{
			Title:      asStringOr(rm["title"], ""),
			Company:    asStringOr(rm["company"], ""),
			Duration:   asStringOr(rm["duration"], ""),
			Highlights: asStringSlice(rm["highlights"]),
		})
	}
	return exp
}

func normalizeEducation(v any) []types.EducationEntry {
	items, ok := v.([]any)
	if !ok {
		return []types.EducationEntry{}
	}
	entries := make([]types.EducationEntry, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, types.EducationEntry{
			Degree:      asStringOr(m["degree"], ""),
			Institution: asStringOr(m["institution"], ""),
			Year:        asStringOr(m["year"], ""),
			GPA:         asStringOr(m["gpa"], ""),
		})
	}
	return entries
}

func normalizeImprovements(v any) []types.Improvement {
	items, ok := v.([]any)
	if !ok {
		return []types.Improvement{}
	}
	improvements := make([]types.Improvement, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		improvements = append(improvements, types.Improvement{
			Type:      types.ImprovementType(normalizeEnum(m["type"], improvementTypes, string(types.ImprovementContent))),
			Section:   asStringOr(m["section"], ""),
			Priority:  types.Priority(normalizeEnum(m["priority"], priorities, string(types.PriorityLow))),
			Original:  asStringOr(m["original"], ""),
			Suggested: asStringOr(m["suggested"], ""),
			Reason:    asStringOr(m["reason"], ""),
		})
	}
	return improvements
}

func normalizeATSCompatibility(v any) types.ATSCompatibility {
	ats := types.ATSCompatibility{
		ParsingSuccess:  true,
		FormatIssues:    []string{},
		Recommendations: []string{},
	}
	m, ok := v.(map[string]any)
	if !ok {
		return ats
	}
	ats.Score = asScore(m["score"])
	if b, ok := m["parsing_success"].(bool); ok {
		ats.ParsingSuccess = b
	}
	ats.FormatIssues = asStringSlice(m["format_issues"])
	ats.KeywordOptimization = asScore(m["keyword_optimization"])
	ats.Recommendations = asStringSlice(m["recommendations"])
	return ats
}

func normalizeCareerSuggestionList(v any) []types.CareerSuggestion {
	items, ok := v.([]any)
	if !ok {
		return []types.CareerSuggestion{}
	}
	suggestions := make([]types.CareerSuggestion, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			suggestions = append(suggestions, normalizeCareerSuggestion(m))
		}
	}
	return suggestions
}

func normalizeCareerSuggestion(m map[string]any) types.CareerSuggestion {
	return types.CareerSuggestion{
		Title:           asStringOr(m["title"], ""),
		Industry:        asStringOr(m["industry"], ""),
		MatchScore:      asScore(m["match_score"]),
		RequiredSkills:  asStringSlice(m["required_skills"]),
		SalaryRange:     asStringOr(m["salary_range"], ""),
		GrowthPotential: types.GrowthPotential(normalizeEnum(m["growth_potential"], growthPotentials, string(types.GrowthLow))),
		Reasoning:       asStringOr(m["reasoning"], ""),
	}
}

func normalizeSkillGaps(v any) []types.SkillGap {
	items, ok := v.([]any)
	if !ok {
		return []types.SkillGap{}
	}
	gaps := make([]types.SkillGap, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		gaps = append(gaps, types.SkillGap{
			Skill:             asStringOr(m["skill"], ""),
			Importance:        types.Importance(normalizeEnum(m["importance"], importances, string(types.ImportanceLow))),
			CurrentLevel:      asStringOr(m["current_level"], ""),
			RequiredLevel:     asStringOr(m["required_level"], ""),
			LearningResources: asStringSlice(m["learning_resources"]),
			EstimatedTime:     asStringOr(m["estimated_time"], ""),
		})
	}
	return gaps
}

func normalizeIndustryBenchmark(v any) *types.IndustryBenchmark {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &types.IndustryBenchmark{
		Industry:     asStringOr(m["industry"], ""),
		Percentile:   asScore(m["percentile"]),
		Comparison:   asStringOr(m["comparison"], ""),
		MarketTrends: asStringSlice(m["marketTrends"]),
	}
}

func normalizeContactInfo(v any) types.ContactInfo {
	m, ok := v.(map[string]any)
	if !ok {
		return types.ContactInfo{}
	}
	return types.ContactInfo{
		Email:     asStringOr(m["email"], ""),
		Phone:     asStringOr(m["phone"], ""),
		LinkedIn:  asStringOr(m["linkedin"], ""),
		GitHub:    asStringOr(m["github"], ""),
		Portfolio: asStringOr(m["portfolio"], ""),
	}
}

func normalizeAtsSuggestions(v any) []types.AtsSuggestion {
	items, ok := v.([]any)
	if !ok {
		return []types.AtsSuggestion{}
	}
	suggestions := make([]types.AtsSuggestion, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		suggestions = append(suggestions, types.AtsSuggestion{
			Type:      asStringOr(m["type"], ""),
			Current:   asStringOr(m["current"], ""),
			Optimized: asStringOr(m["optimized"], ""),
			Reason:    asStringOr(m["reason"], ""),
		})
	}
	return suggestions
}

// Enum member tables. The first member in each default position is the most
// conservative interpretation for values that cannot be matched.
var (
	skillCategories  = []string{"Technical", "Soft", "Business", "Language"}
	skillLevels      = []string{"Beginner", "Intermediate", "Advanced", "Expert"}
	improvementTypes = []string{"Content", "Formatting", "Skills", "Experience"}
	priorities       = []string{"High", "Medium", "Low"}
	growthPotentials = []string{"High", "Medium", "Low"}
	importances      = []string{"Critical", "High", "Medium", "Low"}
)

// normalizeEnum matches a value against enum members case-insensitively.
// Anything that is not a matching string (wrong case is fine, wrong type or
// unknown text is not) falls back to the conservative member.
func normalizeEnum(v any, members []string, fallback string) string {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	s = strings.TrimSpace(s)
	for _, member := range members {
		if strings.EqualFold(s, member) {
			return member
		}
	}
	return fallback
}

// asObject unmarshals an extraction result into a JSON object.
func asObject(extracted ExtractedJSON) (map[string]any, bool) {
	if !extracted.OK() {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(extracted.Raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asStringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// asStringSlice keeps string elements and stringifies numeric ones;
// anything else is dropped.
func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, formatFloat(val))
		}
	}
	return result
}

// asScore converts a value to an integer clamped to [0, 100]. Numeric
// strings are coerced; everything else scores zero.
func asScore(v any) int {
	f, ok := asFloat(v)
	if !ok {
		return 0
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// asNonNegativeInt converts a value to an integer clamped at zero.
func asNonNegativeInt(v any) int {
	f, ok := asFloat(v)
	if !ok {
		return 0
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	return n
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asFloatMap(v any) map[string]float64 {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]float64{}
	}
	result := make(map[string]float64, len(m))
	for key, val := range m {
		if f, ok := asFloat(val); ok {
			result[key] = f
		}
	}
	return result
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
