package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"resumelens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisRecord", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisRecord", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "FocusedAnalysis", &FocusedTextFormatter{})
	registry.RegisterFormatter("markdown", "FocusedAnalysis", &FocusedMarkdownFormatter{})
	registry.RegisterFormatter("text", "CareerSuggestionList", &CareersTextFormatter{})
	registry.RegisterFormatter("markdown", "CareerSuggestionList", &CareersMarkdownFormatter{})
	registry.RegisterFormatter("text", "AtsOptimizationResult", &AtsTextFormatter{})
	registry.RegisterFormatter("markdown", "AtsOptimizationResult", &AtsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisRecord:
		return "AnalysisRecord"
	case types.FocusedAnalysis:
		return "FocusedAnalysis"
	case []types.CareerSuggestion:
		return "CareerSuggestionList"
	case types.AtsOptimizationResult:
		return "AtsOptimizationResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for full analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisRecord)
	if !ok {
		return "", fmt.Errorf("expected AnalysisRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("Readability: %d/100  Formatting: %d/100  Impact: %d/100\n\n",
		result.ReadabilityScore, result.FormattingScore, result.ImpactScore))
	output.WriteString("Summary:\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	if len(result.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}
	if len(result.Weaknesses) > 0 {
		output.WriteString("Weaknesses:\n")
		for _, weakness := range result.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", weakness))
		}
		output.WriteString("\n")
	}

	if len(result.ExtractedSkills) > 0 {
		output.WriteString("=== EXTRACTED SKILLS ===\n")
		for _, skill := range result.ExtractedSkills {
			output.WriteString(fmt.Sprintf("- %s (%s, %s, confidence %d)\n",
				skill.Name, skill.Category, skill.Level, skill.Confidence))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== EXPERIENCE ===\n")
	output.WriteString(fmt.Sprintf("Total years: %d\n", result.Experience.TotalYears))
	for _, role := range result.Experience.Roles {
		output.WriteString(fmt.Sprintf("- %s at %s (%s)\n", role.Title, role.Company, role.Duration))
		for _, highlight := range role.Highlights {
			output.WriteString(fmt.Sprintf("    * %s\n", highlight))
		}
	}
	output.WriteString("\n")

	if len(result.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n")
		for _, entry := range result.Education {
			output.WriteString(fmt.Sprintf("- %s, %s (%s)\n", entry.Degree, entry.Institution, entry.Year))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("=== IMPROVEMENTS ===\n\n")
		for i, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("%d. [%s/%s] %s\n", i+1,
				improvement.Type, improvement.Priority, improvement.Section))
			output.WriteString("   Suggested: ")
			output.WriteString(improvement.Suggested)
			output.WriteString("\n")
			output.WriteString("   Reason: ")
			output.WriteString(improvement.Reason)
			output.WriteString("\n\n")
		}
	}

	output.WriteString("=== ATS COMPATIBILITY ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.ATSCompatibility.Score))
	output.WriteString(fmt.Sprintf("Parsing success: %t\n", result.ATSCompatibility.ParsingSuccess))
	output.WriteString(fmt.Sprintf("Keyword optimization: %d/100\n", result.ATSCompatibility.KeywordOptimization))
	if len(result.ATSCompatibility.FormatIssues) > 0 {
		output.WriteString("Format issues:\n")
		for _, issue := range result.ATSCompatibility.FormatIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
	}
	if len(result.ATSCompatibility.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		for _, recommendation := range result.ATSCompatibility.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", recommendation))
		}
	}
	output.WriteString("\n")

	if len(result.CareerSuggestions) > 0 {
		output.WriteString("=== CAREER SUGGESTIONS ===\n")
		for _, suggestion := range result.CareerSuggestions {
			output.WriteString(fmt.Sprintf("- %s (%s, match %d/100, growth %s)\n",
				suggestion.Title, suggestion.Industry, suggestion.MatchScore, suggestion.GrowthPotential))
		}
		output.WriteString("\n")
	}

	if len(result.SkillGaps) > 0 {
		output.WriteString("=== SKILL GAPS ===\n")
		for _, gap := range result.SkillGaps {
			output.WriteString(fmt.Sprintf("- %s (%s): %s -> %s, est. %s\n",
				gap.Skill, gap.Importance, gap.CurrentLevel, gap.RequiredLevel, gap.EstimatedTime))
		}
		output.WriteString("\n")
	}

	if result.IndustryBenchmark != nil {
		output.WriteString("=== INDUSTRY BENCHMARK ===\n")
		output.WriteString(fmt.Sprintf("Industry: %s (percentile %d)\n",
			result.IndustryBenchmark.Industry, result.IndustryBenchmark.Percentile))
		output.WriteString(result.IndustryBenchmark.Comparison)
		output.WriteString("\n\n")
	}

	if len(result.Keywords) > 0 {
		output.WriteString("Keywords: ")
		output.WriteString(strings.Join(result.Keywords, ", "))
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("\nAnalyzed by %s at %s\n",
		result.AIProvider, result.AnalyzedAt.Format("2006-01-02 15:04:05")))

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisRecord"
}

// AnalysisMarkdownFormatter handles markdown formatting for full analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisRecord)
	if !ok {
		return "", fmt.Errorf("expected AnalysisRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("**Readability:** %d/100 | **Formatting:** %d/100 | **Impact:** %d/100\n\n",
		result.ReadabilityScore, result.FormattingScore, result.ImpactScore))
	output.WriteString("## Summary\n\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}
	if len(result.Weaknesses) > 0 {
		output.WriteString("## Weaknesses\n\n")
		for _, weakness := range result.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", weakness))
		}
		output.WriteString("\n")
	}

	if len(result.ExtractedSkills) > 0 {
		output.WriteString("## Extracted Skills\n\n")
		output.WriteString("| Skill | Category | Level | Confidence |\n")
		output.WriteString("|-------|----------|-------|------------|\n")
		for _, skill := range result.ExtractedSkills {
			output.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
				skill.Name, skill.Category, skill.Level, skill.Confidence))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Experience\n\n")
	output.WriteString(fmt.Sprintf("**Total years:** %d\n\n", result.Experience.TotalYears))
	for _, role := range result.Experience.Roles {
		output.WriteString(fmt.Sprintf("### %s at %s (%s)\n\n", role.Title, role.Company, role.Duration))
		for _, highlight := range role.Highlights {
			output.WriteString(fmt.Sprintf("- %s\n", highlight))
		}
		output.WriteString("\n")
	}

	if len(result.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, entry := range result.Education {
			output.WriteString(fmt.Sprintf("- **%s**, %s (%s)\n", entry.Degree, entry.Institution, entry.Year))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("## Improvements\n\n")
		for i, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("### %d. %s (%s, %s priority)\n\n", i+1,
				improvement.Section, improvement.Type, improvement.Priority))
			if improvement.Original != "" {
				output.WriteString("**Original:** ")
				output.WriteString(improvement.Original)
				output.WriteString("\n\n")
			}
			output.WriteString("**Suggested:** ")
			output.WriteString(improvement.Suggested)
			output.WriteString("\n\n")
			output.WriteString("**Reason:** ")
			output.WriteString(improvement.Reason)
			output.WriteString("\n\n")
		}
	}

	output.WriteString("## ATS Compatibility\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.ATSCompatibility.Score))
	output.WriteString(fmt.Sprintf("**Parsing success:** %t\n\n", result.ATSCompatibility.ParsingSuccess))
	output.WriteString(fmt.Sprintf("**Keyword optimization:** %d/100\n\n", result.ATSCompatibility.KeywordOptimization))
	if len(result.ATSCompatibility.FormatIssues) > 0 {
		output.WriteString("### Format Issues\n\n")
		for _, issue := range result.ATSCompatibility.FormatIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}
	if len(result.ATSCompatibility.Recommendations) > 0 {
		output.WriteString("### Recommendations\n\n")
		for _, recommendation := range result.ATSCompatibility.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", recommendation))
		}
		output.WriteString("\n")
	}

	if len(result.CareerSuggestions) > 0 {
		output.WriteString("## Career Suggestions\n\n")
		for _, suggestion := range result.CareerSuggestions {
			output.WriteString(fmt.Sprintf("- **%s** (%s) match %d/100, growth %s\n",
				suggestion.Title, suggestion.Industry, suggestion.MatchScore, suggestion.GrowthPotential))
		}
		output.WriteString("\n")
	}

	if len(result.SkillGaps) > 0 {
		output.WriteString("## Skill Gaps\n\n")
		for _, gap := range result.SkillGaps {
			output.WriteString(fmt.Sprintf("- **%s** (%s importance): %s -> %s, estimated %s\n",
				gap.Skill, gap.Importance, gap.CurrentLevel, gap.RequiredLevel, gap.EstimatedTime))
		}
		output.WriteString("\n")
	}

	if result.IndustryBenchmark != nil {
		output.WriteString("## Industry Benchmark\n\n")
		output.WriteString(fmt.Sprintf("**Industry:** %s (percentile %d)\n\n",
			result.IndustryBenchmark.Industry, result.IndustryBenchmark.Percentile))
		output.WriteString(result.IndustryBenchmark.Comparison)
		output.WriteString("\n\n")
	}

	if len(result.Keywords) > 0 {
		output.WriteString("**Keywords:** ")
		output.WriteString(strings.Join(result.Keywords, ", "))
		output.WriteString("\n\n")
	}

	output.WriteString(fmt.Sprintf("*Analyzed by %s at %s*\n",
		result.AIProvider, result.AnalyzedAt.Format("2006-01-02 15:04:05")))

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisRecord"
}

// FocusedTextFormatter handles text formatting for focused analysis results
type FocusedTextFormatter struct{}

func (ftf *FocusedTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.FocusedAnalysis)
	if !ok {
		return "", fmt.Errorf("expected FocusedAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FOCUSED ANALYSIS ===\n\n")
	output.WriteString("Focus areas: ")
	output.WriteString(strings.Join(result.FocusAreas, ", "))
	output.WriteString("\n\n")
	output.WriteString(result.Content)
	output.WriteString("\n")
	output.WriteString(fmt.Sprintf("\nAnalyzed by %s at %s\n",
		result.AIProvider, result.AnalyzedAt.Format("2006-01-02 15:04:05")))

	return output.String(), nil
}

func (ftf *FocusedTextFormatter) SupportedType() string {
	return "FocusedAnalysis"
}

// FocusedMarkdownFormatter handles markdown formatting for focused analysis results
type FocusedMarkdownFormatter struct{}

func (fmf *FocusedMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.FocusedAnalysis)
	if !ok {
		return "", fmt.Errorf("expected FocusedAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Focused Analysis\n\n")
	output.WriteString("**Focus areas:** ")
	output.WriteString(strings.Join(result.FocusAreas, ", "))
	output.WriteString("\n\n")
	output.WriteString(result.Content)
	output.WriteString("\n\n")
	output.WriteString(fmt.Sprintf("*Analyzed by %s at %s*\n",
		result.AIProvider, result.AnalyzedAt.Format("2006-01-02 15:04:05")))

	return output.String(), nil
}

func (fmf *FocusedMarkdownFormatter) SupportedType() string {
	return "FocusedAnalysis"
}

// CareersTextFormatter handles text formatting for career suggestion lists
type CareersTextFormatter struct{}

func (ctf *CareersTextFormatter) Format(data any) (string, error) {
	suggestions, ok := data.([]types.CareerSuggestion)
	if !ok {
		return "", fmt.Errorf("expected []CareerSuggestion, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CAREER SUGGESTIONS ===\n\n")

	if len(suggestions) == 0 {
		output.WriteString("No career suggestions available.\n")
		return output.String(), nil
	}

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, suggestion.Title, suggestion.Industry))
		output.WriteString(fmt.Sprintf("   Match: %d/100, Growth: %s\n", suggestion.MatchScore, suggestion.GrowthPotential))
		if suggestion.SalaryRange != "" {
			output.WriteString(fmt.Sprintf("   Salary range: %s\n", suggestion.SalaryRange))
		}
		if len(suggestion.RequiredSkills) > 0 {
			output.WriteString("   Required skills: ")
			output.WriteString(strings.Join(suggestion.RequiredSkills, ", "))
			output.WriteString("\n")
		}
		output.WriteString("   Reasoning: ")
		output.WriteString(suggestion.Reasoning)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (ctf *CareersTextFormatter) SupportedType() string {
	return "CareerSuggestionList"
}

// CareersMarkdownFormatter handles markdown formatting for career suggestion lists
type CareersMarkdownFormatter struct{}

func (cmf *CareersMarkdownFormatter) Format(data any) (string, error) {
	suggestions, ok := data.([]types.CareerSuggestion)
	if !ok {
		return "", fmt.Errorf("expected []CareerSuggestion, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Career Suggestions\n\n")

	if len(suggestions) == 0 {
		output.WriteString("No career suggestions available.\n")
		return output.String(), nil
	}

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("## %d. %s (%s)\n\n", i+1, suggestion.Title, suggestion.Industry))
		output.WriteString(fmt.Sprintf("**Match:** %d/100 | **Growth:** %s\n\n", suggestion.MatchScore, suggestion.GrowthPotential))
		if suggestion.SalaryRange != "" {
			output.WriteString(fmt.Sprintf("**Salary range:** %s\n\n", suggestion.SalaryRange))
		}
		if len(suggestion.RequiredSkills) > 0 {
			output.WriteString("**Required skills:** ")
			output.WriteString(strings.Join(suggestion.RequiredSkills, ", "))
			output.WriteString("\n\n")
		}
		output.WriteString(suggestion.Reasoning)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (cmf *CareersMarkdownFormatter) SupportedType() string {
	return "CareerSuggestionList"
}

// AtsTextFormatter handles text formatting for ATS optimization results
type AtsTextFormatter struct{}

func (atf *AtsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AtsOptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected AtsOptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS OPTIMIZATION ===\n\n")
	output.WriteString(fmt.Sprintf("ATS Score: %d/100\n\n", result.ATSScore))

	if len(result.Issues) > 0 {
		output.WriteString("Issues:\n")
		for _, issue := range result.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("Missing keywords: ")
		output.WriteString(strings.Join(result.MissingKeywords, ", "))
		output.WriteString("\n\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTED REWRITES ===\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. [%s]\n", i+1, suggestion.Type))
			output.WriteString("   Current:   ")
			output.WriteString(suggestion.Current)
			output.WriteString("\n")
			output.WriteString("   Optimized: ")
			output.WriteString(suggestion.Optimized)
			output.WriteString("\n")
			output.WriteString("   Reason: ")
			output.WriteString(suggestion.Reason)
			output.WriteString("\n\n")
		}
	}

	if len(result.FormattingTips) > 0 {
		output.WriteString("Formatting tips:\n")
		for _, tip := range result.FormattingTips {
			output.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		output.WriteString("\n")
	}

	if len(result.KeywordDensity) > 0 {
		output.WriteString("Keyword density:\n")
		for _, keyword := range sortedKeys(result.KeywordDensity) {
			output.WriteString(fmt.Sprintf("- %s: %.2f%%\n", keyword, result.KeywordDensity[keyword]))
		}
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("Analyzed by %s at %s\n",
		result.AIProvider, result.AnalyzedAt.Format("2006-01-02 15:04:05")))

	return output.String(), nil
}

func (atf *AtsTextFormatter) SupportedType() string {
	return "AtsOptimizationResult"
}

// AtsMarkdownFormatter handles markdown formatting for ATS optimization results
type AtsMarkdownFormatter struct{}

func (amf *AtsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AtsOptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected AtsOptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Optimization\n\n")
	output.WriteString(fmt.Sprintf("**ATS Score:** %d/100\n\n", result.ATSScore))

	if len(result.Issues) > 0 {
		output.WriteString("## Issues\n\n")
		for _, issue := range result.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		output.WriteString(strings.Join(result.MissingKeywords, ", "))
		output.WriteString("\n\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggested Rewrites\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, suggestion.Type))
			output.WriteString("**Current:** ")
			output.WriteString(suggestion.Current)
			output.WriteString("\n\n")
			output.WriteString("**Optimized:** ")
			output.WriteString(suggestion.Optimized)
			output.WriteString("\n\n")
			output.WriteString("**Reason:** ")
			output.WriteString(suggestion.Reason)
			output.WriteString("\n\n")
		}
	}

	if len(result.FormattingTips) > 0 {
		output.WriteString("## Formatting Tips\n\n")
		for _, tip := range result.FormattingTips {
			output.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		output.WriteString("\n")
	}

	if len(result.KeywordDensity) > 0 {
		output.WriteString("## Keyword Density\n\n")
		output.WriteString("| Keyword | Density |\n")
		output.WriteString("|---------|--------|\n")
		for _, keyword := range sortedKeys(result.KeywordDensity) {
			output.WriteString(fmt.Sprintf("| %s | %.2f%% |\n", keyword, result.KeywordDensity[keyword]))
		}
		output.WriteString("\n")
	}

	output.WriteString(fmt.Sprintf("*Analyzed by %s at %s*\n",
		result.AIProvider, result.AnalyzedAt.Format("2006-01-02 15:04:05")))

	return output.String(), nil
}

func (amf *AtsMarkdownFormatter) SupportedType() string {
	return "AtsOptimizationResult"
}

// sortedKeys returns map keys in deterministic order for stable output
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
