package types

import "time"

// Mode selects which analysis operation a request targets.
type Mode string

const (
	ModeFullAnalysis      Mode = "full"
	ModeFocusedAnalysis   Mode = "focused"
	ModeCareerSuggestions Mode = "careers"
	ModeAtsOptimization   Mode = "ats"
)

// SkillCategory classifies an extracted skill.
type SkillCategory string

const (
	SkillCategoryTechnical SkillCategory = "Technical"
	SkillCategorySoft      SkillCategory = "Soft"
	SkillCategoryBusiness  SkillCategory = "Business"
	SkillCategoryLanguage  SkillCategory = "Language"
)

// SkillLevel describes proficiency for an extracted skill.
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "Beginner"
	SkillLevelIntermediate SkillLevel = "Intermediate"
	SkillLevelAdvanced     SkillLevel = "Advanced"
	SkillLevelExpert       SkillLevel = "Expert"
)

// ImprovementType classifies a suggested resume improvement.
type ImprovementType string

const (
	ImprovementContent    ImprovementType = "Content"
	ImprovementFormatting ImprovementType = "Formatting"
	ImprovementSkills     ImprovementType = "Skills"
	ImprovementExperience ImprovementType = "Experience"
)

// Priority ranks how urgent an improvement is.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// GrowthPotential describes the outlook of a suggested career path.
type GrowthPotential string

const (
	GrowthHigh   GrowthPotential = "High"
	GrowthMedium GrowthPotential = "Medium"
	GrowthLow    GrowthPotential = "Low"
)

// Importance ranks how critical a skill gap is.
type Importance string

const (
	ImportanceCritical Importance = "Critical"
	ImportanceHigh     Importance = "High"
	ImportanceMedium   Importance = "Medium"
	ImportanceLow      Importance = "Low"
)

// AnalysisRequest is the input to every analysis operation.
// SourceText must be non-empty; text extraction happens upstream.
type AnalysisRequest struct {
	SourceText string          `json:"sourceText"`
	Mode       Mode            `json:"mode"`
	Options    AnalysisOptions `json:"options"`
}

// AnalysisOptions carries optional per-request tuning.
type AnalysisOptions struct {
	TargetRole     string            `json:"targetRole,omitempty"`
	TargetIndustry string            `json:"targetIndustry,omitempty"`
	FocusAreas     []string          `json:"focusAreas,omitempty"`
	JobDescription string            `json:"jobDescription,omitempty"`
	Preferences    map[string]string `json:"preferences,omitempty"`
	Model          string            `json:"model,omitempty"`
	MaxTokens      int               `json:"maxTokens,omitempty"`
}

// Skill is a single skill extracted from the resume.
type Skill struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Level      SkillLevel    `json:"level"`
	Confidence int           `json:"confidence"`
	Years      int           `json:"years"`
}

// Role is one position in the candidate's work history.
type Role struct {
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Duration   string   `json:"duration"`
	Highlights []string `json:"highlights"`
}

// Experience summarizes the candidate's work history.
type Experience struct {
	TotalYears int    `json:"totalYears"`
	Roles      []Role `json:"roles"`
}

// EducationEntry is one degree or certification.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

// Improvement is one actionable suggestion for the resume.
type Improvement struct {
	Type      ImprovementType `json:"type"`
	Section   string          `json:"section"`
	Priority  Priority        `json:"priority"`
	Original  string          `json:"original,omitempty"`
	Suggested string          `json:"suggested"`
	Reason    string          `json:"reason"`
}

// ATSCompatibility reports how well the resume survives automated parsing.
type ATSCompatibility struct {
	Score               int      `json:"score"`
	ParsingSuccess      bool     `json:"parsing_success"`
	FormatIssues        []string `json:"format_issues"`
	KeywordOptimization int      `json:"keyword_optimization"`
	Recommendations     []string `json:"recommendations"`
}

// CareerSuggestion is one recommended career path.
type CareerSuggestion struct {
	Title           string          `json:"title"`
	Industry        string          `json:"industry"`
	MatchScore      int             `json:"match_score"`
	RequiredSkills  []string        `json:"required_skills"`
	SalaryRange     string          `json:"salary_range"`
	GrowthPotential GrowthPotential `json:"growth_potential"`
	Reasoning       string          `json:"reasoning"`
}

// SkillGap describes a missing or underdeveloped skill.
type SkillGap struct {
	Skill             string     `json:"skill"`
	Importance        Importance `json:"importance"`
	CurrentLevel      string     `json:"current_level"`
	RequiredLevel     string     `json:"required_level"`
	LearningResources []string   `json:"learning_resources"`
	EstimatedTime     string     `json:"estimated_time"`
}

// IndustryBenchmark compares the candidate against their primary industry.
type IndustryBenchmark struct {
	Industry     string   `json:"industry"`
	Percentile   int      `json:"percentile"`
	Comparison   string   `json:"comparison"`
	MarketTrends []string `json:"marketTrends"`
}

// ContactInfo holds contact details found in the resume.
type ContactInfo struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// AnalysisRecord is the canonical, fully-populated output of a full
// analysis. Every field is guaranteed present: arrays default to empty,
// scores to zero, nested objects to their zero-value shape. Built once
// during normalization and never mutated afterwards.
type AnalysisRecord struct {
	OverallScore    int      `json:"overallScore"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	ExtractedSkills []Skill  `json:"extractedSkills"`

	Experience Experience       `json:"experience"`
	Education  []EducationEntry `json:"education"`

	Improvements      []Improvement      `json:"improvements"`
	ATSCompatibility  ATSCompatibility   `json:"atsCompatibility"`
	CareerSuggestions []CareerSuggestion `json:"careerSuggestions"`
	SkillGaps         []SkillGap         `json:"skillGaps"`
	IndustryBenchmark *IndustryBenchmark `json:"industryBenchmark"`
	ContactInfo       ContactInfo        `json:"contactInfo"`

	Keywords         []string `json:"keywords"`
	ReadabilityScore int      `json:"readabilityScore"`
	FormattingScore  int      `json:"formattingScore"`
	ImpactScore      int      `json:"impactScore"`

	// Provenance
	ExtractedText string    `json:"extractedText"`
	AnalyzedAt    time.Time `json:"analyzedAt"`
	AIProvider    string    `json:"aiProvider"`
}

// FocusedAnalysis is the narrower result of a focused analysis: free-form
// model commentary scoped to the requested areas plus provenance.
type FocusedAnalysis struct {
	Content    string    `json:"content"`
	FocusAreas []string  `json:"focusAreas"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	AIProvider string    `json:"aiProvider"`
}

// AtsSuggestion is one concrete rewrite proposed by the ATS optimizer.
type AtsSuggestion struct {
	Type      string `json:"type"`
	Current   string `json:"current"`
	Optimized string `json:"optimized"`
	Reason    string `json:"reason"`
}

// AtsOptimizationResult is the output of the ATS optimization operation.
// A nil result (not an error) signals that the model produced nothing
// actionable.
type AtsOptimizationResult struct {
	ATSScore        int                `json:"ats_score"`
	Issues          []string           `json:"issues"`
	MissingKeywords []string           `json:"missing_keywords"`
	Suggestions     []AtsSuggestion    `json:"suggestions"`
	FormattingTips  []string           `json:"formatting_tips"`
	KeywordDensity  map[string]float64 `json:"keyword_density"`
	AnalyzedAt      time.Time          `json:"analyzedAt"`
	AIProvider      string             `json:"aiProvider"`
}
