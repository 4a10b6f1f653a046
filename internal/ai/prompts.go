package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	Analyze string
	Focus   string
	Careers string
	Ats     string
}

// UserPrompts contains user-level prompt templates with placeholders for dynamic content
type UserPrompts struct {
	Analyze string
	Focus   string
	Careers string
	Ats     string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	Analyze: "You are an expert HR professional and resume analyst with years of experience in talent acquisition and career development. Provide detailed, actionable feedback.",

	Focus: "You are an expert resume analyst. Provide targeted, actionable feedback.",

	Careers: "You are a career counselor with real-time market knowledge. Provide data-driven career suggestions.",

	Ats: "You are an ATS optimization expert. Provide specific, actionable advice.",
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	Analyze: `Analyze this resume comprehensively and provide a detailed JSON response with the following structure:

RESUME TEXT:
%s

%sPlease analyze and return a JSON object with these exact fields:

{
  "overallScore": (number 0-100),
  "summary": "Brief 2-3 sentence summary of the candidate",
  "strengths": ["strength 1", "strength 2", ...],
  "weaknesses": ["weakness 1", "weakness 2", ...],

  "extractedSkills": [
    {
      "name": "skill name",
      "category": "Technical|Soft|Business|Language",
      "level": "Beginner|Intermediate|Advanced|Expert",
      "confidence": (number 0-100),
      "years": (number, estimated years of experience)
    }
  ],

  "experience": {
    "totalYears": (number),
    "roles": [
      {
        "title": "job title",
        "company": "company name",
        "duration": "duration",
        "highlights": ["achievement 1", "achievement 2"]
      }
    ]
  },

  "education": [
    {
      "degree": "degree name",
      "institution": "university/college",
      "year": "graduation year",
      "gpa": "GPA if mentioned"
    }
  ],

  "improvements": [
    {
      "type": "Content|Formatting|Skills|Experience",
      "section": "section name",
      "priority": "High|Medium|Low",
      "original": "current text (if applicable)",
      "suggested": "suggested improvement",
      "reason": "why this improvement is needed"
    }
  ],

  "atsCompatibility": {
    "score": (number 0-100),
    "parsing_success": true,
    "format_issues": ["issue 1", "issue 2"],
    "keyword_optimization": (number 0-100),
    "recommendations": ["recommendation 1", "recommendation 2"]
  },

  "careerSuggestions": [
    {
      "title": "job title",
      "industry": "industry name",
      "match_score": (number 0-100),
      "required_skills": ["skill 1", "skill 2"],
      "salary_range": "estimated salary range",
      "growth_potential": "High|Medium|Low",
      "reasoning": "why this role fits"
    }
  ],

  "skillGaps": [
    {
      "skill": "skill name",
      "importance": "Critical|High|Medium|Low",
      "current_level": "None|Beginner|Intermediate",
      "required_level": "Intermediate|Advanced|Expert",
      "learning_resources": ["resource 1", "resource 2"],
      "estimated_time": "time to acquire"
    }
  ],

  "industryBenchmark": {
    "industry": "primary industry",
    "percentile": (number 0-100),
    "comparison": "how candidate compares to industry standards",
    "marketTrends": ["trend 1", "trend 2"]
  },

  "contactInfo": {
    "email": "email if found",
    "phone": "phone if found",
    "linkedin": "linkedin if found",
    "github": "github if found",
    "portfolio": "portfolio if found"
  },

  "keywords": ["keyword1", "keyword2", ...],

  "readabilityScore": (number 0-100),
  "formattingScore": (number 0-100),
  "impactScore": (number 0-100)
}

Ensure the response is valid JSON only, no additional text. Be thorough and specific in your analysis.`,

	Focus: `Focus specifically on these areas: %s

RESUME:
%s

Provide detailed analysis as JSON.`,

	Careers: `Based on this resume, suggest 5-7 career paths with current market trends:

RESUME:
%s

PREFERENCES:
%s

Return JSON array of career suggestions with: title, industry, match_score, required_skills, salary_range, growth_potential, reasoning, current_demand, future_outlook`,

	Ats: `Analyze this resume for ATS compatibility and provide optimization suggestions:

RESUME:
%s

%sReturn JSON with:
{
  "ats_score": (0-100),
  "issues": ["issue 1", "issue 2"],
  "missing_keywords": ["keyword 1", "keyword 2"],
  "suggestions": [{"type": "type", "current": "text", "optimized": "text", "reason": "why"}],
  "formatting_tips": ["tip 1", "tip 2"],
  "keyword_density": {"keyword": percentage}
}`,
}

// PromptBuilder turns an analysis request into the system/user message pair
// for its operation. Building is pure: no network, no clock, no provider
// awareness beyond the configured prompt overrides.
type PromptBuilder struct {
	cfg           *config.OperationAIConfig
	operationType string
}

// NewPromptBuilder creates a prompt builder bound to one operation's configuration
func NewPromptBuilder(cfg *config.OperationAIConfig, operationType string) *PromptBuilder {
	return &PromptBuilder{
		cfg:           cfg,
		operationType: operationType,
	}
}

// Build constructs the prompt for the request. Empty source text or an
// unknown mode yields a validation error; nothing else can fail.
func (b *PromptBuilder) Build(req types.AnalysisRequest) (Prompt, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return Prompt{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Resume text must not be empty", nil)
	}

	switch req.Mode {
	case types.ModeFullAnalysis:
		return Prompt{
			System: b.getSystemPrompt("analyze"),
			User:   fmt.Sprintf(b.getUserPrompt("analyze"), req.SourceText, buildTargetContext(req.Options)),
		}, nil
	case types.ModeFocusedAnalysis:
		return Prompt{
			System: b.getSystemPrompt("focus"),
			User:   fmt.Sprintf(b.getUserPrompt("focus"), strings.Join(req.Options.FocusAreas, ", "), req.SourceText),
		}, nil
	case types.ModeCareerSuggestions:
		return Prompt{
			System: b.getSystemPrompt("careers"),
			User:   fmt.Sprintf(b.getUserPrompt("careers"), req.SourceText, formatPreferences(req.Options.Preferences)),
		}, nil
	case types.ModeAtsOptimization:
		return Prompt{
			System: b.getSystemPrompt("ats"),
			User:   fmt.Sprintf(b.getUserPrompt("ats"), req.SourceText, buildJobDescriptionContext(req.Options)),
		}, nil
	default:
		return Prompt{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Unknown analysis mode: %s", req.Mode), nil)
	}
}

// buildTargetContext renders the optional target role/industry lines for the
// full analysis prompt
func buildTargetContext(opts types.AnalysisOptions) string {
	var sb strings.Builder
	if opts.TargetRole != "" {
		sb.WriteString("TARGET ROLE: " + opts.TargetRole + "\n")
	}
	if opts.TargetIndustry != "" {
		sb.WriteString("TARGET INDUSTRY: " + opts.TargetIndustry + "\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// buildJobDescriptionContext renders the optional job description block for
// the ATS optimization prompt
func buildJobDescriptionContext(opts types.AnalysisOptions) string {
	if opts.JobDescription == "" {
		return ""
	}
	return "JOB DESCRIPTION:\n" + opts.JobDescription + "\n\n"
}

// formatPreferences renders request preferences as indented JSON
func formatPreferences(prefs map[string]string) string {
	if len(prefs) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// getSystemPrompt returns the appropriate system prompt for the operation
func (b *PromptBuilder) getSystemPrompt(promptType string) string {
	loadedPrompts, configPrompts := b.getPrompts(promptType)
	var configSystemPrompts *config.SystemPrompts
	if configPrompts != nil {
		configSystemPrompts = &configPrompts.SystemPrompts
	} else {
		// Create an empty struct to avoid nil pointer panics
		configSystemPrompts = &config.SystemPrompts{}
	}

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.Analyze,
			configSystemPrompts.Analyze,
			DefaultSystemPrompts.Analyze,
		)
	case "focus":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.Focus,
			configSystemPrompts.Focus,
			DefaultSystemPrompts.Focus,
		)
	case "careers":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.Careers,
			configSystemPrompts.Careers,
			DefaultSystemPrompts.Careers,
		)
	case "ats":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.Ats,
			configSystemPrompts.Ats,
			DefaultSystemPrompts.Ats,
		)
	default:
		return ""
	}
}

// getUserPrompt returns the appropriate user prompt template for the operation
func (b *PromptBuilder) getUserPrompt(promptType string) string {
	loadedPrompts, configPrompts := b.getPrompts(promptType)
	var configUserPrompts *config.UserPrompts
	if configPrompts != nil {
		configUserPrompts = &configPrompts.UserPrompts
	} else {
		// Create an empty struct to avoid nil pointer panics
		configUserPrompts = &config.UserPrompts{}
	}

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.UserPrompts.Analyze,
			configUserPrompts.Analyze,
			DefaultUserPrompts.Analyze,
		)
	case "focus":
		return resolvePrompt(
			loadedPrompts.UserPrompts.Focus,
			configUserPrompts.Focus,
			DefaultUserPrompts.Focus,
		)
	case "careers":
		return resolvePrompt(
			loadedPrompts.UserPrompts.Careers,
			configUserPrompts.Careers,
			DefaultUserPrompts.Careers,
		)
	case "ats":
		return resolvePrompt(
			loadedPrompts.UserPrompts.Ats,
			configUserPrompts.Ats,
			DefaultUserPrompts.Ats,
		)
	default:
		return ""
	}
}

// getPrompts returns the appropriate prompts for the operation, prioritizing loaded content over config
func (b *PromptBuilder) getPrompts(operationType string) (config.OperationLoadedPrompts, *config.PromptConfig) {
	// Get loaded prompts (returns a copy)
	loadedPrompts := config.GetPromptsForOperation(operationType)
	var configPrompts *config.PromptConfig
	if b.cfg != nil {
		configPrompts = &b.cfg.CustomPrompts
	}
	return loadedPrompts, configPrompts
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
