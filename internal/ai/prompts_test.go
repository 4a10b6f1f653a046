package ai

import (
	"strings"
	"testing"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

func buildRequest(mode types.Mode, text string) types.AnalysisRequest {
	return types.AnalysisRequest{SourceText: text, Mode: mode}
}

func TestBuildFullAnalysisPrompt(t *testing.T) {
	builder := NewPromptBuilder(&config.OperationAIConfig{}, "analyze")

	prompt, err := builder.Build(buildRequest(types.ModeFullAnalysis, "Jane Doe\nPlatform Engineer"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if prompt.System != DefaultSystemPrompts.Analyze {
		t.Errorf("Expected default analyze system prompt, got %q", prompt.System)
	}
	if !strings.Contains(prompt.User, "Jane Doe\nPlatform Engineer") {
		t.Error("User prompt must embed the resume text")
	}
	if !strings.Contains(prompt.User, `"overallScore"`) {
		t.Error("User prompt must carry the response schema")
	}
}

func TestBuildFullAnalysisTargetContext(t *testing.T) {
	builder := NewPromptBuilder(&config.OperationAIConfig{}, "analyze")

	req := buildRequest(types.ModeFullAnalysis, "resume")
	req.Options.TargetRole = "Engineering Manager"
	req.Options.TargetIndustry = "FinTech"

	prompt, err := builder.Build(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(prompt.User, "TARGET ROLE: Engineering Manager") {
		t.Error("Target role missing from prompt")
	}
	if !strings.Contains(prompt.User, "TARGET INDUSTRY: FinTech") {
		t.Error("Target industry missing from prompt")
	}

	// Without targets the context block disappears entirely.
	plain, err := builder.Build(buildRequest(types.ModeFullAnalysis, "resume"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(plain.User, "TARGET ROLE") {
		t.Error("Target context should be absent when no targets are set")
	}
}

func TestBuildFocusedPrompt(t *testing.T) {
	builder := NewPromptBuilder(&config.OperationAIConfig{}, "focus")

	req := buildRequest(types.ModeFocusedAnalysis, "resume body")
	req.Options.FocusAreas = []string{"skills", "formatting"}

	prompt, err := builder.Build(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if prompt.System != DefaultSystemPrompts.Focus {
		t.Errorf("Expected default focus system prompt, got %q", prompt.System)
	}
	if !strings.Contains(prompt.User, "skills, formatting") {
		t.Error("Focus areas must be joined into the prompt")
	}
}

func TestBuildCareersPromptPreferences(t *testing.T) {
	builder := NewPromptBuilder(&config.OperationAIConfig{}, "careers")

	req := buildRequest(types.ModeCareerSuggestions, "resume body")
	req.Options.Preferences = map[string]string{"location": "remote"}

	prompt, err := builder.Build(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(prompt.User, `"location": "remote"`) {
		t.Error("Preferences must be rendered as JSON")
	}

	// Empty preferences render as an empty object.
	plain, err := builder.Build(buildRequest(types.ModeCareerSuggestions, "resume body"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(plain.User, "PREFERENCES:\n{}") {
		t.Error("Empty preferences should render as {}")
	}
}

func TestBuildAtsPromptJobDescription(t *testing.T) {
	builder := NewPromptBuilder(&config.OperationAIConfig{}, "ats")

	req := buildRequest(types.ModeAtsOptimization, "resume body")
	req.Options.JobDescription = "Looking for a senior Go engineer"

	prompt, err := builder.Build(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(prompt.User, "JOB DESCRIPTION:\nLooking for a senior Go engineer") {
		t.Error("Job description block missing from prompt")
	}

	plain, err := builder.Build(buildRequest(types.ModeAtsOptimization, "resume body"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(plain.User, "JOB DESCRIPTION") {
		t.Error("Job description block should be absent when not provided")
	}
}

func TestBuildRejectsEmptySourceText(t *testing.T) {
	builder := NewPromptBuilder(&config.OperationAIConfig{}, "analyze")

	_, err := builder.Build(buildRequest(types.ModeFullAnalysis, "  \n\t "))
	if err == nil {
		t.Fatal("Expected validation error for blank source text")
	}
	if errors.TypeOf(err) != errors.ErrorTypeValidation {
		t.Errorf("Expected validation error, got %s", errors.TypeOf(err))
	}
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	builder := NewPromptBuilder(&config.OperationAIConfig{}, "analyze")

	_, err := builder.Build(buildRequest(types.Mode("sideways"), "resume body"))
	if err == nil {
		t.Fatal("Expected validation error for unknown mode")
	}
}

func TestConfigPromptOverridesDefault(t *testing.T) {
	cfg := &config.OperationAIConfig{
		CustomPrompts: config.PromptConfig{
			SystemPrompts: config.SystemPrompts{
				Analyze: "Custom system instructions",
			},
		},
	}
	builder := NewPromptBuilder(cfg, "analyze")

	prompt, err := builder.Build(buildRequest(types.ModeFullAnalysis, "resume body"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if prompt.System != "Custom system instructions" {
		t.Errorf("Config prompt should override default, got %q", prompt.System)
	}
}

func TestResolvePromptPriority(t *testing.T) {
	if got := resolvePrompt("from-file", "from-config", "default"); got != "from-file" {
		t.Errorf("File content should win, got %q", got)
	}
	if got := resolvePrompt("", "from-config", "default"); got != "from-config" {
		t.Errorf("Config should win over default, got %q", got)
	}
	if got := resolvePrompt("", "", "default"); got != "default" {
		t.Errorf("Default should be last resort, got %q", got)
	}
}
