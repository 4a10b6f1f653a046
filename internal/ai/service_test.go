package ai

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Helper functions to create pointers for test values
func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = errors.NewLogger(slog.LevelDebug)

// fakeClient scripts completion outcomes per call for orchestration tests.
type fakeClient struct {
	respond    func(call int) (*RawCompletion, error)
	calls      int
	lastPrompt Prompt
	lastParams SamplingParams
}

func (f *fakeClient) Complete(_ context.Context, prompt Prompt, params SamplingParams) (*RawCompletion, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastParams = params
	return f.respond(f.calls)
}

func (f *fakeClient) GetModelInfo(_ context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake-model", Available: true}
}

func (f *fakeClient) Name() string { return "Fake Provider" }
func (f *fakeClient) Close() error { return nil }

func respondWith(text string) func(int) (*RawCompletion, error) {
	return func(int) (*RawCompletion, error) {
		return &RawCompletion{Text: text, Model: "fake-model", ReceivedAt: time.Now()}, nil
	}
}

func testOperationConfig(maxRetries int) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:         "perplexity",
		Model:            "test-model",
		Timeout:          timePtr(5 * time.Second),
		APIKey:           "test-key",
		MaxRetries:       intPtr(maxRetries),
		Temperature:      float32Ptr(0.7),
		TopP:             float32Ptr(0.9),
		MaxTokens:        intPtr(4000),
		UseSystemPrompts: boolPtr(true),
	}
}

func newTestService(client CompletionClient, cfg *config.OperationAIConfig, operationType string) *Service {
	return &Service{
		Client:         client,
		config:         cfg,
		operationType:  operationType,
		builder:        NewPromptBuilder(cfg, operationType),
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, testLogger),
		logger:         testLogger,
	}
}

func analysisRequest(text string) types.AnalysisRequest {
	return types.AnalysisRequest{SourceText: text}
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	cfg := testOperationConfig(0)
	cfg.Provider = "watson"

	_, err := NewService(cfg, "analyze", testLogger)
	if err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
	if errors.TypeOf(err) != errors.ErrorTypeConfig {
		t.Errorf("Expected config error, got %s", errors.TypeOf(err))
	}
}

func TestAnalyzeResumeRetriesTransientFailures(t *testing.T) {
	client := &fakeClient{
		respond: func(call int) (*RawCompletion, error) {
			if call <= 2 {
				return nil, errors.NewNetworkError(errors.ErrCodeProviderUnavailable, "transient", nil)
			}
			return &RawCompletion{Text: `{"overallScore": 70}`, ReceivedAt: time.Now()}, nil
		},
	}
	svc := newTestService(client, testOperationConfig(2), "analyze")

	record, _, err := svc.AnalyzeResume(context.Background(), analysisRequest("resume body"))
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if client.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", client.calls)
	}
	if record.OverallScore != 70 {
		t.Errorf("Expected score 70, got %d", record.OverallScore)
	}
}

func TestAuthErrorsAreNotRetried(t *testing.T) {
	client := &fakeClient{
		respond: func(int) (*RawCompletion, error) {
			return nil, errors.NewAuthError(errors.ErrCodeAuthFailed, "bad key", nil)
		},
	}
	svc := newTestService(client, testOperationConfig(3), "analyze")

	_, _, err := svc.AnalyzeResume(context.Background(), analysisRequest("resume body"))
	if err == nil {
		t.Fatal("Expected auth error")
	}
	if !errors.IsAuthError(err) {
		t.Errorf("Expected auth error type, got %s", errors.TypeOf(err))
	}
	if client.calls != 1 {
		t.Errorf("Auth failures must not retry, got %d attempts", client.calls)
	}
}

func TestProviderRejectionsAreNotRetried(t *testing.T) {
	client := &fakeClient{
		respond: func(int) (*RawCompletion, error) {
			return nil, errors.NewProviderError(errors.ErrCodeProviderRejected, "bad request", nil)
		},
	}
	svc := newTestService(client, testOperationConfig(3), "analyze")

	_, _, err := svc.AnalyzeResume(context.Background(), analysisRequest("resume body"))
	if err == nil {
		t.Fatal("Expected provider error")
	}
	if client.calls != 1 {
		t.Errorf("Provider rejections must not retry, got %d attempts", client.calls)
	}
}

func TestCancellationDuringRetryWait(t *testing.T) {
	client := &fakeClient{
		respond: func(int) (*RawCompletion, error) {
			return nil, errors.NewNetworkError(errors.ErrCodeProviderUnavailable, "transient", nil)
		},
	}
	svc := newTestService(client, testOperationConfig(3), "analyze")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, _, err := svc.AnalyzeResume(ctx, analysisRequest("resume body"))
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if !errors.IsCancelled(err) {
		t.Errorf("Expected cancelled error type, got %s", errors.TypeOf(err))
	}
	if client.calls != 1 {
		t.Errorf("Expected a single attempt before the cancelled wait, got %d", client.calls)
	}
}

func TestValidationFailsBeforeProviderCall(t *testing.T) {
	client := &fakeClient{respond: respondWith("{}")}
	svc := newTestService(client, testOperationConfig(0), "analyze")

	_, _, err := svc.AnalyzeResume(context.Background(), analysisRequest("   "))
	if err == nil {
		t.Fatal("Expected validation error for empty source text")
	}
	if errors.TypeOf(err) != errors.ErrorTypeValidation {
		t.Errorf("Expected validation error, got %s", errors.TypeOf(err))
	}
	if client.calls != 0 {
		t.Errorf("Provider must not be called on validation failure, got %d calls", client.calls)
	}
}

func TestAnalyzeResumeDefaultsOnGarbage(t *testing.T) {
	client := &fakeClient{respond: respondWith("I could not produce structured output, sorry.")}
	svc := newTestService(client, testOperationConfig(0), "analyze")

	record, _, err := svc.AnalyzeResume(context.Background(), analysisRequest("resume body"))
	if err != nil {
		t.Fatalf("Garbage output must degrade, not fail: %v", err)
	}
	if record.Summary != "No summary available" {
		t.Errorf("Expected default summary, got %q", record.Summary)
	}
	if record.ATSCompatibility.ParsingSuccess {
		t.Error("Expected parsing_success false for garbage output")
	}
	if record.AIProvider != "Fake Provider" {
		t.Errorf("Expected provider provenance, got %q", record.AIProvider)
	}
}

func TestAnalyzeFocusedReturnsRawContent(t *testing.T) {
	client := &fakeClient{respond: respondWith("The skills section undersells the candidate.")}
	svc := newTestService(client, testOperationConfig(0), "focus")

	req := analysisRequest("resume body")
	req.Options.FocusAreas = []string{"skills", "experience"}

	result, _, err := svc.AnalyzeFocused(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Content != "The skills section undersells the candidate." {
		t.Errorf("Content must pass through untouched, got %q", result.Content)
	}
	if len(result.FocusAreas) != 2 {
		t.Errorf("Focus areas must echo the request, got %v", result.FocusAreas)
	}
}

func TestSuggestCareersGarbageYieldsEmptyList(t *testing.T) {
	client := &fakeClient{respond: respondWith("no list today")}
	svc := newTestService(client, testOperationConfig(0), "careers")

	suggestions, _, err := svc.SuggestCareers(context.Background(), analysisRequest("resume body"))
	if err != nil {
		t.Fatalf("Garbage output must degrade, not fail: %v", err)
	}
	if suggestions == nil || len(suggestions) != 0 {
		t.Errorf("Expected empty suggestion list, got %+v", suggestions)
	}
}

func TestOptimizeForATSGarbageYieldsNil(t *testing.T) {
	client := &fakeClient{respond: respondWith("no structure at all")}
	svc := newTestService(client, testOperationConfig(0), "ats")

	result, _, err := svc.OptimizeForATS(context.Background(), analysisRequest("resume body"))
	if err != nil {
		t.Fatalf("Garbage output must degrade, not fail: %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil result, got %+v", result)
	}
}

func TestRequestOverridesSamplingParams(t *testing.T) {
	client := &fakeClient{respond: respondWith("{}")}
	svc := newTestService(client, testOperationConfig(0), "analyze")

	req := analysisRequest("resume body")
	req.Options.Model = "custom-model"
	req.Options.MaxTokens = 1234

	_, _, err := svc.AnalyzeResume(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.lastParams.Model != "custom-model" {
		t.Errorf("Request model override not applied, got %q", client.lastParams.Model)
	}
	if client.lastParams.MaxTokens != 1234 {
		t.Errorf("Request max tokens override not applied, got %d", client.lastParams.MaxTokens)
	}
	if client.lastParams.Temperature != 0.7 {
		t.Errorf("Operation temperature should still apply, got %v", client.lastParams.Temperature)
	}
}

func TestSystemPromptsDisabled(t *testing.T) {
	cfg := testOperationConfig(0)
	cfg.UseSystemPrompts = boolPtr(false)

	client := &fakeClient{respond: respondWith("{}")}
	svc := newTestService(client, cfg, "analyze")

	_, _, err := svc.AnalyzeResume(context.Background(), analysisRequest("resume body"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.lastPrompt.System != "" {
		t.Errorf("System prompt should be suppressed, got %q", client.lastPrompt.System)
	}
	if client.lastPrompt.User == "" {
		t.Error("User prompt should still be built")
	}
}

// TestOperationSpecificConfigDerivation verifies that operation-specific
// configurations are correctly derived, with fallbacks to the global
// configuration.
func TestOperationSpecificConfigDerivation(t *testing.T) {
	testConfig := &config.Config{
		AI: config.AIConfig{
			Provider:    "perplexity",
			Model:       "llama-3.1-sonar-large-128k-online",
			Timeout:     60 * time.Second,
			APIKey:      "global-api-key",
			MaxRetries:  5,
			Temperature: 0.7,
			TopP:        0.9,
			Analyze: config.OperationAIConfig{
				Model:       "analyze-specific-model",
				Timeout:     timePtr(90 * time.Second),
				Temperature: float32Ptr(0.3),
			},
			Careers: config.OperationAIConfig{
				Temperature: float32Ptr(0.8),
				MaxTokens:   intPtr(3000),
			},
		},
	}

	t.Run("AnalyzeConfigDerivation", func(t *testing.T) {
		cfg := testConfig.GetAnalyzeConfig()

		if cfg.Model != "analyze-specific-model" {
			t.Errorf("Expected operation-specific model, got %q", cfg.Model)
		}
		if *cfg.Timeout != 90*time.Second {
			t.Errorf("Expected operation-specific timeout, got %v", *cfg.Timeout)
		}
		if *cfg.Temperature != 0.3 {
			t.Errorf("Expected operation-specific temperature, got %v", *cfg.Temperature)
		}
		// Fallbacks from global config
		if cfg.APIKey != "global-api-key" {
			t.Errorf("Expected global API key fallback, got %q", cfg.APIKey)
		}
		if *cfg.MaxRetries != 5 {
			t.Errorf("Expected global max retries fallback, got %d", *cfg.MaxRetries)
		}
		if *cfg.TopP != 0.9 {
			t.Errorf("Expected global topP fallback, got %v", *cfg.TopP)
		}
	})

	t.Run("CareersConfigDerivation", func(t *testing.T) {
		cfg := testConfig.GetCareersConfig()

		if *cfg.Temperature != 0.8 {
			t.Errorf("Expected operation-specific temperature, got %v", *cfg.Temperature)
		}
		if cfg.MaxTokens == nil || *cfg.MaxTokens != 3000 {
			t.Errorf("Expected operation-specific max tokens, got %v", cfg.MaxTokens)
		}
		if cfg.Model != "llama-3.1-sonar-large-128k-online" {
			t.Errorf("Expected global model fallback, got %q", cfg.Model)
		}
	})

	t.Run("FocusConfigFullFallback", func(t *testing.T) {
		cfg := testConfig.GetFocusConfig()

		if cfg.Provider != "perplexity" || cfg.Model != "llama-3.1-sonar-large-128k-online" {
			t.Errorf("Expected full global fallback, got provider %q model %q", cfg.Provider, cfg.Model)
		}
		if *cfg.Timeout != 60*time.Second {
			t.Errorf("Expected global timeout fallback, got %v", *cfg.Timeout)
		}
	})
}
