package ai

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Service runs one analysis operation end to end: build the prompt, call
// the provider through breaker and retry, extract the embedded JSON and
// normalize it into the canonical result shape.
type Service struct {
	Client CompletionClient // Exported for access from server package

	config         *config.OperationAIConfig
	operationType  string
	builder        *PromptBuilder
	circuitBreaker *AICircuitBreaker
	logger         *errors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var client CompletionClient
	var err error

	switch cfg.Provider {
	case "perplexity":
		client, err = NewPerplexityClient(cfg, logger)
	case "gemini":
		client, err = NewGeminiClient(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, err
	}

	return &Service{
		Client:         client,
		config:         cfg,
		operationType:  operationType,
		builder:        NewPromptBuilder(cfg, operationType),
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// AnalyzeResume runs a full resume analysis and returns the canonical
// record. Unparseable model output degrades to the defaults record rather
// than failing the operation.
func (s *Service) AnalyzeResume(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisRecord, *TokenUsage, error) {
	req.Mode = types.ModeFullAnalysis

	raw, usage, err := s.complete(ctx, "analyze_resume", req,
		attribute.Int("input.resume_length", len(req.SourceText)))
	if err != nil {
		return nil, nil, err
	}

	extracted := Extract(raw.Text)
	if !extracted.OK() {
		s.logger.Warn("Analysis response contained no parseable JSON, returning defaults",
			"operation", "analyze_resume",
			"reason", extracted.Failure.Reason,
			"response_length", len(raw.Text))
	}

	record := NormalizeAnalysis(extracted, req.SourceText, s.Client.Name(), raw.ReceivedAt)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.overall_score", record.OverallScore),
			attribute.Int("output.skills_count", len(record.ExtractedSkills)),
			attribute.Bool("output.parsed", extracted.OK()),
		)
	}

	return &record, usage, nil
}

// AnalyzeFocused runs a targeted analysis of specific resume areas. The
// model's prose is returned as-is; no JSON contract applies here.
func (s *Service) AnalyzeFocused(ctx context.Context, req types.AnalysisRequest) (*types.FocusedAnalysis, *TokenUsage, error) {
	req.Mode = types.ModeFocusedAnalysis

	raw, usage, err := s.complete(ctx, "analyze_focused", req,
		attribute.Int("input.resume_length", len(req.SourceText)),
		attribute.Int("input.focus_areas", len(req.Options.FocusAreas)))
	if err != nil {
		return nil, nil, err
	}

	result := &types.FocusedAnalysis{
		Content:    raw.Text,
		FocusAreas: req.Options.FocusAreas,
		AnalyzedAt: raw.ReceivedAt,
		AIProvider: s.Client.Name(),
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.content_length", len(result.Content)))
	}

	return result, usage, nil
}

// SuggestCareers suggests career paths based on the resume. Unparseable
// model output yields an empty suggestion list.
func (s *Service) SuggestCareers(ctx context.Context, req types.AnalysisRequest) ([]types.CareerSuggestion, *TokenUsage, error) {
	req.Mode = types.ModeCareerSuggestions

	raw, usage, err := s.complete(ctx, "suggest_careers", req,
		attribute.Int("input.resume_length", len(req.SourceText)))
	if err != nil {
		return nil, nil, err
	}

	extracted := ExtractArray(raw.Text)
	if !extracted.OK() {
		s.logger.Warn("Career suggestions response contained no parseable JSON, returning empty list",
			"operation", "suggest_careers",
			"reason", extracted.Failure.Reason,
			"response_length", len(raw.Text))
	}

	suggestions := NormalizeCareerSuggestions(extracted)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.suggestions_count", len(suggestions)))
	}

	return suggestions, usage, nil
}

// OptimizeForATS analyzes the resume for ATS compatibility. Unparseable
// model output yields a nil result, which callers surface as "no
// optimization available".
func (s *Service) OptimizeForATS(ctx context.Context, req types.AnalysisRequest) (*types.AtsOptimizationResult, *TokenUsage, error) {
	req.Mode = types.ModeAtsOptimization

	raw, usage, err := s.complete(ctx, "optimize_for_ats", req,
		attribute.Int("input.resume_length", len(req.SourceText)),
		attribute.Int("input.job_description_length", len(req.Options.JobDescription)))
	if err != nil {
		return nil, nil, err
	}

	extracted := Extract(raw.Text)
	if !extracted.OK() {
		s.logger.Warn("ATS optimization response contained no parseable JSON, returning no result",
			"operation", "optimize_for_ats",
			"reason", extracted.Failure.Reason,
			"response_length", len(raw.Text))
	}

	result := NormalizeAtsOptimization(extracted, s.Client.Name(), raw.ReceivedAt)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Bool("output.parsed", result != nil))
		if result != nil {
			span.SetAttributes(attribute.Int("output.ats_score", result.ATSScore))
		}
	}

	return result, usage, nil
}

// complete runs the shared operation pipeline: prompt building, tracing,
// circuit breaker and retry around a single provider call.
func (s *Service) complete(ctx context.Context, operationName string, req types.AnalysisRequest, spanAttributes ...attribute.KeyValue) (*RawCompletion, *TokenUsage, error) {
	tracer := otel.Tracer("resumelens.ai")
	ctx, span := tracer.Start(ctx, operationName)
	defer span.End()

	params := s.samplingParams(req)
	span.SetAttributes(
		attribute.String("ai.provider", s.config.Provider),
		attribute.String("ai.model", params.Model),
		attribute.Float64("ai.temperature", float64(params.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	prompt, err := s.builder.Build(req)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, nil, err
	}
	if !*s.config.UseSystemPrompts {
		prompt.System = ""
	}

	result, err := s.circuitBreaker.Execute(func() (*RawCompletion, error) {
		return s.executeWithRetry(ctx, operationName, func() (*RawCompletion, error) {
			return s.Client.Complete(ctx, prompt, params)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, nil, err
	}

	if result.Usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.Usage.InputTokens),
			attribute.Int64("ai.tokens.output", result.Usage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.Usage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result, result.Usage, nil
}

// samplingParams resolves the request parameters for one completion.
// Request overrides beat operation configuration.
func (s *Service) samplingParams(req types.AnalysisRequest) SamplingParams {
	params := SamplingParams{
		Model:       s.config.Model,
		Temperature: *s.config.Temperature,
		TopP:        *s.config.TopP,
	}
	if s.config.MaxTokens != nil {
		params.MaxTokens = *s.config.MaxTokens
	}
	if req.Options.Model != "" {
		params.Model = req.Options.Model
	}
	if req.Options.MaxTokens > 0 {
		params.MaxTokens = req.Options.MaxTokens
	}
	return params
}

// executeWithRetry executes a completion with retry logic and exponential backoff
func (s *Service) executeWithRetry(ctx context.Context, operation string, fn func() (*RawCompletion, error)) (*RawCompletion, error) {
	var lastErr error

	for attempt := 0; attempt <= *s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *s.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			// Use crypto/rand for secure random jitter
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewCancelledError(errors.ErrCodeCancelled,
					"Operation cancelled while waiting to retry", ctx.Err())
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				s.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on auth, validation or provider rejections
		if !errors.IsRetryable(err) {
			s.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	s.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *s.config.MaxRetries+1)

	return nil, lastErr
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Client.GetModelInfo(ctx)
}

// GetCircuitBreakerStats returns circuit breaker statistics for the stats endpoint
func (s *Service) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations": s.circuitBreaker.GetStats(),
	}
	stats["overall_healthy"] = s.circuitBreaker.IsHealthy()
	return stats
}

// OperationType returns the operation this service is configured for.
func (s *Service) OperationType() string {
	return s.operationType
}

// Close releases provider resources.
func (s *Service) Close() error {
	return s.Client.Close()
}
