package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"resumelens/internal/config"
	"resumelens/internal/errors"
)

const geminiProviderName = "Google Gemini"

// GeminiClient issues completions against Google Gemini. Like the
// Perplexity client it performs one request per Complete call; retry and
// breaker policy live in the service layer. Model availability checks keep
// their own breaker since they run on the health path.
type GeminiClient struct {
	client       *genai.Client
	model        string
	modelBreaker *ModelCircuitBreaker
	logger       *errors.Logger
}

// NewGeminiClient creates a Gemini completion client from operation
// configuration.
func NewGeminiClient(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Gemini API key is required", nil)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to create Gemini client", err)
	}

	logger.Info("Gemini client initialized",
		"model", cfg.Model,
		"operation_type", operationType)

	return &GeminiClient{
		client:       client,
		model:        cfg.Model,
		modelBreaker: NewModelCircuitBreaker(operationType, cfg, logger),
		logger:       logger,
	}, nil
}

// Complete sends one generation request and returns the raw model text.
func (g *GeminiClient) Complete(ctx context.Context, prompt Prompt, params SamplingParams) (*RawCompletion, error) {
	model := params.Model
	if model == "" {
		model = g.model
	}

	genConfig := &genai.GenerateContentConfig{}
	if params.Temperature > 0 {
		temp := params.Temperature
		genConfig.Temperature = &temp
	}
	if params.TopP > 0 {
		topP := params.TopP
		genConfig.TopP = &topP
	}
	if params.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(params.MaxTokens)
	}
	if prompt.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt.User), genConfig)
	if err != nil {
		return nil, g.mapError(ctx, err)
	}

	completion := &RawCompletion{
		Text:       result.Text(),
		Model:      model,
		ReceivedAt: time.Now(),
		Usage:      extractGeminiTokenUsage(result),
	}

	g.logger.Debug("Gemini completion received",
		"model", model,
		"response_length", len(completion.Text))

	return completion, nil
}

// mapError translates transport and Google API failures into the
// application error taxonomy so retry policy can key off the error type.
func (g *GeminiClient) mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.NewCancelledError(errors.ErrCodeCancelled,
			"Completion request cancelled", ctx.Err())
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
			"Failed to reach Gemini API", err)
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewAuthError(errors.ErrCodeAuthFailed,
				fmt.Sprintf("Gemini API rejected credentials (HTTP %d)", apiErr.Code), err)
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
				fmt.Sprintf("Gemini API unavailable (HTTP %d)", apiErr.Code), err)
		default:
			return errors.NewProviderError(errors.ErrCodeProviderRejected,
				fmt.Sprintf("Gemini API rejected the request (HTTP %d)", apiErr.Code), err)
		}
	}

	return errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
		"Gemini API request failed", err)
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiClient) GetModelInfo(ctx context.Context) *ModelInfo {
	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout())
	defer cancel()

	info, err := g.modelBreaker.ExecuteModel(func() (*ModelInfo, error) {
		model, err := g.client.Models.Get(checkCtx, g.model, &genai.GetModelConfig{})
		if err != nil {
			return nil, err
		}
		return &ModelInfo{
			Name:        g.model,
			DisplayName: model.DisplayName,
			Version:     model.Version,
			Available:   true,
		}, nil
	})
	if err != nil {
		g.logger.Warn("Model availability check failed",
			"model", g.model,
			"error", err.Error())
		return &ModelInfo{
			Name:      g.model,
			Available: false,
			Error:     fmt.Sprintf("Failed to get model info: %v", err),
		}
	}

	g.logger.Debug("Model availability check successful",
		"model", g.model,
		"display_name", info.DisplayName,
		"version", info.Version)

	return info
}

// Name returns the provider label recorded on analysis results.
func (g *GeminiClient) Name() string {
	return geminiProviderName
}

// Close implements CompletionClient. The genai client holds no resources
// that need releasing in single-shot usage.
func (g *GeminiClient) Close() error {
	return nil
}

// extractGeminiTokenUsage extracts token usage information from a Gemini API response
func extractGeminiTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// modelCheckTimeout bounds model availability lookups so health checks
// stay fast even when the provider is slow.
func modelCheckTimeout() time.Duration {
	return 10 * time.Second
}
