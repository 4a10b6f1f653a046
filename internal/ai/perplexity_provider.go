package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"resumelens/internal/config"
	"resumelens/internal/errors"
)

const (
	defaultPerplexityBaseURL = "https://api.perplexity.ai"
	perplexityProviderName   = "Perplexity AI"
	completionsPath          = "/chat/completions"

	// Responses are bounded; a completion should never come close to this.
	maxResponseBodySize = 10 << 20
)

// PerplexityClient issues chat completions against the Perplexity API.
// It performs exactly one HTTP request per Complete call; retry and
// breaker policy live in the service layer.
type PerplexityClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *errors.Logger
}

// NewPerplexityClient creates a Perplexity completion client from operation
// configuration.
func NewPerplexityClient(cfg *config.OperationAIConfig, logger *errors.Logger) (*PerplexityClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Perplexity API key is required", nil)
	}

	// Accept both host-only and full-endpoint base URLs; Complete appends
	// the endpoint path exactly once.
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, completionsPath)
	if baseURL == "" {
		baseURL = defaultPerplexityBaseURL
	}

	timeout := 90 * time.Second
	if cfg.Timeout != nil && *cfg.Timeout > 0 {
		timeout = *cfg.Timeout
	}

	client := &PerplexityClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
	}

	logger.Info("Perplexity client initialized",
		"model", cfg.Model,
		"base_url", baseURL,
		"timeout", timeout.String())

	return client, nil
}

// chatMessage is one message in an OpenAI-style chat exchange.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the Perplexity chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	TopP        float32       `json:"top_p,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion request and returns the raw model text.
func (c *PerplexityClient) Complete(ctx context.Context, prompt Prompt, params SamplingParams) (*RawCompletion, error) {
	model := params.Model
	if model == "" {
		model = c.model
	}

	messages := make([]chatMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: prompt.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt.User})

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		TopP:        params.TopP,
		Stream:      false,
	})
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidFormat,
			"Failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest,
			"Failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError(errors.ErrCodeCancelled,
				"Completion request cancelled", ctx.Err())
		}
		return nil, errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
			"Failed to reach Perplexity API", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
			"Failed to read Perplexity API response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, errors.NewProviderError(errors.ErrCodeProviderRejected,
			"Perplexity API returned an unparseable response", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, errors.NewProviderError(errors.ErrCodeProviderRejected,
			"Perplexity API returned no completion choices", nil)
	}

	completion := &RawCompletion{
		Text:       chatResp.Choices[0].Message.Content,
		Model:      chatResp.Model,
		ReceivedAt: time.Now(),
	}
	if completion.Model == "" {
		completion.Model = model
	}
	if chatResp.Usage != nil {
		completion.Usage = &TokenUsage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:  chatResp.Usage.TotalTokens,
		}
	}

	c.logger.Debug("Perplexity completion received",
		"model", completion.Model,
		"finish_reason", chatResp.Choices[0].FinishReason,
		"response_length", len(completion.Text))

	return completion, nil
}

// statusError maps a non-200 HTTP status to the application error taxonomy.
// Rate limits and server-side failures are transient; credential problems
// and other client errors are not.
func (c *PerplexityClient) statusError(status int, body []byte) error {
	detail := providerErrorDetail(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.NewAuthError(errors.ErrCodeAuthFailed,
			fmt.Sprintf("Perplexity API rejected credentials (HTTP %d)", status), nil).
			WithContext("detail", detail)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
			fmt.Sprintf("Perplexity API unavailable (HTTP %d)", status), nil).
			WithContext("detail", detail)
	default:
		return errors.NewProviderError(errors.ErrCodeProviderRejected,
			fmt.Sprintf("Perplexity API rejected the request (HTTP %d)", status), nil).
			WithContext("detail", detail)
	}
}

// providerErrorDetail pulls a human-readable message out of an API error
// body, falling back to a truncated raw body.
func providerErrorDetail(body []byte) string {
	var errResp chatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > 512 {
		detail = detail[:512]
	}
	return detail
}

// GetModelInfo reports the configured model. Perplexity has no model
// metadata endpoint, so availability reflects client configuration only.
func (c *PerplexityClient) GetModelInfo(_ context.Context) *ModelInfo {
	return &ModelInfo{
		Name:        c.model,
		DisplayName: c.model,
		Available:   c.apiKey != "",
	}
}

// Name returns the provider label recorded on analysis results.
func (c *PerplexityClient) Name() string {
	return perplexityProviderName
}

// Close releases idle HTTP connections.
func (c *PerplexityClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
