package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalChatResponse = `{
	"id": "cmpl-1",
	"model": "test-model",
	"choices": [{"message": {"role": "assistant", "content": "{}"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestCompleteRequestsEndpointExactlyOnce(t *testing.T) {
	// The base URL may be configured as a bare host or as the full chat
	// completions endpoint; either way exactly one path segment goes out.
	tests := []struct {
		name   string
		suffix string
	}{
		{"host-only base URL", ""},
		{"trailing slash", "/"},
		{"full endpoint base URL", "/chat/completions"},
		{"full endpoint with trailing slash", "/chat/completions/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(minimalChatResponse))
			}))
			defer srv.Close()

			cfg := testOperationConfig(0)
			cfg.BaseURL = srv.URL + tt.suffix
			client, err := NewPerplexityClient(cfg, testLogger)
			require.NoError(t, err)

			completion, err := client.Complete(context.Background(),
				Prompt{User: "analyze this"}, SamplingParams{Temperature: 0.7, MaxTokens: 100})
			require.NoError(t, err)

			assert.Equal(t, "/chat/completions", gotPath)
			assert.Equal(t, "Bearer test-key", gotAuth)
			assert.Equal(t, "{}", completion.Text)
			require.NotNil(t, completion.Usage)
			assert.Equal(t, int64(15), completion.Usage.TotalTokens)
		})
	}
}
