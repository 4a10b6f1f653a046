package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "perplexity", cfg.AI.Provider)
	assert.Equal(t, "llama-3.1-sonar-large-128k-online", cfg.AI.Model)
	// Host only: the provider client owns the endpoint path.
	assert.Equal(t, "https://api.perplexity.ai", cfg.AI.BaseURL)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
}

func TestProviderKeyFromLegacyEnv(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "legacy-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.AI.APIKey)
}

func TestPrefixedProviderKeyWinsOverLegacy(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "legacy-key")
	t.Setenv("RESUMELENS_AI_APIKEY", "prefixed-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.AI.APIKey)
}
