package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{name: "int64 passes through", input: int64(42), want: 42},
		{name: "float64 from JSON decoding", input: float64(42.0), want: 42},
		{name: "numeric string", input: "42", want: 42},
		{name: "non-numeric string", input: "not-a-number", wantErr: true},
		{name: "unsupported type", input: []string{"42"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/test")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyProviderKeyToConfig(t *testing.T) {
	t.Run("backfills all operations", func(t *testing.T) {
		cfg := &Config{}
		applyProviderKeyToConfig(cfg, "vault-key")

		assert.Equal(t, "vault-key", cfg.AI.APIKey)
		assert.Equal(t, "vault-key", cfg.AI.Analyze.APIKey)
		assert.Equal(t, "vault-key", cfg.AI.Focus.APIKey)
		assert.Equal(t, "vault-key", cfg.AI.Careers.APIKey)
		assert.Equal(t, "vault-key", cfg.AI.Ats.APIKey)
	})

	t.Run("keeps explicit per-operation overrides", func(t *testing.T) {
		cfg := &Config{}
		cfg.AI.Analyze.APIKey = "analyze-override"

		applyProviderKeyToConfig(cfg, "vault-key")

		assert.Equal(t, "vault-key", cfg.AI.APIKey)
		assert.Equal(t, "analyze-override", cfg.AI.Analyze.APIKey)
		assert.Equal(t, "vault-key", cfg.AI.Focus.APIKey)
	})
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config wins", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token read and trimmed from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, nil)
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"}, nil)
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("no token configured", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, nil)
		assert.ErrorContains(t, err, "vault token is required")
	})

	t.Run("whitespace-only token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "empty-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("   \n  \n"), 0600))

		_, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, nil)
		assert.ErrorContains(t, err, "vault token is required")
	})
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, nil))
}

func TestKvv2Data(t *testing.T) {
	t.Run("unwraps the data envelope", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{
			"data": map[string]any{"key1": "value1", "key2": "value2"},
		}}

		data, err := kvv2Data(secret, "secret/test")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"key1": "value1", "key2": "value2"}, data)
	})

	t.Run("rejects KVv1-shaped response", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"key1": "value1"}}

		_, err := kvv2Data(secret, "secret/test")
		assert.ErrorContains(t, err, "missing 'data' field")
	})

	t.Run("rejects non-map data field", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"data": "not-a-map"}}

		_, err := kvv2Data(secret, "secret/test")
		assert.Error(t, err)
	})
}

func TestKvv2Version(t *testing.T) {
	t.Run("reads version from metadata", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{
			"metadata": map[string]any{"version": float64(7)},
		}}

		version, err := kvv2Version(secret, "secret/test")
		require.NoError(t, err)
		assert.Equal(t, int64(7), version)
	})

	t.Run("missing metadata envelope", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{
			"data": map[string]any{},
		}}

		_, err := kvv2Version(secret, "secret/test")
		assert.ErrorContains(t, err, "missing 'metadata' field")
	})

	t.Run("metadata without version", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{
			"metadata": map[string]any{"other": "value"},
		}}

		_, err := kvv2Version(secret, "secret/test")
		assert.ErrorContains(t, err, "missing 'version' field")
	})
}

func TestMaskSecretValue(t *testing.T) {
	assert.Equal(t, "", maskSecretValue(""))
	assert.Equal(t, "****", maskSecretValue("short"))
	assert.Equal(t, "****", maskSecretValue("12345678"))
	assert.Equal(t, "pplx****5678", maskSecretValue("pplx-abcd-5678"))
}

func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient
	_, err := vc.GetSecretV2("secret/data/resumelens")
	assert.ErrorContains(t, err, "not initialized")
}
