package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"resumelens/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection settings.
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets names the KVv2 paths the app reads its credentials from.
// The APIKeys secret stores a single comma-separated string under "keys";
// the ProviderKey secret stores the AI provider credential under "api_key".
type VaultSecrets struct {
	APIKeys     string `mapstructure:"apiKeys"`
	ProviderKey string `mapstructure:"providerKey"`
}

// VaultClient wraps the Vault API client with app-level secret helpers.
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient connects to Vault and verifies the connection. Returns
// (nil, nil) when Vault integration is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to connect to Vault", "address", vaultConfig.Address)
		}
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if logger != nil {
		logger.Info("Connected to Vault",
			"address", vaultConfig.Address,
			"version", health.Version,
			"sealed", health.Sealed)
	}

	return &VaultClient{client: client, config: config, logger: logger}, nil
}

// resolveVaultToken picks the token from config, falling back to the token
// file. An empty result is an error since Vault is enabled at this point.
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		raw, err := os.ReadFile(config.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			}
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// VaultSecret is a secret read from Vault's KVv2 engine.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// GetSecretV2 reads a KVv2 secret, unwrapping the data/metadata envelope.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		if vc.logger != nil {
			vc.logger.LogError(err, "Failed to read secret from Vault", "path", path)
		}
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, err := kvv2Data(secret, path)
	if err != nil {
		return nil, err
	}
	version, err := kvv2Version(secret, path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// kvv2Data unwraps the inner data map of a KVv2 read response.
func kvv2Data(secret *api.Secret, path string) (map[string]any, error) {
	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	return data, nil
}

// kvv2Version extracts the secret version from the KVv2 metadata envelope.
func kvv2Version(secret *api.Secret, path string) (int64, error) {
	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return 0, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	return parseVersionValue(versionRaw, path)
}

// parseVersionValue handles the version types Vault may return. JSON
// decoding often yields float64 where the API documents an integer.
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// GetStringSecret reads one string value out of a KVv2 secret, logging
// only a masked form of it.
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}

	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}

	if vc.logger != nil {
		vc.logger.Debug("String secret retrieved from Vault",
			"path", path,
			"key", key,
			"masked_value", maskSecretValue(strValue))
	}
	return strValue, nil
}

// maskSecretValue keeps at most the first and last four characters.
func maskSecretValue(value string) string {
	if len(value) > 8 {
		return value[:4] + "****" + value[len(value)-4:]
	}
	if len(value) > 0 {
		return "****"
	}
	return ""
}

// GetStringSliceSecret reads a comma-separated string secret as a slice,
// trimming whitespace around each element.
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []string{}, nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, len(parts))
	for i, part := range parts {
		result[i] = strings.TrimSpace(part)
	}
	return result, nil
}

// ApplyVaultSecrets resolves the configured Vault secrets and writes them
// into the config. A disabled Vault section is a no-op, not an error.
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if client == nil {
		return nil
	}

	if err := client.loadServerKeys(config); err != nil {
		return err
	}
	if err := client.loadProviderKey(config); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("Successfully completed applying secrets from Vault")
	}
	return nil
}

// loadServerKeys replaces the configured server API keys with the set
// stored in Vault, when a path is configured and the secret is non-empty.
func (vc *VaultClient) loadServerKeys(config *Config) error {
	path := vc.config.Secrets.APIKeys
	if path == "" {
		return nil
	}

	apiKeys, err := vc.GetStringSliceSecret(path, "keys")
	if err != nil {
		return fmt.Errorf("failed to load API keys from vault: %w", err)
	}

	if len(apiKeys) == 0 {
		if vc.logger != nil {
			vc.logger.Warn("No API keys found in Vault", "path", path)
		}
		return nil
	}

	config.Server.APIKeys = apiKeys
	if vc.logger != nil {
		vc.logger.Info("API keys loaded from Vault", "count", len(apiKeys))
	}
	return nil
}

// loadProviderKey fills the AI provider credential from Vault. Operation
// configs that already carry their own key keep it.
func (vc *VaultClient) loadProviderKey(config *Config) error {
	path := vc.config.Secrets.ProviderKey
	if path == "" {
		return nil
	}

	providerKey, err := vc.GetStringSecret(path, "api_key")
	if err != nil {
		return fmt.Errorf("failed to load provider API key from vault: %w", err)
	}

	if providerKey == "" {
		if vc.logger != nil {
			vc.logger.Warn("Empty provider API key found in Vault", "path", path)
		}
		return nil
	}

	applyProviderKeyToConfig(config, providerKey)
	if vc.logger != nil {
		vc.logger.Info("Provider API key loaded from Vault and applied to all AI configurations")
	}
	return nil
}

// applyProviderKeyToConfig sets the global key and backfills any operation
// config without an explicit override.
func applyProviderKeyToConfig(config *Config, providerKey string) {
	config.AI.APIKey = providerKey
	for _, opKey := range []*string{
		&config.AI.Analyze.APIKey,
		&config.AI.Focus.APIKey,
		&config.AI.Careers.APIKey,
		&config.AI.Ats.APIKey,
	} {
		if *opKey == "" {
			*opKey = providerKey
		}
	}
}
