package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills in values viper cannot derive on its own.
func (c *Config) applyFallbacks() {
	// Per-operation API key fallbacks happen in the Get*Config methods.
	c.applyServerAPIKeyFallbacks()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks reads server API keys from the environment
// when neither config file nor defaults supplied any. Viper does not
// split env strings into slices, so this is done by hand.
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) > 0 {
		return
	}
	apiKeysEnv := os.Getenv("RESUMELENS_SERVER_APIKEYS")
	if apiKeysEnv == "" {
		return
	}
	keys := strings.Split(apiKeysEnv, ",")
	for i, key := range keys {
		keys[i] = strings.TrimSpace(key)
	}
	c.Server.APIKeys = keys
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	// Surface spans on the console when debugging
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources prints a startup summary of where config values
// came from, with credentials masked.
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: none (defaults + environment)")
	}

	watchedEnv := []string{
		"RESUMELENS_AI_APIKEY",
		"RESUMELENS_AI_PROVIDER",
		"RESUMELENS_AI_MODEL",
		"RESUMELENS_SERVER_PORT",
		"RESUMELENS_SERVER_HOST",
		"RESUMELENS_APP_LOGLEVEL",
		"RESUMELENS_VAULT_ENABLED",
		"PERPLEXITY_API_KEY", // legacy name, still honored
	}
	var set []string
	for _, name := range watchedEnv {
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "key") {
			value = "***MASKED***"
		}
		set = append(set, name+"="+value)
	}
	if len(set) > 0 {
		log.Printf("[CONFIG] Environment overrides: %s", strings.Join(set, " "))
	}

	apiKeyState := "not set"
	if c.AI.APIKey != "" {
		apiKeyState = "configured"
	}
	log.Printf("[CONFIG] AI provider=%s model=%s apiKey=%s", c.AI.Provider, c.AI.Model, apiKeyState)
	log.Printf("[CONFIG] Server %s:%s logLevel=%s vault=%t observability=%t",
		c.Server.Host, c.Server.Port, c.App.LogLevel, c.Vault.Enabled, c.Observability.Enabled)

	for _, op := range []struct {
		name string
		cfg  OperationAIConfig
	}{
		{"analyze", c.AI.Analyze},
		{"focus", c.AI.Focus},
		{"careers", c.AI.Careers},
		{"ats", c.AI.Ats},
	} {
		if op.cfg.Provider != "" || op.cfg.Model != "" {
			log.Printf("[CONFIG] Operation %s override: provider=%s model=%s", op.name, op.cfg.Provider, op.cfg.Model)
		}
	}
}
