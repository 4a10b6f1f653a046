package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of the application configuration tree.
//
// Credential precedence, highest first: Vault (when enabled), config file,
// environment variables (RESUMELENS_AI_APIKEY etc.), built-in defaults.
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds the global provider settings plus one override block per
// operation. Operation blocks use pointer fields so "unset" can be told
// apart from a zero value.
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	BaseURL          string        `mapstructure:"baseURL"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	TopP             float32       `mapstructure:"topP"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	Analyze OperationAIConfig `mapstructure:"analyze"`
	Focus   OperationAIConfig `mapstructure:"focus"`
	Careers OperationAIConfig `mapstructure:"careers"`
	Ats     OperationAIConfig `mapstructure:"ats"`
}

// CircuitBreakerConfig tunes the per-operation breaker. FailureThreshold
// is a ratio in [0,1]; MinRequests gates tripping on small samples.
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureThreshold float64       `mapstructure:"failureThreshold"`
}

// OperationAIConfig is one operation's AI settings. Nil pointers fall back
// to the global AIConfig values via applyOperationDefaults.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	BaseURL          string               `mapstructure:"baseURL"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	TopP             *float32             `mapstructure:"topP"`
	MaxTokens        *int                 `mapstructure:"maxTokens"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig groups the inline and file-based prompt overrides.
type PromptConfig struct {
	SystemPrompts SystemPrompts `mapstructure:"systemPrompts"`
	UserPrompts   UserPrompts   `mapstructure:"userPrompts"`
}

// SystemPrompts holds per-operation system persona overrides. The *File
// variants point at files whose content takes priority over the inline
// value.
type SystemPrompts struct {
	Analyze     string `mapstructure:"analyze"`
	AnalyzeFile string `mapstructure:"analyzeFile"`
	Focus       string `mapstructure:"focus"`
	FocusFile   string `mapstructure:"focusFile"`
	Careers     string `mapstructure:"careers"`
	CareersFile string `mapstructure:"careersFile"`
	Ats         string `mapstructure:"ats"`
	AtsFile     string `mapstructure:"atsFile"`
}

// UserPrompts holds per-operation user template overrides, same file
// semantics as SystemPrompts.
type UserPrompts struct {
	Analyze     string `mapstructure:"analyze"`
	AnalyzeFile string `mapstructure:"analyzeFile"`
	Focus       string `mapstructure:"focus"`
	FocusFile   string `mapstructure:"focusFile"`
	Careers     string `mapstructure:"careers"`
	CareersFile string `mapstructure:"careersFile"`
	Ats         string `mapstructure:"ats"`
	AtsFile     string `mapstructure:"atsFile"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// APIKeys are the static credentials; APIKeysFile optionally names a
	// file with one key per line that is watched and reloaded on change.
	APIKeys     []string `mapstructure:"apiKeys"`
	APIKeysFile string   `mapstructure:"apiKeysFile"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig controls the token-bucket limiter. ByIP and ByAPIKey
// select the bucketing dimension; API key wins when both are set.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds CLI/output settings shared by both surfaces.
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig is the full observability tree: exporters, sampling
// and the custom-metrics switches.
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds trace sampling settings.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metric collection settings.
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig controls console exporter output.
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig groups the per-category metric switches.
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig switches the AI call instruments.
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
	TrackModelInfo  bool `mapstructure:"trackModelInfo"`
}

// BusinessMetricsConfig switches the per-operation business counters.
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig switches infrastructure counters.
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds the scrape endpoint settings.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds the OTLP push exporter settings.
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig bounds the health endpoint's dependency probes.
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig builds the configuration from defaults, environment variables
// (RESUMELENS_ prefix) and an optional YAML file. Validation is deferred to
// Validate so Vault secrets can be applied first.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The provider key is also honored under its legacy unprefixed name.
	// The prefixed variable wins when both are set.
	_ = v.BindEnv("ai.apiKey", "RESUMELENS_AI_APIKEY", "PERPLEXITY_API_KEY")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumelens/")
	v.AddConfigPath("$HOME/.resumelens")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}
	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	config.logConfigurationSources(configFileUsed)
	return &config, nil
}

// Validate checks the settings every run needs. Called after Vault secrets
// are applied so Vault-sourced keys count as configured.
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("AI API key is required (set RESUMELENS_AI_APIKEY environment variable)")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}
	return nil
}
