package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "perplexity")
	v.SetDefault("ai.model", "llama-3.1-sonar-large-128k-online")
	v.SetDefault("ai.baseURL", "https://api.perplexity.ai")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 2)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.topP", 0.9)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Full analysis operation defaults
	v.SetDefault("ai.analyze.provider", "")
	v.SetDefault("ai.analyze.model", "")
	v.SetDefault("ai.analyze.timeout", 90*time.Second) // Longest operation, biggest completion
	v.SetDefault("ai.analyze.apiKey", "")
	v.SetDefault("ai.analyze.maxRetries", 2)
	v.SetDefault("ai.analyze.temperature", 0.7)
	v.SetDefault("ai.analyze.maxTokens", 4000)
	v.SetDefault("ai.analyze.useSystemPrompts", true)

	// AI Configuration - Focused analysis operation defaults
	v.SetDefault("ai.focus.provider", "")
	v.SetDefault("ai.focus.model", "")
	v.SetDefault("ai.focus.timeout", 60*time.Second)
	v.SetDefault("ai.focus.apiKey", "")
	v.SetDefault("ai.focus.maxRetries", 2)
	v.SetDefault("ai.focus.temperature", 0.7)
	v.SetDefault("ai.focus.maxTokens", 2000)
	v.SetDefault("ai.focus.useSystemPrompts", true)

	// AI Configuration - Career suggestions operation defaults
	v.SetDefault("ai.careers.provider", "")
	v.SetDefault("ai.careers.model", "")
	v.SetDefault("ai.careers.timeout", 75*time.Second)
	v.SetDefault("ai.careers.apiKey", "")
	v.SetDefault("ai.careers.maxRetries", 2)
	v.SetDefault("ai.careers.temperature", 0.8) // Slightly creative for path suggestions
	v.SetDefault("ai.careers.maxTokens", 3000)
	v.SetDefault("ai.careers.useSystemPrompts", true)

	// AI Configuration - ATS optimization operation defaults
	v.SetDefault("ai.ats.provider", "")
	v.SetDefault("ai.ats.model", "")
	v.SetDefault("ai.ats.timeout", 60*time.Second)
	v.SetDefault("ai.ats.apiKey", "")
	v.SetDefault("ai.ats.maxRetries", 2)
	v.SetDefault("ai.ats.temperature", 0.6) // Lower temperature for mechanical rewrites
	v.SetDefault("ai.ats.maxTokens", 2500)
	v.SetDefault("ai.ats.useSystemPrompts", true)

	// Circuit Breaker Configuration defaults for all operations
	for _, op := range []string{"analyze", "focus", "careers", "ats"} {
		v.SetDefault("ai."+op+".circuitBreaker.enabled", true)
		v.SetDefault("ai."+op+".circuitBreaker.maxRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.minRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.failureThreshold", 0.6)
	}

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.apiKeysFile", "")
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.providerKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumelens")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackModelInfo", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
