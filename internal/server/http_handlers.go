package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"resumelens/internal/ai"
	"resumelens/internal/config"
)

func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler reports service health: AI model reachability per operation,
// circuit breaker state, and API key configuration. Returns 503 when any
// model is unavailable.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	aiStatus := s.checkAIModelsHealth()
	response := map[string]any{
		"status":           "healthy",
		"service":          "resumelens",
		"version":          s.Version,
		"ai_models":        aiStatus,
		"circuit_breakers": s.checkCircuitBreakerHealth(),
		"api_keys":         s.checkAPIKeyHealth(),
	}

	statusCode := http.StatusOK
	if !allModelsAvailable(aiStatus) {
		response["status"] = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, response)
}

// allModelsAvailable scans the per-operation model reports for any entry
// explicitly marked unavailable.
func allModelsAvailable(aiStatus map[string]any) bool {
	for _, modelStatus := range aiStatus {
		info, ok := modelStatus.(map[string]any)
		if !ok {
			continue
		}
		if available, ok := info["available"].(bool); ok && !available {
			return false
		}
	}
	return true
}

// operationConfigs returns the per-operation AI configurations keyed by
// operation name, in the order the health endpoint reports them.
func (s *Server) operationConfigs() []struct {
	Name   string
	Config config.OperationAIConfig
} {
	return []struct {
		Name   string
		Config config.OperationAIConfig
	}{
		{"analyze", s.AppConfig.GetAnalyzeConfig()},
		{"focus", s.AppConfig.GetFocusConfig()},
		{"careers", s.AppConfig.GetCareersConfig()},
		{"ats", s.AppConfig.GetAtsConfig()},
	}
}

// checkAIModelsHealth probes each operation's configured model within the
// health check timeout.
func (s *Server) checkAIModelsHealth() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), s.getHealthCheckTimeout())
	defer cancel()

	aiStatus := make(map[string]any)
	for _, op := range s.operationConfigs() {
		service, err := ai.NewService(&op.Config, op.Name, s.Logger)
		if err != nil {
			aiStatus[op.Name] = serviceUnavailable(op.Name, err)
			continue
		}
		aiStatus[op.Name] = service.GetModelInfo(ctx)
	}
	return aiStatus
}

// checkCircuitBreakerHealth collects breaker stats for every operation.
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	breakerStatus := make(map[string]any)
	for _, op := range s.operationConfigs() {
		service, err := ai.NewService(&op.Config, op.Name, s.Logger)
		if err != nil {
			breakerStatus[op.Name] = serviceUnavailable(op.Name, err)
			continue
		}
		breakerStatus[op.Name] = service.GetCircuitBreakerStats()
	}
	return breakerStatus
}

func serviceUnavailable(operation string, err error) map[string]any {
	return map[string]any{
		"available": false,
		"error":     fmt.Sprintf("Failed to create %s service: %v", operation, err),
	}
}

// checkAPIKeyHealth reports the authentication configuration and the
// state of the keys file watcher when one is configured.
func (s *Server) checkAPIKeyHealth() map[string]any {
	keyStatus := map[string]any{
		"auth_enabled":    s.apiKeyCount() > 0,
		"keys_configured": s.apiKeyCount(),
	}

	if s.APIKeysFile != "" {
		running := s.keyWatcher != nil && s.keyWatcher.IsRunning()
		keyStatus["file_watcher"] = map[string]any{
			"file":    s.APIKeysFile,
			"running": running,
		}
	}

	return keyStatus
}

// statsHandler exposes request size limits and rate limiter state.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumelens",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest decodes the request body into v. A MaxBytesReader limit
// hit is reported as a size error rather than a generic decode failure.
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// writeJSON writes payload with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes the standard error envelope.
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
