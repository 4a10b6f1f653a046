package ai

import (
	"fmt"

	"resumelens/internal/config"
	"resumelens/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// AICircuitBreaker guards completion calls. Each operation type carries its
// own breaker so a flaky careers pipeline cannot trip full analysis. A nil
// receiver means the breaker is disabled and calls pass through.
type AICircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*RawCompletion]
}

// ModelCircuitBreaker guards model info lookups with a more lenient trip
// policy, since a failing metadata probe should not block completions.
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*ModelInfo]
}

// NewAICircuitBreaker builds the completion breaker for one operation type,
// or nil when breakers are disabled in config.
func NewAICircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *AICircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	trip := func(counts gobreaker.Counts) bool {
		ratio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
			ratio >= cfg.CircuitBreaker.FailureThreshold
	}
	settings := breakerSettings(fmt.Sprintf("AI-%s", operationType), operationType, cfg, trip, logger)

	return &AICircuitBreaker{cb: gobreaker.NewCircuitBreaker[*RawCompletion](settings)}
}

// NewModelCircuitBreaker builds the model lookup breaker for one operation
// type, or nil when breakers are disabled in config.
func NewModelCircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	trip := func(counts gobreaker.Counts) bool {
		ratio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && ratio >= 0.8
	}
	settings := breakerSettings(fmt.Sprintf("AI-Model-%s", operationType), operationType, cfg, trip, logger)

	return &ModelCircuitBreaker{cb: gobreaker.NewCircuitBreaker[*ModelInfo](settings)}
}

// breakerSettings assembles gobreaker settings shared by both breaker kinds.
func breakerSettings(name, operationType string, cfg *config.OperationAIConfig, trip func(gobreaker.Counts) bool, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String())
		},
	}
}

// Execute runs fn under breaker protection; a nil breaker passes through.
func (cb *AICircuitBreaker) Execute(fn func() (*RawCompletion, error)) (*RawCompletion, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// ExecuteModel runs fn under breaker protection; a nil breaker passes through.
func (cb *ModelCircuitBreaker) ExecuteModel(fn func() (*ModelInfo, error)) (*ModelInfo, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats reports the breaker state for the stats and health endpoints.
func (cb *AICircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return breakerStats(cb.cb.Name(), cb.cb.State(), cb.cb.Counts())
}

// GetModelStats reports the model breaker state.
func (cb *ModelCircuitBreaker) GetModelStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return breakerStats(cb.cb.Name(), cb.cb.State(), cb.cb.Counts())
}

func breakerStats(name string, state gobreaker.State, counts gobreaker.Counts) map[string]any {
	return map[string]any{
		"name":    name,
		"state":   state.String(),
		"counts":  counts,
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed. Nil breakers are healthy.
func (cb *AICircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsModelHealthy reports whether the model breaker is closed.
func (cb *ModelCircuitBreaker) IsModelHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
