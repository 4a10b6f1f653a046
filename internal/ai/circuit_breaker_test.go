package ai

import (
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/internal/config"
)

func breakerConfig(cb config.CircuitBreakerConfig) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:       "perplexity",
		Model:          "llama-3.1-sonar-large-128k-online",
		CircuitBreaker: cb,
	}
}

func TestBreakerNamingAndInitialState(t *testing.T) {
	cfg := breakerConfig(config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	})

	for _, operation := range []string{"Analyze", "Focus", "Careers", "Ats"} {
		t.Run(operation, func(t *testing.T) {
			cb := NewAICircuitBreaker(operation, cfg, nil)
			require.NotNil(t, cb)

			stats := cb.GetStats()
			assert.Equal(t, "AI-"+operation, stats["name"])
			assert.Equal(t, "closed", stats["state"])
			assert.Equal(t, true, stats["enabled"])
			assert.True(t, cb.IsHealthy())
		})
	}
}

func TestBreakersAreIndependent(t *testing.T) {
	analyzeCB := NewAICircuitBreaker("Analyze", breakerConfig(config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}), nil)
	careersCB := NewAICircuitBreaker("Careers", breakerConfig(config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          45 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.7,
	}), nil)

	require.NotNil(t, analyzeCB)
	require.NotNil(t, careersCB)
	assert.NotSame(t, analyzeCB, careersCB)

	// Tripping one breaker must not affect the other.
	for range 2 {
		_, _ = careersCB.Execute(func() (*RawCompletion, error) {
			return nil, fmt.Errorf("provider down")
		})
	}
	assert.False(t, careersCB.IsHealthy())
	assert.True(t, analyzeCB.IsHealthy())
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cb := NewAICircuitBreaker("Analyze", breakerConfig(config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}), nil)
	require.NotNil(t, cb)

	for range 2 {
		_, err := cb.Execute(func() (*RawCompletion, error) {
			return nil, fmt.Errorf("provider down")
		})
		assert.Error(t, err)
	}

	assert.False(t, cb.IsHealthy())
	assert.Equal(t, "open", cb.GetStats()["state"])

	_, err := cb.Execute(func() (*RawCompletion, error) {
		return &RawCompletion{Text: "should not run"}, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreakerDisabledByConfig(t *testing.T) {
	cfg := breakerConfig(config.CircuitBreakerConfig{Enabled: false})

	assert.Nil(t, NewAICircuitBreaker("Disabled", cfg, nil))
	assert.Nil(t, NewModelCircuitBreaker("Disabled", cfg, nil))
}

func TestNilBreakerPassesThrough(t *testing.T) {
	var cb *AICircuitBreaker

	result, err := cb.Execute(func() (*RawCompletion, error) {
		return &RawCompletion{Text: "ok"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)

	assert.True(t, cb.IsHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, cb.GetStats())
}

func TestNilModelBreakerPassesThrough(t *testing.T) {
	var cb *ModelCircuitBreaker

	info, err := cb.ExecuteModel(func() (*ModelInfo, error) {
		return &ModelInfo{Name: "test-model", Available: true}, nil
	})
	require.NoError(t, err)
	assert.True(t, info.Available)

	assert.True(t, cb.IsModelHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, cb.GetModelStats())
}
