package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Metrics holds the custom instruments. A zero-value Metrics (instruments
// nil) is safe to use; every recording method checks initialization.
type Metrics struct {
	// AI operation instruments
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business counters, one per operation
	ResumesAnalyzed  metric.Int64Counter
	FocusedAnalyses  metric.Int64Counter
	CareersSuggested metric.Int64Counter
	AtsOptimized     metric.Int64Counter

	// Credential and infrastructure counters
	APIKeyReloadCount metric.Int64Counter
	RateLimitHits     metric.Int64Counter
}

// initCustomMetrics registers every instrument with the meter provider.
func (om *ObservabilityManager) initCustomMetrics() error {
	meter := om.meterProvider.Meter(om.config.ServiceName)
	om.metrics = &Metrics{}

	var err error
	om.metrics.AIProcessingTime, err = meter.Float64Histogram(
		"resumelens_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	om.metrics.AITokenUsage, err = meter.Int64Histogram(
		"resumelens_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&om.metrics.AIRequestCount, "resumelens_ai_requests_total", "Total number of AI requests"},
		{&om.metrics.AIErrorCount, "resumelens_ai_errors_total", "Total number of AI request errors"},
		{&om.metrics.ResumesAnalyzed, "resumelens_resumes_analyzed_total", "Total number of full resume analyses"},
		{&om.metrics.FocusedAnalyses, "resumelens_focused_analyses_total", "Total number of focused analyses"},
		{&om.metrics.CareersSuggested, "resumelens_careers_suggested_total", "Total number of career suggestion runs"},
		{&om.metrics.AtsOptimized, "resumelens_ats_optimized_total", "Total number of ATS optimization runs"},
		{&om.metrics.APIKeyReloadCount, "resumelens_api_key_reloads_total", "Total number of API key file reloads"},
		{&om.metrics.RateLimitHits, "resumelens_rate_limit_hits_total", "Total number of rate limit hits"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return fmt.Errorf("failed to create metric %s: %w", c.name, err)
		}
	}

	return nil
}

// AIOperationResult carries the outcome of an instrumented AI call.
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage mirrors the provider-reported token counts.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TrackAIOperationWithTokens runs fn inside an "ai.<operation>" span and
// records duration, request count, errors and token usage for it. Returns
// the operation's error.
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m.AIProcessingTime == nil {
		// Instruments not initialized; run the operation uninstrumented.
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	tracer := otel.Tracer("resumelens.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m.aiMetricsEnabled(om) {
		m.recordAIMetrics(ctx, operation, err, duration, result, om, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (m *Metrics) aiMetricsEnabled(om *ObservabilityManager) bool {
	if om.fullConfig == nil {
		return true
	}
	return om.fullConfig.Observability.CustomMetrics.AIOperations.Enabled
}

// recordAIMetrics updates every AI instrument for one completed call.
func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, result *AIOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	m.recordTokenUsage(ctx, result, attrs, om, span)
	span.SetAttributes(attrs...)
}

// recordTokenUsage emits per-type token histograms and always annotates
// the span, since traces carry token counts even when metrics are off.
func (m *Metrics) recordTokenUsage(ctx context.Context, result *AIOperationResult, attrs []attribute.KeyValue, om *ObservabilityManager, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || m.AITokenUsage == nil {
		return
	}
	usage := result.TokenUsage

	if om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackTokenUsage {
		for _, tt := range []struct {
			kind  string
			value int64
		}{
			{"input", usage.InputTokens},
			{"output", usage.OutputTokens},
			{"total", usage.TotalTokens},
		} {
			tokenAttrs := append(attrs[:len(attrs):len(attrs)],
				attribute.String("token_type", tt.kind))
			m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
		}
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordBusinessMetric bumps the counter behind metricType with a success
// attribute plus any extra attributes the caller supplies.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.BusinessMetrics.Enabled {
		return
	}

	attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)

	switch metricType {
	case "resume_analyzed":
		m.addCounter(ctx, m.ResumesAnalyzed, attrs)
	case "focused_analysis":
		m.addCounter(ctx, m.FocusedAnalyses, attrs)
	case "careers_suggested":
		m.addCounter(ctx, m.CareersSuggested, attrs)
	case "ats_optimized":
		m.addCounter(ctx, m.AtsOptimized, attrs)
	case "api_key_reload":
		m.addCounter(ctx, m.APIKeyReloadCount, attrs)
	case "rate_limit_hit":
		if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.Infrastructure.TrackRateLimits {
			return
		}
		m.addCounter(ctx, m.RateLimitHits, attrs)
	}
}

func (m *Metrics) addCounter(ctx context.Context, counter metric.Int64Counter, attrs []attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
