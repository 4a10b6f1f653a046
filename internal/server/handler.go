package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumelens/internal/ai"
	"resumelens/internal/errors"
	"resumelens/internal/observability"
	"resumelens/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// createAnalyzeHandler wraps the full analysis handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelens.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !s.validateResumeText(w, span, req.ResumeText) {
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "analyze"),
		)

		input := types.AnalysisRequest{
			SourceText: req.ResumeText,
			Options: types.AnalysisOptions{
				TargetRole:     req.TargetRole,
				TargetIndustry: req.TargetIndustry,
				Model:          req.Model,
				MaxTokens:      req.MaxTokens,
			},
		}

		// Create AI service for the analyze operation
		analyzeConfig := s.AppConfig.GetAnalyzeConfig()
		aiService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var result *types.AnalysisRecord
		err = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			record, tokenUsage, aiErr := aiService.AnalyzeResume(ctx, input)
			result = record
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), statusForError(err))
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("overall_score", result.OverallScore),
			attribute.Int("skills_count", len(result.ExtractedSkills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.overall_score", result.OverallScore),
			attribute.Int("response.skills_count", len(result.ExtractedSkills)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createFocusHandler wraps the focused analysis handler with observability
func (s *Server) createFocusHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelens.api")
		ctx, span := tracer.Start(ctx, "api.focus")
		defer span.End()

		var req FocusRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !s.validateResumeText(w, span, req.ResumeText) {
			return
		}
		if len(req.FocusAreas) == 0 {
			err := fmt.Errorf("missing focus areas")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing focus areas", "focusAreas field requires at least one area", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.focus_areas", len(req.FocusAreas)),
			attribute.String("operation", "focus"),
		)

		input := types.AnalysisRequest{
			SourceText: req.ResumeText,
			Options: types.AnalysisOptions{
				FocusAreas: req.FocusAreas,
			},
		}

		focusConfig := s.AppConfig.GetFocusConfig()
		aiService, err := ai.NewService(&focusConfig, "focus", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result *types.FocusedAnalysis
		err = metrics.TrackAIOperationWithTokens(ctx, "focus", func(ctx context.Context) *observability.AIOperationResult {
			analysis, tokenUsage, aiErr := aiService.AnalyzeFocused(ctx, input)
			result = analysis
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "focused_analysis", false, om)
			writeErrorResponse(w, "Failed to run focused analysis", err.Error(), statusForError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "focused_analysis", true, om,
			attribute.Int("content_length", len(result.Content)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.content_length", len(result.Content)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createCareersHandler wraps the career suggestions handler with observability
func (s *Server) createCareersHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelens.api")
		ctx, span := tracer.Start(ctx, "api.careers")
		defer span.End()

		var req CareersRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !s.validateResumeText(w, span, req.ResumeText) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.preferences", len(req.Preferences)),
			attribute.String("operation", "careers"),
		)

		input := types.AnalysisRequest{
			SourceText: req.ResumeText,
			Options: types.AnalysisOptions{
				Preferences: req.Preferences,
			},
		}

		careersConfig := s.AppConfig.GetCareersConfig()
		aiService, err := ai.NewService(&careersConfig, "careers", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result []types.CareerSuggestion
		err = metrics.TrackAIOperationWithTokens(ctx, "careers", func(ctx context.Context) *observability.AIOperationResult {
			suggestions, tokenUsage, aiErr := aiService.SuggestCareers(ctx, input)
			result = suggestions
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "careers_suggested", false, om)
			writeErrorResponse(w, "Failed to suggest careers", err.Error(), statusForError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "careers_suggested", true, om,
			attribute.Int("suggestions_count", len(result)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.suggestions_count", len(result)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createAtsHandler wraps the ATS optimization handler with observability
func (s *Server) createAtsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelens.api")
		ctx, span := tracer.Start(ctx, "api.ats")
		defer span.End()

		var req AtsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !s.validateResumeText(w, span, req.ResumeText) {
			return
		}
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "ats"),
		)

		input := types.AnalysisRequest{
			SourceText: req.ResumeText,
			Options: types.AnalysisOptions{
				JobDescription: req.JobDescription,
			},
		}

		atsConfig := s.AppConfig.GetAtsConfig()
		aiService, err := ai.NewService(&atsConfig, "ats", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result *types.AtsOptimizationResult
		err = metrics.TrackAIOperationWithTokens(ctx, "ats", func(ctx context.Context) *observability.AIOperationResult {
			optimization, tokenUsage, aiErr := aiService.OptimizeForATS(ctx, input)
			result = optimization
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "ats_optimized", false, om)
			writeErrorResponse(w, "Failed to optimize for ATS", err.Error(), statusForError(err))
			return
		}

		// A nil result means the model response carried no usable optimization.
		if result == nil {
			metrics.RecordBusinessMetric(ctx, "ats_optimized", false, om,
				attribute.String("error", "unparseable response"))
			writeErrorResponse(w, "ATS optimization unavailable", "AI response did not contain a usable optimization", http.StatusBadGateway)
			return
		}

		metrics.RecordBusinessMetric(ctx, "ats_optimized", true, om,
			attribute.Int("ats_score", result.ATSScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.ats_score", result.ATSScore),
		)

		writeJSONResponse(w, span, result)
	}
}

// validateResumeText applies the shared presence and size checks for the
// resumeText field. Returns false when a response has already been written.
func (s *Server) validateResumeText(w http.ResponseWriter, span trace.Span, resumeText string) bool {
	if strings.TrimSpace(resumeText) == "" {
		err := fmt.Errorf("missing resume text")
		span.RecordError(err)
		writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
		return false
	}
	if len(resumeText) > int(s.MaxRequestSize/2) {
		err := fmt.Errorf("resume text too large: %d chars", len(resumeText))
		span.RecordError(err)
		writeErrorResponse(w, "Resume text too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
		return false
	}
	return true
}

// statusForError maps the internal error taxonomy onto HTTP status codes
func statusForError(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeCancelled:
		return http.StatusRequestTimeout
	case errors.ErrorTypeAuth, errors.ErrorTypeNetwork, errors.ErrorTypeProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONResponse encodes a successful handler result
func writeJSONResponse(w http.ResponseWriter, span trace.Span, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
