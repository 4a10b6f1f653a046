package cli

import (
	"context"
	"fmt"

	"resumelens/internal/ai"
	"resumelens/internal/common"
	"resumelens/internal/errors"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var atsCmd = &cobra.Command{
	Use:   "ats [resume-file] [job-description-file]",
	Short: "Optimize a resume for applicant tracking systems",
	Long: `Analyze a resume for applicant tracking system (ATS) compatibility and
suggest concrete rewrites. The command takes the path to the resume file and
optionally the path to a job description file; with a job description the
optimization is targeted at that posting. Both files should be in plain
text format.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &atsConfig)
	},
	RunE: runAts,
}

var atsConfig common.CommandConfig

func init() {
	addOutputFlags(atsCmd, &atsConfig)
}

func runAts(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	atsAIConfig := cfg.GetAtsConfig()
	aiService, err := ai.NewService(&atsAIConfig, "ats", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.AnalysisRequest, error) {
		if len(contents) < 1 || len(contents) > 2 {
			return types.AnalysisRequest{}, fmt.Errorf("expected 1 or 2 file paths, got %d", len(contents))
		}
		request := types.AnalysisRequest{SourceText: contents[0]}
		if len(contents) == 2 {
			request.Options.JobDescription = contents[1]
		}
		return request, nil
	}

	logDetails := func(input types.AnalysisRequest, cfg common.CommandConfig) {
		logger.Info("Starting ATS optimization",
			"resume_chars", len(input.SourceText),
			"job_chars", len(input.Options.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// A nil result means the model produced nothing actionable. The CLI
	// surfaces that as an error rather than writing empty output.
	atsOperation := func(ctx context.Context, input types.AnalysisRequest) (types.AtsOptimizationResult, *ai.TokenUsage, error) {
		result, usage, err := aiService.OptimizeForATS(ctx, input)
		if err != nil {
			return types.AtsOptimizationResult{}, usage, err
		}
		if result == nil {
			return types.AtsOptimizationResult{}, usage, errors.NewProviderError(errors.ErrCodeProviderRejected,
				"AI response did not contain a usable ATS optimization", nil)
		}
		return *result, usage, nil
	}

	err = common.RunAICommand(cmd.Context(), logger, atsConfig, args,
		createInput, atsOperation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to optimize for ATS: %w", err)
	}

	logger.Info("ATS optimization completed successfully")
	return nil
}
