package cli

import (
	"context"
	"fmt"

	"resumelens/internal/ai"
	"resumelens/internal/common"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus [resume-file]",
	Short: "Run a focused AI analysis of specific resume areas",
	Long: `Run a focused AI analysis concentrating on specific areas of a resume,
such as skills, experience, education or formatting. The command takes one
argument: the path to the resume file in plain text format.

At least one focus area must be given with --area. The result is free-form
commentary scoped to the requested areas.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(focusAreas) == 0 {
			return fmt.Errorf("at least one focus area is required (use --area)")
		}
		return resolveOutputFormat(cmd, &focusConfig)
	},
	RunE: runFocus,
}

var focusConfig common.CommandConfig

var focusAreas []string

func init() {
	addOutputFlags(focusCmd, &focusConfig)
	focusCmd.Flags().StringSliceVarP(&focusAreas, "area", "a", nil, "Focus area to analyze (repeatable, e.g. skills, experience, formatting)")
}

func runFocus(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	focusAIConfig := cfg.GetFocusConfig()
	aiService, err := ai.NewService(&focusAIConfig, "focus", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.AnalysisRequest, error) {
		if len(contents) != 1 {
			return types.AnalysisRequest{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.AnalysisRequest{
			SourceText: contents[0],
			Options: types.AnalysisOptions{
				FocusAreas: focusAreas,
			},
		}, nil
	}

	logDetails := func(input types.AnalysisRequest, cfg common.CommandConfig) {
		logger.Info("Starting focused resume analysis",
			"resume_chars", len(input.SourceText),
			"focus_areas", input.Options.FocusAreas,
			"output_format", cfg.OutputFormat)
	}

	focusOperation := func(ctx context.Context, input types.AnalysisRequest) (types.FocusedAnalysis, *ai.TokenUsage, error) {
		analysis, usage, err := aiService.AnalyzeFocused(ctx, input)
		if err != nil {
			return types.FocusedAnalysis{}, usage, err
		}
		return *analysis, usage, nil
	}

	err = common.RunAICommand(cmd.Context(), logger, focusConfig, args,
		createInput, focusOperation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to run focused analysis: %w", err)
	}

	logger.Info("Focused resume analysis completed successfully")
	return nil
}
