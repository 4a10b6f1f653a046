package cli

import (
	"context"
	"fmt"

	"resumelens/internal/ai"
	"resumelens/internal/common"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var careersCmd = &cobra.Command{
	Use:   "careers [resume-file]",
	Short: "Suggest career paths based on a resume",
	Long: `Suggest alternative career paths based on the skills and experience in
a resume. The command takes one argument: the path to the resume file in
plain text format.

Preferences such as location or industry can be passed with --prefer, e.g.
--prefer location=remote --prefer industry=fintech.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &careersConfig)
	},
	RunE: runCareers,
}

var careersConfig common.CommandConfig

var careersPreferences map[string]string

func init() {
	addOutputFlags(careersCmd, &careersConfig)
	careersCmd.Flags().StringToStringVar(&careersPreferences, "prefer", nil, "Career preference as key=value (repeatable)")
}

func runCareers(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	careersAIConfig := cfg.GetCareersConfig()
	aiService, err := ai.NewService(&careersAIConfig, "careers", logger)
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
				Preferences: careersPreferences,
			},
		}, nil
	}

	logDetails := func(input types.AnalysisRequest, cfg common.CommandConfig) {
		logger.Info("Starting career suggestions",
			"resume_chars", len(input.SourceText),
			"preferences", len(input.Options.Preferences),
			"output_format", cfg.OutputFormat)
	}

	careersOperation := func(ctx context.Context, input types.AnalysisRequest) ([]types.CareerSuggestion, *ai.TokenUsage, error) {
		return aiService.SuggestCareers(ctx, input)
	}

	err = common.RunAICommand(cmd.Context(), logger, careersConfig, args,
		createInput, careersOperation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to suggest careers: %w", err)
	}

	logger.Info("Career suggestions completed successfully")
	return nil
}
