package cli

import (
	"context"
	"fmt"

	"resumelens/internal/ai"
	"resumelens/internal/common"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Run a full AI analysis of a resume",
	Long: `Run a full AI analysis of a resume. The command takes one argument:
the path to the resume file in plain text format.

The analysis includes:
- Overall scoring with readability, formatting and impact breakdowns
- Skill extraction with categories and proficiency levels
- Experience and education parsing
- Prioritized improvement suggestions
- ATS compatibility assessment
- Career suggestions, skill gaps and industry benchmarking`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &analyzeConfig)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

var (
	analyzeTargetRole     string
	analyzeTargetIndustry string
	analyzeModel          string
	analyzeMaxTokens      int
)

func init() {
	addOutputFlags(analyzeCmd, &analyzeConfig)
	analyzeCmd.Flags().StringVar(&analyzeTargetRole, "target-role", "", "Target role to analyze the resume against")
	analyzeCmd.Flags().StringVar(&analyzeTargetIndustry, "target-industry", "", "Target industry to analyze the resume against")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Override the configured AI model for this run")
	analyzeCmd.Flags().IntVar(&analyzeMaxTokens, "max-tokens", 0, "Override the configured response token limit")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	analyzeAIConfig := cfg.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
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
				TargetRole:     analyzeTargetRole,
				TargetIndustry: analyzeTargetIndustry,
				Model:          analyzeModel,
				MaxTokens:      analyzeMaxTokens,
			},
		}, nil
	}

	logDetails := func(input types.AnalysisRequest, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_chars", len(input.SourceText),
			"target_role", input.Options.TargetRole,
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, input types.AnalysisRequest) (types.AnalysisRecord, *ai.TokenUsage, error) {
		record, usage, err := aiService.AnalyzeResume(ctx, input)
		if err != nil {
			return types.AnalysisRecord{}, usage, err
		}
		return *record, usage, nil
	}

	err = common.RunAICommand(cmd.Context(), logger, analyzeConfig, args,
		createInput, analyzeOperation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	logger.Info("Resume analysis completed successfully")
	return nil
}
