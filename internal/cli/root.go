package cli

import (
	"context"

	"resumelens/internal/config"
	"resumelens/internal/errors"

	"github.com/spf13/cobra"
)

// Unexported context key types so no other package can collide with them.
type (
	configKeyType struct{}
	loggerKeyType struct{}
)

var (
	configKey = configKeyType{}
	loggerKey = loggerKeyType{}
)

var rootCmd = &cobra.Command{
	Use:   "resumelens",
	Short: "A CLI tool for analyzing resumes using AI",
	Long: `Resumelens is a command-line tool that analyzes resumes using AI.
It scores a resume, extracts skills and experience, suggests improvements
and career paths, and optimizes resumes for applicant tracking systems.`,
}

// Execute runs the root command with config and logger attached to the
// context for every subcommand to pick up.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	return rootCmd.ExecuteContext(ctx)
}

// getConfigFromContext panics when the config is missing, which only
// happens if a command runs outside Execute.
func getConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		panic("config not found in context")
	}
	return cfg
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	logger, ok := ctx.Value(loggerKey).(*errors.Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

func init() {
	rootCmd.AddCommand(
		analyzeCmd,
		focusCmd,
		careersCmd,
		atsCmd,
		serveCmd,
		versionCmd,
	)
}
