package cli

import (
	"resumelens/internal/common"

	"github.com/spf13/cobra"
)

// addOutputFlags registers the --output/--format pair every analysis
// command shares, with shell completion for the format values.
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutputFormat fills in the configured default format and validates
// the final choice. Meant for PreRunE, after config lands in the context.
func resolveOutputFormat(cmd *cobra.Command, cc *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	if cc.OutputFormat == "" {
		cc.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cc.OutputFormat, cfg.App.SupportedFormats)
}
