package cli

import (
	"resumelens/internal/config"
	"resumelens/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume analysis",
	Long: `Start an HTTP server that provides REST API endpoints for resume analysis.

Available endpoints:
- POST /analyze: Full resume analysis
- POST /focus: Focused analysis of specific resume areas
- POST /careers: Career path suggestions
- POST /ats: ATS optimization
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

API Authentication:
- Configure static keys via server.apiKeys, or point server.apiKeysFile at a
  file with one key per line; the file is watched and reloaded on change`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("api-keys-file", "", "File with one API key per line, watched for changes (overrides config)")
}

// applyServeFlagOverrides lets explicitly set serve flags win over file and
// environment configuration. Config loading happens before cobra parses
// flags, so the overrides are applied to the loaded config directly.
func applyServeFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, err := cmd.Flags().GetString("port"); err == nil && v != "" {
		cfg.Server.Port = v
	}
	if v, err := cmd.Flags().GetString("host"); err == nil && v != "" {
		cfg.Server.Host = v
	}
	if v, err := cmd.Flags().GetString("api-keys-file"); err == nil && v != "" {
		cfg.Server.APIKeysFile = v
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeFlagOverrides(cmd, cfg)

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		APIKeysFile:    cfg.Server.APIKeysFile,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, logger).Start()
}
