package observability

import (
	"resumelens/internal/config"
)

// GetObservabilityConfig flattens the application config into the manager's
// view of it. A nil config yields a development-friendly setup: enabled,
// console exporters, full sampling.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    "resumelens",
			ServiceVersion: version,
			Enabled:        true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(cfg),
		}
	}

	obs := cfg.Observability

	// The build version stands in when no service version is configured.
	svcVersion := obs.ServiceVersion
	if svcVersion == "" {
		svcVersion = version
	}

	return ObservabilityConfig{
		ServiceName:    obs.ServiceName,
		ServiceVersion: svcVersion,
		Enabled:        obs.Enabled,
		ConsoleOutput:  obs.ConsoleOutput,
		PrettyPrint:    obs.Console.PrettyPrint,
		SampleRate:     obs.SampleRate,
		Prometheus: PrometheusConfig{
			Enabled:  obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
	}
}
