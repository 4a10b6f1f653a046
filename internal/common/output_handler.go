package common

import (
	"fmt"

	"resumelens/internal/errors"
	"resumelens/internal/formatters"
)

// CommandConfig carries the output options shared by all CLI commands.
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler renders an operation result through the formatter registry
// and delivers it to stdout or a file.
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
}

// NewOutputHandler creates an output handler backed by the global registry.
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
	}
}

// HandleOutput formats data per config and writes it to the configured
// destination. An empty OutputFile means stdout.
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	rendered, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile == "" {
		fmt.Print(rendered)
		return nil
	}

	if err := oh.fileProcessor.WriteFile(config.OutputFile, rendered); err != nil {
		return err
	}
	if oh.logger != nil {
		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
	}
	return nil
}

// GetSupportedFormats lists every format the registry can render.
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
