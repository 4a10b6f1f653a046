package common

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateOutputFormat checks the requested format against the configured
// allow-list. An empty allow-list means any format is accepted.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("output format %q is not supported (choose one of: %s)",
		format, strings.Join(supportedFormats, ", "))
}

// GetSupportedFormats returns a copy of the configured format list, used for
// shell completion of the --format flag.
func GetSupportedFormats(supportedFormats []string) []string {
	return slices.Clone(supportedFormats)
}
