package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, injected via -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the resumelens version, git commit and build date",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("resumelens %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
