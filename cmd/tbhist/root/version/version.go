package version

import (
	"github.com/spf13/cobra"

	"github.com/tbviz/histograms/internal/app"
	"github.com/tbviz/histograms/internal/cliutil"
	"github.com/tbviz/histograms/internal/version"
)

// NewVersionCmd creates a new command that displays version information
func NewVersionCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  `Display the version, git commit, and environment of the CLI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cliutil.OutputFrom(a.Settings).WriteValue(cmd.OutOrStdout(), map[string]any{
				"version":     version.Version,
				"gitCommit":   version.GitCommit,
				"environment": version.Environment(),
			})
		},
	}

	return cmd
}
