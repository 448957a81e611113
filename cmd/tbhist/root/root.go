package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/tbviz/histograms/cmd/tbhist/root/legacy"
	"github.com/tbviz/histograms/cmd/tbhist/root/normalize"
	"github.com/tbviz/histograms/cmd/tbhist/root/show"
	"github.com/tbviz/histograms/cmd/tbhist/root/version"
	"github.com/tbviz/histograms/cmd/tbhist/root/watch"
	"github.com/tbviz/histograms/internal/app"
	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/settings"
)

// NewRootCmd creates the tbhist command tree running in a.
func NewRootCmd(a *app.App) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tbhist <command> [flags]",
		Short: "TensorBoard histogram tools",
		Long: heredoc.Doc(`
			Rebins TensorBoard histogram series onto a shared range so that
			every step can be drawn on the same axes.
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Init(configPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.Settings.Metrics {
				return nil
			}
			return a.DumpMetrics(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default is $HOME/.tbhist.yaml)")
	flags.Int(settings.KeyBinCount, histogram.DefaultBinCount, "Number of output bins per histogram")
	flags.String(settings.KeyFormat, settings.FormatJSON, "Output format. Accepts 'json' or 'yaml'")
	flags.String(settings.KeyTemplate, "", "Template for output format. Accepts Go template format (e.g. --template='{{len .}}')")
	flags.Bool(settings.KeyDebug, false, "Write a debug log to tbhist.debug.log")
	flags.Bool(settings.KeyMetrics, false, "Print normalizer metrics to stderr when done")

	for _, key := range []string{
		settings.KeyBinCount,
		settings.KeyFormat,
		settings.KeyTemplate,
		settings.KeyDebug,
		settings.KeyMetrics,
	} {
		_ = a.Viper.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(normalize.NewNormalizeCmd(a))
	cmd.AddCommand(legacy.NewLegacyCmd(a))
	cmd.AddCommand(show.NewShowCmd(a))
	cmd.AddCommand(watch.NewWatchCmd(a))
	cmd.AddCommand(version.NewVersionCmd(a))

	return cmd
}
