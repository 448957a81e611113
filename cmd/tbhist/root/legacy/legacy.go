package legacy

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/tbviz/histograms/internal/app"
	"github.com/tbviz/histograms/internal/cliutil"
	"github.com/tbviz/histograms/internal/histogramcore"
	"github.com/tbviz/histograms/internal/tbwire"
)

func NewLegacyCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy <file> [flags]",
		Short: "Rebin backend buckets using their stored extrema",
		Long: heredoc.Doc(`
			Rebins a series of backend buckets or summary statistics onto the
			range from the smallest minimum to the largest maximum of its
			steps.
		`),
		Example: heredoc.Doc(`
            # Rebin backend buckets into 30 bins
            $ tbhist legacy buckets.json
        `),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := a.ReadSeries(args[0])
			if err != nil {
				return err
			}

			if series.Format == tbwire.FormatBins && len(series.Bins) > 0 {
				return fmt.Errorf(
					"%s holds %s histograms, expected %s or %s",
					args[0],
					tbwire.FormatBins,
					tbwire.FormatBuckets,
					tbwire.FormatStats,
				)
			}

			result := histogramcore.BackendToVzWithBins(
				series.Backend,
				a.Settings.BinCount,
			)
			return cliutil.OutputFrom(a.Settings).
				WriteHistograms(cmd.OutOrStdout(), result)
		},
	}

	return cmd
}
