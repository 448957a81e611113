package show

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/tbviz/histograms/internal/app"
	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/render"
	"github.com/tbviz/histograms/internal/settings"
)

func NewShowCmd(a *app.App) *cobra.Command {
	var step int64

	cmd := &cobra.Command{
		Use:   "show <file> [flags]",
		Short: "Draw one step of a normalized series",
		Example: heredoc.Doc(`
            # Draw the latest step
            $ tbhist show weights.json

            # Draw step 100 with 50 bins
            $ tbhist show --step 100 --bins 50 weights.json
        `),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := a.ReadSeries(args[0])
			if err != nil {
				return err
			}

			normalized := histogram.BuildNormalizedHistograms(
				series.Histograms(),
				a.Settings.BinCount,
			)

			var h histogram.Histogram
			if cmd.Flags().Changed("step") {
				h, err = render.Step(normalized, step)
			} else {
				h, err = render.Last(normalized)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(
				cmd.OutOrStdout(),
				render.Chart(h, a.Settings.ChartWidth, a.Settings.ChartHeight),
			)
			return err
		},
	}

	cmd.Flags().Int64Var(&step, "step", 0, "Step to draw (default is the latest)")
	cmd.Flags().Int(settings.KeyChartWidth, 60, "Chart width in columns")
	cmd.Flags().Int(settings.KeyChartHeight, 12, "Chart height in rows")
	_ = a.Viper.BindPFlag(settings.KeyChartWidth, cmd.Flags().Lookup(settings.KeyChartWidth))
	_ = a.Viper.BindPFlag(settings.KeyChartHeight, cmd.Flags().Lookup(settings.KeyChartHeight))

	return cmd
}
