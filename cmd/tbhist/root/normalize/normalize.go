package normalize

import (
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/tbviz/histograms/internal/app"
	"github.com/tbviz/histograms/internal/cliutil"
	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/histogramcache"
	"github.com/tbviz/histograms/internal/settings"
)

func NewNormalizeCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <file>... [flags]",
		Short: "Rebin histogram series onto a shared range",
		Long: heredoc.Doc(`
			Rebins every step of each series into equal-width bins over the
			range covered by all of the series' bins.

			Files may hold normalized {x, dx, y} bins, backend buckets or
			legacy summary statistics. Each file is written in argument order.
		`),
		Example: heredoc.Doc(`
            # Normalize a series to 30 bins
            $ tbhist normalize weights.json

            # Normalize two series to 10 bins each, as YAML
            $ tbhist normalize --bins 10 --format yaml weights.json biases.json
        `),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := make(map[histogramcache.SeriesKey][]histogram.Histogram, len(args))
			keys := make([]histogramcache.SeriesKey, len(args))

			for i, path := range args {
				series, err := a.ReadSeries(path)
				if err != nil {
					return err
				}

				keys[i] = KeyOf(path)
				all[keys[i]] = series.Histograms()
			}

			normalizer, err := a.NewNormalizer()
			if err != nil {
				return err
			}

			results, err := normalizer.NormalizeAll(
				cmd.Context(),
				all,
				a.Settings.BinCount,
			)
			if err != nil {
				return fmt.Errorf("failed to normalize: %w", err)
			}

			output := cliutil.OutputFrom(a.Settings)
			for _, key := range keys {
				if err := output.WriteHistograms(cmd.OutOrStdout(), results[key]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Int(settings.KeyCacheSize, histogramcache.DefaultSize, "Number of normalized series to keep in memory")
	cmd.Flags().Int(settings.KeyConcurrency, histogramcache.DefaultConcurrency, "Number of series to normalize at once")
	_ = a.Viper.BindPFlag(settings.KeyCacheSize, cmd.Flags().Lookup(settings.KeyCacheSize))
	_ = a.Viper.BindPFlag(settings.KeyConcurrency, cmd.Flags().Lookup(settings.KeyConcurrency))

	return cmd
}

// KeyOf identifies the series stored at path by its directory, standing in
// for the run, and its file name, standing in for the tag.
func KeyOf(path string) histogramcache.SeriesKey {
	return histogramcache.SeriesKey{
		Run: filepath.Dir(path),
		Tag: filepath.Base(path),
	}
}
