package watch

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/tbviz/histograms/cmd/tbhist/root/normalize"
	"github.com/tbviz/histograms/internal/app"
	"github.com/tbviz/histograms/internal/cliutil"
	"github.com/tbviz/histograms/internal/debounce"
	"github.com/tbviz/histograms/internal/settings"
	"github.com/tbviz/histograms/internal/watcher"
)

func NewWatchCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file> [flags]",
		Short: "Normalize a series every time its file changes",
		Long: heredoc.Doc(`
			Writes the normalized series once, then again after each change
			to the file. Bursts of changes are written at most once per
			debounce interval. Stops on interrupt.
		`),
		Example: heredoc.Doc(`
            # Follow a series that is still being written
            $ tbhist watch --debounce 1s weights.json
        `),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			normalizer, err := a.NewNormalizer()
			if err != nil {
				return err
			}

			path := args[0]
			key := normalize.KeyOf(path)
			output := cliutil.OutputFrom(a.Settings)

			write := func() error {
				series, err := a.ReadSeries(path)
				if err != nil {
					return err
				}

				result := normalizer.Normalize(key, series.Histograms(), a.Settings.BinCount)
				return output.WriteHistograms(cmd.OutOrStdout(), result)
			}

			if err := write(); err != nil {
				return err
			}

			w := watcher.New(watcher.Params{
				Logger:        a.Logger,
				PollingPeriod: a.Settings.PollingPeriod,
			})
			defer w.Finish()

			debouncer := debounce.NewDebouncer(a.Settings.DebounceInterval, a.Logger)
			defer debouncer.Stop()

			if err := w.Watch(path, debouncer.SetNeedsDebounce); err != nil {
				return err
			}

			loop(ctx, a, debouncer, a.Settings.DebounceInterval, func() {
				// The file may be mid-write; the next change retries.
				if err := write(); err != nil {
					a.Logger.CaptureError(err, "path", path)
				}
			})

			return nil
		},
	}

	cmd.Flags().Duration(settings.KeyDebounce, debounce.DefaultInterval, "Minimum time between two writes")
	cmd.Flags().Duration(settings.KeyPollingPeriod, watcher.DefaultPollingPeriod, "How often to check the file for changes")
	_ = a.Viper.BindPFlag(settings.KeyDebounce, cmd.Flags().Lookup(settings.KeyDebounce))
	_ = a.Viper.BindPFlag(settings.KeyPollingPeriod, cmd.Flags().Lookup(settings.KeyPollingPeriod))

	return cmd
}

// loop runs the debouncer until ctx is done, then flushes pending changes.
func loop(
	ctx context.Context,
	a *app.App,
	debouncer *debounce.Debouncer,
	interval time.Duration,
	f func(),
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Logger.Debug("watch: stopping", "reason", context.Cause(ctx))
			debouncer.Flush(f)
			return
		case <-ticker.C:
			debouncer.Debounce(f)
		}
	}
}
