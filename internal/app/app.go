// Package app holds the state shared by the tbhist commands.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/tbviz/histograms/internal/histogramcache"
	"github.com/tbviz/histograms/internal/observability"
	"github.com/tbviz/histograms/internal/settings"
	"github.com/tbviz/histograms/internal/tbwire"
	"github.com/tbviz/histograms/internal/version"
)

const (
	debugLogFile = "tbhist.debug.log"

	captureCacheSize   = 64
	captureMinInterval = time.Minute
)

// App is the environment of a command run.
type App struct {
	// Fs is the filesystem input files are read from.
	Fs afero.Fs

	// Viper holds raw configuration bound to flags.
	Viper *viper.Viper

	// Settings is the resolved configuration, set by Init.
	Settings *settings.Settings

	// Logger is set by Init.
	Logger *observability.CoreLogger

	// Registry collects the metrics of components created by the App.
	Registry *prometheus.Registry

	closers []func()
}

// New returns an App reading files from fs.
func New(fs afero.Fs) *App {
	v := settings.NewViper()
	v.SetFs(fs)

	return &App{
		Fs:     fs,
		Viper:  v,
		Logger:   observability.NewNoOpLogger(),
		Registry: prometheus.NewRegistry(),
	}
}

// Init loads the configuration and sets up logging.
//
// configPath may be empty to use the default config file.
func (a *App) Init(configPath string) error {
	if err := settings.ReadConfigFile(a.Viper, configPath); err != nil {
		return err
	}

	s, err := settings.Load(a.Viper)
	if err != nil {
		return err
	}
	a.Settings = s

	return a.initLogger()
}

func (a *App) initLogger() error {
	writer := io.Discard
	if a.Settings.Debug {
		file, err := a.Fs.OpenFile(
			debugLogFile,
			os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0o644,
		)
		if err != nil {
			return fmt.Errorf("app: can't open debug log: %v", err)
		}
		writer = file
		a.closers = append(a.closers, func() { _ = file.Close() })
	}

	hub, err := observability.NewSentryHub(observability.SentryParams{
		DSN:         a.Settings.SentryDSN,
		Release:     version.Version,
		Environment: version.Environment(),
	})
	if err != nil {
		return err
	}

	rateLimiter, err := observability.NewCaptureRateLimiter(
		captureCacheSize,
		captureMinInterval,
	)
	if err != nil {
		return fmt.Errorf("app: %v", err)
	}

	a.Logger = observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(
			writer,
			&slog.HandlerOptions{Level: slog.LevelDebug},
		)),
		&observability.CoreLoggerParams{
			Sentry:      hub,
			RateLimiter: rateLimiter,
			Tags:        observability.Tags{"version": version.Version},
		},
	)
	a.closers = append(a.closers, a.Logger.Flush)

	return nil
}

// Close flushes logs and releases files, most recent first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// ReadSeries reads and decodes a histogram series file.
func (a *App) ReadSeries(path string) (tbwire.Series, error) {
	data, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		return tbwire.Series{}, fmt.Errorf("app: %v", err)
	}

	series, err := tbwire.Decode(data)
	if err != nil {
		return tbwire.Series{}, fmt.Errorf("%s: %w", path, err)
	}

	a.Logger.Debug(
		"app: read series",
		"path", path,
		"format", series.Format.String(),
		"steps", len(series.Histograms()),
	)
	return series, nil
}

// DumpMetrics writes all collected metrics to w in the text format.
func (a *App) DumpMetrics(w io.Writer) error {
	mfs, err := a.Registry.Gather()
	if err != nil {
		return fmt.Errorf("app: can't gather metrics: %v", err)
	}

	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("app: can't write metrics: %v", err)
		}
	}
	return nil
}

// NewNormalizer returns a normalizer sized by the settings.
func (a *App) NewNormalizer() (*histogramcache.Normalizer, error) {
	return histogramcache.New(histogramcache.Params{
		Size:        a.Settings.CacheSize,
		Concurrency: a.Settings.Concurrency,
		Registerer:  a.Registry,
	})
}
