// Package settings holds the configuration of the tbhist tools.
package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/tbviz/histograms/internal/debounce"
	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/histogramcache"
	"github.com/tbviz/histograms/internal/watcher"
)

const (
	EnvPrefix      = "TBHIST"
	ConfigFileName = ".tbhist"
)

// Keys of configuration values, shared by the config file, environment
// variables (TBHIST_<KEY> with dashes as underscores) and flags.
const (
	KeyBinCount      = "bins"
	KeyFormat        = "format"
	KeyTemplate      = "template"
	KeyCacheSize     = "cache-size"
	KeyConcurrency   = "concurrency"
	KeyDebounce      = "debounce"
	KeyPollingPeriod = "polling-period"
	KeyChartWidth    = "chart-width"
	KeyChartHeight   = "chart-height"
	KeySentryDSN     = "sentry-dsn"
	KeyDebug         = "debug"
	KeyMetrics       = "metrics"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Settings is the resolved configuration.
type Settings struct {
	// BinCount is the number of output bins per histogram.
	BinCount int

	// Format is the output encoding, FormatJSON or FormatYAML.
	Format string

	// Template is an optional Go template applied to the output instead
	// of Format.
	Template string

	// CacheSize is the number of normalized series kept in memory.
	CacheSize int

	// Concurrency bounds how many series are normalized at once.
	Concurrency int

	// DebounceInterval is the minimum time between two redraws.
	DebounceInterval time.Duration

	// PollingPeriod is how often watched files are checked for changes.
	PollingPeriod time.Duration

	// ChartWidth and ChartHeight size the terminal preview.
	ChartWidth  int
	ChartHeight int

	// SentryDSN enables error reporting if set.
	SentryDSN string

	// Debug enables the debug log file.
	Debug bool

	// Metrics dumps the collected metrics to stderr after a command.
	Metrics bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBinCount, histogram.DefaultBinCount)
	v.SetDefault(KeyFormat, FormatJSON)
	v.SetDefault(KeyTemplate, "")
	v.SetDefault(KeyCacheSize, histogramcache.DefaultSize)
	v.SetDefault(KeyConcurrency, histogramcache.DefaultConcurrency)
	v.SetDefault(KeyDebounce, debounce.DefaultInterval)
	v.SetDefault(KeyPollingPeriod, watcher.DefaultPollingPeriod)
	v.SetDefault(KeyChartWidth, 60)
	v.SetDefault(KeyChartHeight, 12)
	v.SetDefault(KeySentryDSN, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyMetrics, false)
}

// NewViper returns a viper instance with defaults and environment
// variables configured.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// ReadConfigFile loads the config file into v.
//
// If path is empty, $HOME/.tbhist.yaml is used if it exists.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("settings: can't read config %q: %v", path, err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("settings: can't find home directory: %v", err)
	}

	v.AddConfigPath(home)
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf(
			"settings: can't read config %q: %v",
			filepath.Join(home, ConfigFileName+".yaml"),
			err,
		)
	}
	return nil
}

// Load resolves and validates the settings from v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		BinCount:         v.GetInt(KeyBinCount),
		Format:           strings.ToLower(v.GetString(KeyFormat)),
		Template:         v.GetString(KeyTemplate),
		CacheSize:        v.GetInt(KeyCacheSize),
		Concurrency:      v.GetInt(KeyConcurrency),
		DebounceInterval: v.GetDuration(KeyDebounce),
		PollingPeriod:    v.GetDuration(KeyPollingPeriod),
		ChartWidth:       v.GetInt(KeyChartWidth),
		ChartHeight:      v.GetInt(KeyChartHeight),
		SentryDSN:        v.GetString(KeySentryDSN),
		Debug:            v.GetBool(KeyDebug),
		Metrics:          v.GetBool(KeyMetrics),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
//
// A bin count below one is allowed and produces empty output.
func (s *Settings) Validate() error {
	var errs []error

	switch s.Format {
	case FormatJSON, FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q", s.Format))
	}

	if s.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("cache size must be positive, got %d", s.CacheSize))
	}
	if s.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", s.Concurrency))
	}
	if s.DebounceInterval <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %v", s.DebounceInterval))
	}
	if s.PollingPeriod <= 0 {
		errs = append(errs, fmt.Errorf("polling period must be positive, got %v", s.PollingPeriod))
	}
	if s.ChartWidth < 1 || s.ChartHeight < 1 {
		errs = append(errs, fmt.Errorf(
			"chart size must be positive, got %dx%d",
			s.ChartWidth, s.ChartHeight))
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings: %w", errors.Join(errs...))
	}
	return nil
}
