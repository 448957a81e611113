package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbviz/histograms/internal/settings"
)

func TestLoadDefaults(t *testing.T) {
	s, err := settings.Load(settings.NewViper())

	require.NoError(t, err)
	assert.Equal(t, &settings.Settings{
		BinCount:         30,
		Format:           settings.FormatJSON,
		CacheSize:        128,
		Concurrency:      4,
		DebounceInterval: 350 * time.Millisecond,
		PollingPeriod:    500 * time.Millisecond,
		ChartWidth:       60,
		ChartHeight:      12,
	}, s)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TBHIST_BINS", "12")
	t.Setenv("TBHIST_FORMAT", "YAML")
	t.Setenv("TBHIST_CACHE_SIZE", "7")
	t.Setenv("TBHIST_DEBOUNCE", "1s")

	s, err := settings.Load(settings.NewViper())

	require.NoError(t, err)
	assert.Equal(t, 12, s.BinCount)
	assert.Equal(t, settings.FormatYAML, s.Format)
	assert.Equal(t, 7, s.CacheSize)
	assert.Equal(t, time.Second, s.DebounceInterval)
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tbhist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"bins: 5\nchart-width: 40\npolling-period: 2s\n",
	), 0o644))

	v := settings.NewViper()
	require.NoError(t, settings.ReadConfigFile(v, path))
	s, err := settings.Load(v)

	require.NoError(t, err)
	assert.Equal(t, 5, s.BinCount)
	assert.Equal(t, 40, s.ChartWidth)
	assert.Equal(t, 2*time.Second, s.PollingPeriod)
}

func TestReadConfigFile_Missing(t *testing.T) {
	err := settings.ReadConfigFile(
		settings.NewViper(),
		filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorContains(t, err, "can't read config")
}

func TestReadConfigFile_NoneInHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	assert.NoError(t, settings.ReadConfigFile(settings.NewViper(), ""))
}

func TestValidate(t *testing.T) {
	v := settings.NewViper()
	v.Set(settings.KeyFormat, "xml")
	v.Set(settings.KeyCacheSize, 0)

	_, err := settings.Load(v)

	assert.ErrorContains(t, err, `unknown format "xml"`)
	assert.ErrorContains(t, err, "cache size must be positive")
}

func TestValidate_ZeroBinsIsAllowed(t *testing.T) {
	v := settings.NewViper()
	v.Set(settings.KeyBinCount, 0)

	s, err := settings.Load(v)

	require.NoError(t, err)
	assert.Equal(t, 0, s.BinCount)
}
