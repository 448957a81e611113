package app_test

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbviz/histograms/internal/app"
	"github.com/tbviz/histograms/internal/histogramcache"
	"github.com/tbviz/histograms/internal/tbwire"
)

func TestInitWithConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/tbhist.yaml",
		[]byte("bins: 7\nformat: yaml\n"), 0o644))

	a := app.New(fs)
	require.NoError(t, a.Init("/etc/tbhist.yaml"))
	t.Cleanup(a.Close)

	assert.Equal(t, 7, a.Settings.BinCount)
	assert.Equal(t, "yaml", a.Settings.Format)
}

func TestInitWithoutConfigFile(t *testing.T) {
	t.Setenv("HOME", "/home/nobody")

	a := app.New(afero.NewMemMapFs())
	require.NoError(t, a.Init(""))
	t.Cleanup(a.Close)

	assert.Equal(t, 30, a.Settings.BinCount)
}

func TestInitInvalidSettings(t *testing.T) {
	a := app.New(afero.NewMemMapFs())
	a.Viper.Set("format", "xml")

	assert.ErrorContains(t, a.Init(""), "unknown format")
}

func TestInitDebugLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := app.New(fs)
	a.Viper.Set("debug", true)
	require.NoError(t, a.Init(""))

	a.Logger.Info("hello")
	a.Close()

	data, err := afero.ReadFile(fs, "tbhist.debug.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestReadSeries(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/weights.json",
		[]byte(`[[1, 0, [[0, 1, 5]]]]`), 0o644))

	a := app.New(fs)
	require.NoError(t, a.Init(""))
	t.Cleanup(a.Close)

	series, err := a.ReadSeries("/data/weights.json")

	require.NoError(t, err)
	assert.Equal(t, tbwire.FormatBuckets, series.Format)
	assert.Len(t, series.Backend, 1)
}

func TestReadSeries_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/bad.json", []byte(`[[1]]`), 0o644))

	a := app.New(fs)
	require.NoError(t, a.Init(""))
	t.Cleanup(a.Close)

	_, err := a.ReadSeries("/data/missing.json")
	assert.Error(t, err)

	_, err = a.ReadSeries("/data/bad.json")
	assert.ErrorContains(t, err, "/data/bad.json")
	assert.ErrorIs(t, err, tbwire.ErrUnknownFormat)
}

func TestNewNormalizer(t *testing.T) {
	a := app.New(afero.NewMemMapFs())
	require.NoError(t, a.Init(""))
	t.Cleanup(a.Close)

	n, err := a.NewNormalizer()

	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestDumpMetrics(t *testing.T) {
	a := app.New(afero.NewMemMapFs())
	require.NoError(t, a.Init(""))
	t.Cleanup(a.Close)

	n, err := a.NewNormalizer()
	require.NoError(t, err)
	_ = n.Normalize(histogramcache.SeriesKey{Run: "run", Tag: "tag"}, nil, 3)

	var out bytes.Buffer
	require.NoError(t, a.DumpMetrics(&out))

	assert.Contains(t, out.String(), `tbhist_normalizer_requests_total{result="miss"} 1`)
	assert.Contains(t, out.String(), "tbhist_normalizer_cache_entries 1")
}
