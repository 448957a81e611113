package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/render"
)

func TestChart(t *testing.T) {
	h := histogram.Histogram{
		Step: 42,
		Bins: []histogram.Bin{
			{X: 0, DX: 2, Y: 1},
			{X: 2, DX: 2, Y: 4},
			{X: 4, DX: 2, Y: 2},
		},
	}

	output := render.Chart(h, 20, 6)

	assert.Contains(t, output, "step 42")
	assert.Contains(t, output, "total 7")
	assert.Contains(t, output, "[0, 6)  3 bins of width 2")
}

func TestChart_NoBins(t *testing.T) {
	output := render.Chart(histogram.Histogram{Step: 3}, 20, 6)

	assert.Contains(t, output, "step 3")
	assert.Contains(t, output, "(no data)")
}

func TestStep(t *testing.T) {
	series := []histogram.Histogram{{Step: 1, WallTime: 10}, {Step: 5, WallTime: 50}}

	h, err := render.Step(series, 5)
	require.NoError(t, err)
	assert.Equal(t, 50.0, h.WallTime)

	_, err = render.Step(series, 2)
	assert.ErrorContains(t, err, "no histogram at step 2")
}

func TestLast(t *testing.T) {
	h, err := render.Last([]histogram.Histogram{{Step: 3}, {Step: 9}, {Step: 4}})
	require.NoError(t, err)
	assert.Equal(t, int64(9), h.Step)

	_, err = render.Last(nil)
	assert.Error(t, err)
}
