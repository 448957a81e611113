// Package histogram rebins per-step histograms of a time series into a
// fixed number of equal-width bins over a range shared by every step.
package histogram

import "gonum.org/v1/gonum/floats"

// DefaultBinCount is the number of output bins used when a caller has no
// preference.
const DefaultBinCount = 30

// Bin is the half-open interval [X, X+DX) carrying a count Y.
//
// DX may be zero, in which case the bin is a point mass at X.
type Bin struct {
	X  float64 `json:"x" yaml:"x"`
	DX float64 `json:"dx" yaml:"dx"`
	Y  float64 `json:"y" yaml:"y"`
}

// Right returns the bin's right edge.
func (b Bin) Right() float64 {
	return b.X + b.DX
}

// Histogram is a snapshot of a distribution at one training step.
//
// Bins are sorted by X and do not overlap, though they may touch and
// leave gaps.
type Histogram struct {
	WallTime float64 `json:"wallTime" yaml:"wallTime"`
	Step     int64   `json:"step" yaml:"step"`
	Bins     []Bin   `json:"bins" yaml:"bins"`
}

// Total returns the sum of the counts of all bins.
func Total(bins []Bin) float64 {
	counts := make([]float64, len(bins))
	for i, bin := range bins {
		counts[i] = bin.Y
	}
	return floats.Sum(counts)
}

// BuildNormalizedHistograms rebins every histogram into binCount
// equal-width bins covering the range shared by all of them.
//
// Returns an empty slice if there are no histograms or binCount is less
// than one. Histograms without bins keep an empty bin list. The inputs are
// not modified.
func BuildNormalizedHistograms(histograms []Histogram, binCount int) []Histogram {
	if len(histograms) == 0 || binCount < 1 {
		return []Histogram{}
	}

	binRange, ok := GetBinRange(histograms)
	if ok {
		binRange = binRange.Widen()
	}

	results := make([]Histogram, len(histograms))
	for i, h := range histograms {
		bins := []Bin{}
		if ok && len(h.Bins) > 0 {
			bins = Rebuild(h.Bins, binRange, binCount)
		}

		results[i] = Histogram{
			WallTime: h.WallTime,
			Step:     h.Step,
			Bins:     bins,
		}
	}

	return results
}
