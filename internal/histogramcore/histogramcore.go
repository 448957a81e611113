// Package histogramcore is the legacy histogram pipeline that works on
// backend buckets with explicit left and right edges.
//
// It converts per-step backend records into an intermediate form with a
// min and max, unifies the range across a series using those stored
// extrema, and rebins every step with the same mathematics as package
// histogram.
package histogramcore

import (
	"github.com/tbviz/histograms/internal/histogram"
)

// Bucket is a backend bucket [Left, Right] with a count.
type Bucket struct {
	Left  float64 `json:"left" yaml:"left"`
	Right float64 `json:"right" yaml:"right"`
	Count float64 `json:"count" yaml:"count"`
}

// BackendHistogram is one step's histogram as sent by the backend.
//
// Buckets are ordered by Left.
type BackendHistogram struct {
	WallTime float64
	Step     int64
	Buckets  []Bucket
}

// Intermediate is a backend histogram with explicit extrema.
type Intermediate struct {
	WallTime float64
	Step     int64

	// Min and Max are the first bucket's left edge and the last bucket's
	// right edge. They are only meaningful if HasRange is true.
	Min, Max float64

	// HasRange is false if the histogram has no buckets.
	HasRange bool

	Buckets []Bucket
}

// BackendToIntermediate extracts the extrema of a backend histogram.
func BackendToIntermediate(raw BackendHistogram) Intermediate {
	result := Intermediate{
		WallTime: raw.WallTime,
		Step:     raw.Step,
		Buckets:  append([]Bucket{}, raw.Buckets...),
	}

	if len(raw.Buckets) > 0 {
		result.Min = raw.Buckets[0].Left
		result.Max = raw.Buckets[len(raw.Buckets)-1].Right
		result.HasRange = true
	}

	return result
}

// IntermediateToD3 rebins the histogram into numBins equal-width bins over
// [minValue, maxValue].
//
// If minValue equals maxValue, the range is widened around that value.
// Returns no bins if numBins is less than one or the histogram has no
// range.
func IntermediateToD3(
	h Intermediate,
	minValue, maxValue float64,
	numBins int,
) []histogram.Bin {
	if numBins < 1 || !h.HasRange {
		return []histogram.Bin{}
	}

	if minValue == maxValue {
		// Create bins even if all the data has a single value.
		maxValue = minValue*1.1 + 1
		minValue = minValue/1.1 - 1
	}

	return histogram.Rebuild(
		ToBins(h.Buckets),
		histogram.Range{Left: minValue, Right: maxValue},
		numBins,
	)
}

// BackendToVz normalizes a whole series of backend histograms onto a shared
// range made of the smallest Min and largest Max of all steps, using
// histogram.DefaultBinCount bins.
//
// Steps without buckets neither affect the range nor get bins.
func BackendToVz(raw []BackendHistogram) []histogram.Histogram {
	return BackendToVzWithBins(raw, histogram.DefaultBinCount)
}

// BackendToVzWithBins is BackendToVz with numBins output bins.
func BackendToVzWithBins(raw []BackendHistogram, numBins int) []histogram.Histogram {
	intermediates := make([]Intermediate, len(raw))
	for i, h := range raw {
		intermediates[i] = BackendToIntermediate(h)
	}

	minmin, maxmax, ok := seriesExtrema(intermediates)

	results := make([]histogram.Histogram, len(intermediates))
	for i, h := range intermediates {
		bins := []histogram.Bin{}
		if ok {
			bins = IntermediateToD3(h, minmin, maxmax, numBins)
		}

		results[i] = histogram.Histogram{
			WallTime: h.WallTime,
			Step:     h.Step,
			Bins:     bins,
		}
	}

	return results
}

// seriesExtrema reduces the stored extrema of every step with a range.
func seriesExtrema(intermediates []Intermediate) (minmin, maxmax float64, ok bool) {
	for _, h := range intermediates {
		if !h.HasRange {
			continue
		}

		if !ok {
			minmin, maxmax, ok = h.Min, h.Max, true
			continue
		}

		minmin = min(minmin, h.Min)
		maxmax = max(maxmax, h.Max)
	}

	return
}

// ToBins converts buckets to bins with X at the left edge.
//
// A bucket whose right edge precedes its left edge becomes a point mass.
func ToBins(buckets []Bucket) []histogram.Bin {
	bins := make([]histogram.Bin, len(buckets))
	for i, b := range buckets {
		bins[i] = histogram.Bin{
			X:  b.Left,
			DX: max(0, b.Right-b.Left),
			Y:  b.Count,
		}
	}
	return bins
}

// ToHistograms converts a series of backend histograms to the bin
// representation without rebinning it.
func ToHistograms(raw []BackendHistogram) []histogram.Histogram {
	results := make([]histogram.Histogram, len(raw))
	for i, h := range raw {
		results[i] = histogram.Histogram{
			WallTime: h.WallTime,
			Step:     h.Step,
			Bins:     ToBins(h.Buckets),
		}
	}
	return results
}
