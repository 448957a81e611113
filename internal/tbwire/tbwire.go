// Package tbwire decodes and encodes histogram series as JSON.
//
// Three shapes are understood:
//
//	bins:    [{"wallTime": w, "step": s, "bins": [{"x": x, "dx": dx, "y": y}, ...]}, ...]
//	buckets: [[w, s, [[left, right, count], ...]], ...]
//	stats:   [[w, s, [min, max, n, sum, sumSquares, [rightEdges...], [counts...]]], ...]
//
// Payloads may use NaN and Infinity literals.
package tbwire

import (
	"errors"
	"fmt"

	"github.com/wandb/simplejsonext"

	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/histogramcore"
)

// Format identifies the shape of a serialized series.
type Format int

const (
	FormatUnknown Format = iota
	FormatBins
	FormatBuckets
	FormatStats
)

func (f Format) String() string {
	switch f {
	case FormatBins:
		return "bins"
	case FormatBuckets:
		return "buckets"
	case FormatStats:
		return "stats"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned for payloads of none of the known shapes.
var ErrUnknownFormat = errors.New("tbwire: unrecognized histogram series format")

// Series is a decoded series in whichever shape it was serialized.
//
// Exactly one of Bins or Backend is set, depending on Format.
type Series struct {
	Format  Format
	Bins    []histogram.Histogram
	Backend []histogramcore.BackendHistogram
}

// Histograms returns the series in the bin representation, without
// rebinning.
func (s Series) Histograms() []histogram.Histogram {
	if s.Format == FormatBins {
		return s.Bins
	}
	return histogramcore.ToHistograms(s.Backend)
}

// Decode parses a series of any known shape.
func Decode(data []byte) (Series, error) {
	value, err := simplejsonext.Unmarshal(data)
	if err != nil {
		return Series{}, fmt.Errorf("tbwire: invalid JSON: %v", err)
	}

	records, ok := value.([]any)
	if !ok {
		return Series{}, fmt.Errorf("tbwire: expected an array, got %T", value)
	}

	format := detectFormat(records)
	series := Series{Format: format}

	switch format {
	case FormatBins:
		series.Bins, err = decodeBinRecords(records)
	case FormatBuckets:
		series.Backend, err = decodeRecords(records, decodeBuckets)
	case FormatStats:
		series.Backend, err = decodeRecords(records, decodeStats)
	default:
		err = ErrUnknownFormat
	}

	if err != nil {
		return Series{}, err
	}
	return series, nil
}

// DetectFormat returns the shape of a serialized series without decoding
// its records.
//
// An empty series is reported as FormatBins.
func DetectFormat(data []byte) (Format, error) {
	value, err := simplejsonext.Unmarshal(data)
	if err != nil {
		return FormatUnknown, fmt.Errorf("tbwire: invalid JSON: %v", err)
	}

	records, ok := value.([]any)
	if !ok {
		return FormatUnknown, fmt.Errorf("tbwire: expected an array, got %T", value)
	}

	return detectFormat(records), nil
}

func detectFormat(records []any) Format {
	if len(records) == 0 {
		return FormatBins
	}

	switch first := records[0].(type) {
	case map[string]any:
		return FormatBins

	case []any:
		if len(first) != 3 {
			return FormatUnknown
		}

		payload, ok := first[2].([]any)
		if !ok {
			return FormatUnknown
		}

		if len(payload) == 0 {
			return FormatBuckets
		}
		if _, isTriple := payload[0].([]any); isTriple {
			return FormatBuckets
		}
		if len(payload) == 7 {
			return FormatStats
		}
	}

	return FormatUnknown
}

// Encode serializes histograms in the bins shape.
func Encode(histograms []histogram.Histogram) ([]byte, error) {
	records := make([]any, len(histograms))
	for i, h := range histograms {
		bins := make([]any, len(h.Bins))
		for j, bin := range h.Bins {
			bins[j] = map[string]any{
				"x":  bin.X,
				"dx": bin.DX,
				"y":  bin.Y,
			}
		}

		records[i] = map[string]any{
			"wallTime": h.WallTime,
			"step":     h.Step,
			"bins":     bins,
		}
	}

	return simplejsonext.Marshal(records)
}
