package histogramcore

import (
	"errors"
	"fmt"
)

// ErrEdgeCountMismatch means a legacy record has a different number of
// bucket edges and bucket counts.
var ErrEdgeCountMismatch = errors.New("edges and counts are of different lengths")

// LegacyStats is the histogram payload of the old backend: summary
// statistics followed by right bucket edges and their counts.
type LegacyStats struct {
	Min        float64
	Max        float64
	NumItems   float64
	Sum        float64
	SumSquares float64

	BucketRightEdges []float64
	BucketCounts     []float64
}

// FromLegacyStats converts a legacy payload to a backend histogram.
//
// Bucket i spans from the previous bucket's right edge to the ith right
// edge. The first bucket starts at stats.Min and the last one ends at
// stats.Max, since the outermost edges of the legacy format are
// conventionally infinite.
func FromLegacyStats(
	wallTime float64,
	step int64,
	stats LegacyStats,
) (BackendHistogram, error) {
	if len(stats.BucketRightEdges) != len(stats.BucketCounts) {
		return BackendHistogram{}, fmt.Errorf(
			"histogramcore: step %d: %w (%d edges, %d counts)",
			step,
			ErrEdgeCountMismatch,
			len(stats.BucketRightEdges),
			len(stats.BucketCounts),
		)
	}

	buckets := make([]Bucket, len(stats.BucketRightEdges))
	left := stats.Min
	for i, right := range stats.BucketRightEdges {
		if i == len(stats.BucketRightEdges)-1 {
			right = stats.Max
		}

		buckets[i] = Bucket{
			Left:  left,
			Right: right,
			Count: stats.BucketCounts[i],
		}
		left = right
	}

	return BackendHistogram{
		WallTime: wallTime,
		Step:     step,
		Buckets:  buckets,
	}, nil
}
