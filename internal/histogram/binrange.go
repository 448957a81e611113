package histogram

// Range is the closed interval [Left, Right] that output bins cover.
type Range struct {
	Left  float64 `json:"left" yaml:"left"`
	Right float64 `json:"right" yaml:"right"`
}

// Width returns Right - Left.
func (r Range) Width() float64 {
	return r.Right - r.Left
}

// Widen returns the range unchanged unless it is a single point, in which
// case it is stretched to a range of positive width around that point.
//
// The exact transform is part of the output contract: charts of a
// constant series must stay stable across versions.
func (r Range) Widen() Range {
	if r.Left != r.Right {
		return r
	}

	return Range{
		Left:  r.Left/1.1 - 1,
		Right: r.Right*1.1 + 1,
	}
}

// GetBinRange returns the smallest range containing every bin of every
// histogram.
//
// Only the first and last bin of each histogram are consulted since bins
// are sorted. Histograms with no bins are skipped. The second result is
// false if no histogram has any bins.
func GetBinRange(histograms []Histogram) (Range, bool) {
	var result Range
	found := false

	for _, h := range histograms {
		if len(h.Bins) == 0 {
			continue
		}

		left := h.Bins[0].X
		right := h.Bins[len(h.Bins)-1].Right()

		if !found {
			result = Range{Left: left, Right: right}
			found = true
			continue
		}

		result.Left = min(result.Left, left)
		result.Right = max(result.Right, right)
	}

	return result, found
}
