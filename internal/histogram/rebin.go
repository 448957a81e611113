package histogram

// Rebuild redistributes bins into binCount equal-width bins covering
// binRange.
//
// The input bins must be sorted by X and must not overlap. binRange must
// have positive width and binCount must be at least one; use
// BuildNormalizedHistograms for the checked entry point.
//
// Each input bin's count is split across the output bins it overlaps in
// proportion to the overlapping length. A zero-width bin lying exactly on
// the boundary between two output bins counts toward the right one, except
// at the right edge of binRange where it stays in the last bin. Counts
// outside binRange are dropped.
func Rebuild(bins []Bin, binRange Range, binCount int) []Bin {
	results := make([]Bin, 0, binCount)
	dx := binRange.Width() / float64(binCount)

	binIndex := 0
	nextBinContribution := 0.0

	for i := 0; i < binCount; i++ {
		// Neighboring output bins share one computed edge, so no point
		// lies between them.
		resultLeft := binRange.Left + float64(i)*dx
		resultRight := binRange.Left + float64(i+1)*dx
		hasRightNeighbor := i < binCount-1
		if !hasRightNeighbor {
			// Avoid losing bins at the range's right edge to rounding.
			resultRight = max(resultRight, binRange.Right)
		}

		resultY := nextBinContribution
		nextBinContribution = 0

		for binIndex < len(bins) {
			bin := bins[binIndex]

			c := contribution(bin, resultLeft, resultRight, hasRightNeighbor)
			resultY += c.curr
			nextBinContribution += c.next

			// The bin still has mass in the next output bin.
			if bin.Right() > resultRight {
				break
			}
			binIndex++
		}

		results = append(results, Bin{X: resultLeft, DX: dx, Y: resultY})
	}

	return results
}

// binContribution is how much of an input bin's count lands in the
// current output bin and how much is carried into the next one.
type binContribution struct {
	curr float64
	next float64
}

// contribution returns the part of bin's count belonging to the output bin
// [resultLeft, resultRight].
func contribution(
	bin Bin,
	resultLeft, resultRight float64,
	resultHasRightNeighbor bool,
) binContribution {
	binLeft := bin.X
	binRight := bin.Right()

	if binLeft > resultRight || binRight < resultLeft {
		return binContribution{}
	}

	if bin.DX == 0 {
		if resultHasRightNeighbor && binRight >= resultRight {
			return binContribution{next: bin.Y}
		}
		return binContribution{curr: bin.Y}
	}

	intersection := min(binRight, resultRight) - max(binLeft, resultLeft)
	return binContribution{curr: bin.Y * intersection / bin.DX}
}
