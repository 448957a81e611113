package histogramcache

import (
	"crypto/md5"
	"encoding/binary"
	"math"

	"github.com/tbviz/histograms/internal/histogram"
)

// fingerprint is a digest of a series' contents.
type fingerprint [md5.Size]byte

// fingerprintOf hashes every step's wall time, step and bins.
//
// The step count and each histogram's bin count are included so that
// moving a bin from one step to the next changes the digest.
func fingerprintOf(series []histogram.Histogram) fingerprint {
	hasher := md5.New()
	buf := make([]byte, 0, 64)

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(series)))
	for _, h := range series {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(h.WallTime))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(h.Step))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(h.Bins)))
		_, _ = hasher.Write(buf)
		buf = buf[:0]

		for _, bin := range h.Bins {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(bin.X))
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(bin.DX))
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(bin.Y))
			_, _ = hasher.Write(buf)
			buf = buf[:0]
		}
	}
	_, _ = hasher.Write(buf)

	var result fingerprint
	copy(result[:], hasher.Sum(nil))
	return result
}
