package tbwire

import (
	"errors"
	"fmt"

	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/histogramcore"
)

// decodeRecords decodes [wallTime, step, payload] records.
//
// Every malformed record is reported; the joined error names each index.
func decodeRecords(
	records []any,
	decodePayload func(wallTime float64, step int64, payload any) (histogramcore.BackendHistogram, error),
) ([]histogramcore.BackendHistogram, error) {
	results := make([]histogramcore.BackendHistogram, 0, len(records))
	var errs []error

	for i, record := range records {
		h, err := decodeRecord(record, decodePayload)
		if err != nil {
			errs = append(errs, fmt.Errorf("tbwire: record %d: %w", i, err))
			continue
		}
		results = append(results, h)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return results, nil
}

func decodeRecord(
	record any,
	decodePayload func(wallTime float64, step int64, payload any) (histogramcore.BackendHistogram, error),
) (histogramcore.BackendHistogram, error) {
	tuple, ok := record.([]any)
	if !ok || len(tuple) != 3 {
		return histogramcore.BackendHistogram{},
			errors.New("expected [wallTime, step, histogram]")
	}

	wallTime, err := toFloat(tuple[0])
	if err != nil {
		return histogramcore.BackendHistogram{}, fmt.Errorf("wallTime: %v", err)
	}

	step, err := toInt(tuple[1])
	if err != nil {
		return histogramcore.BackendHistogram{}, fmt.Errorf("step: %v", err)
	}

	return decodePayload(wallTime, step, tuple[2])
}

// decodeBuckets decodes a list of [left, right, count] triples.
func decodeBuckets(
	wallTime float64,
	step int64,
	payload any,
) (histogramcore.BackendHistogram, error) {
	triples, ok := payload.([]any)
	if !ok {
		return histogramcore.BackendHistogram{},
			fmt.Errorf("expected a list of buckets, got %T", payload)
	}

	buckets := make([]histogramcore.Bucket, len(triples))
	for i, triple := range triples {
		values, err := toFloats(triple)
		if err != nil {
			return histogramcore.BackendHistogram{}, fmt.Errorf("bucket %d: %v", i, err)
		}
		if len(values) != 3 {
			return histogramcore.BackendHistogram{},
				fmt.Errorf("bucket %d: expected [left, right, count]", i)
		}

		buckets[i] = histogramcore.Bucket{
			Left:  values[0],
			Right: values[1],
			Count: values[2],
		}
	}

	return histogramcore.BackendHistogram{
		WallTime: wallTime,
		Step:     step,
		Buckets:  buckets,
	}, nil
}

// decodeStats decodes the legacy
// [min, max, n, sum, sumSquares, rightEdges, counts] payload.
func decodeStats(
	wallTime float64,
	step int64,
	payload any,
) (histogramcore.BackendHistogram, error) {
	fields, ok := payload.([]any)
	if !ok || len(fields) != 7 {
		return histogramcore.BackendHistogram{},
			errors.New("expected [min, max, n, sum, sumSquares, edges, counts]")
	}

	scalars, err := toFloats(fields[:5])
	if err != nil {
		return histogramcore.BackendHistogram{}, err
	}

	edges, err := toFloats(fields[5])
	if err != nil {
		return histogramcore.BackendHistogram{}, fmt.Errorf("edges: %v", err)
	}

	counts, err := toFloats(fields[6])
	if err != nil {
		return histogramcore.BackendHistogram{}, fmt.Errorf("counts: %v", err)
	}

	return histogramcore.FromLegacyStats(wallTime, step, histogramcore.LegacyStats{
		Min:              scalars[0],
		Max:              scalars[1],
		NumItems:         scalars[2],
		Sum:              scalars[3],
		SumSquares:       scalars[4],
		BucketRightEdges: edges,
		BucketCounts:     counts,
	})
}

// decodeBinRecords decodes {"wallTime", "step", "bins"} objects.
func decodeBinRecords(records []any) ([]histogram.Histogram, error) {
	results := make([]histogram.Histogram, 0, len(records))
	var errs []error

	for i, record := range records {
		h, err := decodeBinRecord(record)
		if err != nil {
			errs = append(errs, fmt.Errorf("tbwire: record %d: %w", i, err))
			continue
		}
		results = append(results, h)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return results, nil
}

func decodeBinRecord(record any) (histogram.Histogram, error) {
	object, ok := record.(map[string]any)
	if !ok {
		return histogram.Histogram{}, fmt.Errorf("expected an object, got %T", record)
	}

	wallTime, err := toFloat(object["wallTime"])
	if err != nil {
		return histogram.Histogram{}, fmt.Errorf("wallTime: %v", err)
	}

	step, err := toInt(object["step"])
	if err != nil {
		return histogram.Histogram{}, fmt.Errorf("step: %v", err)
	}

	rawBins, ok := object["bins"].([]any)
	if !ok && object["bins"] != nil {
		return histogram.Histogram{}, fmt.Errorf("bins: expected a list, got %T", object["bins"])
	}

	bins := make([]histogram.Bin, len(rawBins))
	for i, rawBin := range rawBins {
		bin, err := decodeBin(rawBin)
		if err != nil {
			return histogram.Histogram{}, fmt.Errorf("bin %d: %v", i, err)
		}
		bins[i] = bin
	}

	return histogram.Histogram{
		WallTime: wallTime,
		Step:     step,
		Bins:     bins,
	}, nil
}

func decodeBin(value any) (histogram.Bin, error) {
	object, ok := value.(map[string]any)
	if !ok {
		return histogram.Bin{}, fmt.Errorf("expected an object, got %T", value)
	}

	var bin histogram.Bin
	var err error
	if bin.X, err = toFloat(object["x"]); err != nil {
		return histogram.Bin{}, fmt.Errorf("x: %v", err)
	}
	if bin.DX, err = toFloat(object["dx"]); err != nil {
		return histogram.Bin{}, fmt.Errorf("dx: %v", err)
	}
	if bin.Y, err = toFloat(object["y"]); err != nil {
		return histogram.Bin{}, fmt.Errorf("y: %v", err)
	}

	if bin.DX < 0 {
		return histogram.Bin{}, fmt.Errorf("dx: negative width %v", bin.DX)
	}

	return bin, nil
}
