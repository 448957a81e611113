// Package histogramcache memoizes histogram normalization.
//
// Charts rebuild their histograms whenever data or the bin count changes.
// Normalizer remembers recent results so that redraws with unchanged
// inputs skip the rebinning.
package histogramcache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/tbviz/histograms/internal/histogram"
)

const (
	DefaultSize        = 128
	DefaultConcurrency = 4
)

// SeriesKey identifies the time series of one tag in one run.
type SeriesKey struct {
	Run string
	Tag string
}

func (k SeriesKey) String() string {
	return fmt.Sprintf("%s/%s", k.Run, k.Tag)
}

type cacheKey struct {
	series   SeriesKey
	content  fingerprint
	binCount int
}

type Params struct {
	// Size is the number of normalized series to remember.
	//
	// Defaults to DefaultSize.
	Size int

	// Concurrency is the number of series NormalizeAll processes at once.
	//
	// Defaults to DefaultConcurrency.
	Concurrency int

	// Registerer, if set, receives the normalizer's metrics.
	Registerer prometheus.Registerer
}

// Normalizer is a memoized histogram.BuildNormalizedHistograms.
//
// Results are keyed on the series, its contents and the bin count, so
// identical data is served from the cache regardless of which slice it is
// passed in. It is safe for concurrent use.
type Normalizer struct {
	cache       *lru.Cache
	concurrency int
	metrics     *Metrics
}

func New(params Params) (*Normalizer, error) {
	if params.Size == 0 {
		params.Size = DefaultSize
	}
	if params.Concurrency <= 0 {
		params.Concurrency = DefaultConcurrency
	}

	cache, err := lru.New(params.Size)
	if err != nil {
		return nil, fmt.Errorf("histogramcache: %v", err)
	}

	n := &Normalizer{
		cache:       cache,
		concurrency: params.Concurrency,
	}
	n.metrics = newMetrics(n)

	if params.Registerer != nil {
		if err := params.Registerer.Register(n.metrics); err != nil {
			return nil, fmt.Errorf("histogramcache: can't register metrics: %v", err)
		}
	}

	return n, nil
}

// Metrics returns the normalizer's Prometheus collector.
func (n *Normalizer) Metrics() *Metrics {
	return n.metrics
}

// Normalize returns BuildNormalizedHistograms(series, binCount), reusing a
// previous result for the same key and contents if one is cached.
//
// The returned histograms belong to the caller.
func (n *Normalizer) Normalize(
	key SeriesKey,
	series []histogram.Histogram,
	binCount int,
) []histogram.Histogram {
	k := cacheKey{
		series:   key,
		content:  fingerprintOf(series),
		binCount: binCount,
	}

	if cached, ok := n.cache.Get(k); ok {
		n.metrics.hit()
		return clone(cached.([]histogram.Histogram))
	}

	n.metrics.miss()
	result := histogram.BuildNormalizedHistograms(series, binCount)
	n.cache.Add(k, clone(result))

	return result
}

// NormalizeAll normalizes several series concurrently.
//
// Every series is rebinned to binCount bins over its own shared range.
// Returns the context's error if it is canceled before all series are done.
func (n *Normalizer) NormalizeAll(
	ctx context.Context,
	all map[SeriesKey][]histogram.Histogram,
	binCount int,
) (map[SeriesKey][]histogram.Histogram, error) {
	var mu sync.Mutex
	results := make(map[SeriesKey][]histogram.Histogram, len(all))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(n.concurrency)

	for key, series := range all {
		if grpCtx.Err() != nil {
			break
		}

		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}

			result := n.Normalize(key, series, binCount)

			mu.Lock()
			results[key] = result
			mu.Unlock()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Len returns the number of cached results.
func (n *Normalizer) Len() int {
	return n.cache.Len()
}

// Purge forgets all cached results.
func (n *Normalizer) Purge() {
	n.cache.Purge()
}

func clone(histograms []histogram.Histogram) []histogram.Histogram {
	result := make([]histogram.Histogram, len(histograms))
	for i, h := range histograms {
		result[i] = histogram.Histogram{
			WallTime: h.WallTime,
			Step:     h.Step,
			Bins:     append([]histogram.Bin{}, h.Bins...),
		}
	}
	return result
}
