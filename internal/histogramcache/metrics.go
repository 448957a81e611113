package histogramcache

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "tbhist"
	subsystem = "normalizer"
)

// Metrics represents normalizer cache metrics.
type Metrics struct {
	requests *prometheus.CounterVec
	entries  prometheus.GaugeFunc
}

// newMetrics creates new normalizer metrics for n.
func newMetrics(n *Normalizer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of normalization requests by cache result.",
			},
			[]string{"result"},
		),
		entries: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_entries",
				Help:      "Number of normalized series in the cache.",
			},
			func() float64 { return float64(n.cache.Len()) },
		),
	}

	m.requests.WithLabelValues("hit")
	m.requests.WithLabelValues("miss")

	return m
}

func (m *Metrics) hit()  { m.requests.WithLabelValues("hit").Inc() }
func (m *Metrics) miss() { m.requests.WithLabelValues("miss").Inc() }

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.requests.Describe(ch)
	m.entries.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.requests.Collect(ch)
	m.entries.Collect(ch)
}

// check interfaces
var (
	_ prometheus.Collector = (*Metrics)(nil)
)
