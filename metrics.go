package logsearch

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	extractions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	bytes       prometheus.Counter
	records     prometheus.Counter
	probes      prometheus.Counter
	blocked     prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	m := &metrics{}

	m.extractions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extractions_total",
		Help: "Total number of extraction requests by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "extraction_duration_seconds",
		Help:    "Wall time of extraction requests.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"strategy"})

	m.bytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extracted_bytes_total",
		Help: "Total number of record bytes written to outputs.",
	})

	m.records = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extracted_records_total",
		Help: "Total number of records written to outputs.",
	})

	m.probes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "boundary_probes_total",
		Help: "Total number of record keys read by the boundary search.",
	})

	m.blocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handoff_blocked_total",
		Help: "Total number of stream pushes that found the hand-off full.",
	})

	if registerer != nil {
		prometheus.WrapRegistererWithPrefix("logsearch_", registerer).MustRegister(
			m.extractions, m.duration, m.bytes, m.records, m.probes, m.blocked,
		)
	}
	return m
}

func (m *metrics) observe(r *Report) {
	m.extractions.WithLabelValues(r.Strategy, string(r.Outcome)).Inc()
	m.duration.WithLabelValues(r.Strategy).Observe(r.Elapsed.Seconds())
	m.bytes.Add(float64(r.Bytes))
	m.records.Add(float64(r.Records))
}
