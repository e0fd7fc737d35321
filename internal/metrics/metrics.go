package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus series of the drawing service. A nil *Metrics
// records nothing.
type Metrics struct {
	metadataLoads   *prometheus.CounterVec
	drawings        prometheus.Gauge
	disciplines     prometheus.Gauge
	selectionEvents *prometheus.CounterVec
	assetRequests   *prometheus.CounterVec
	assetLatency    *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
	streamedBytes   prometheus.Counter
	streamReadTime  prometheus.Histogram
}

// NewMetrics creates all series and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		metadataLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawing_metadata_loads_total",
				Help: "Metadata load attempts by result",
			},
			[]string{"source", "result"},
		),
		drawings: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "drawing_catalog_drawings",
				Help: "Number of drawing entries in the current catalog",
			},
		),
		disciplines: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "drawing_catalog_disciplines",
				Help: "Number of discipline filter entries including the all sentinel",
			},
		),
		selectionEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawing_selection_events_total",
				Help: "Selection events applied to viewer sessions",
			},
			[]string{"event"},
		),
		assetRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drawing_asset_requests_total",
				Help: "Asset requests by serving layer and result",
			},
			[]string{"layer", "result"},
		),
		assetLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drawing_asset_latency_ms",
				Help:    "Latency of asset retrievals in milliseconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
			},
			[]string{"layer"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "drawing_viewer_sessions_active",
				Help: "Viewer sessions currently held by the session store",
			},
		),
		streamedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "drawing_asset_streamed_bytes_total",
				Help: "Bytes streamed from the store for assets too large to cache",
			},
		),
		streamReadTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "drawing_asset_stream_read_ms",
				Help:    "Time spent reading uncached asset streams in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

func (m *Metrics) RecordMetadataLoad(source, result string) {
	if m == nil {
		return
	}
	m.metadataLoads.WithLabelValues(source, result).Inc()
}

// SetCatalogSize publishes the size of the processed catalog.
func (m *Metrics) SetCatalogSize(drawings, disciplines int) {
	if m == nil {
		return
	}
	m.drawings.Set(float64(drawings))
	m.disciplines.Set(float64(disciplines))
}

func (m *Metrics) RecordSelectionEvent(event string) {
	if m == nil {
		return
	}
	m.selectionEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordAssetRequest(layer, result string, latency time.Duration) {
	if m == nil {
		return
	}
	m.assetRequests.WithLabelValues(layer, result).Inc()
	m.assetLatency.WithLabelValues(layer).Observe(float64(latency.Microseconds()) / 1000.0)
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// RecordStream records a finished uncached asset stream.
func (m *Metrics) RecordStream(bytes int64, readTime time.Duration) {
	if m == nil {
		return
	}
	m.streamedBytes.Add(float64(bytes))
	m.streamReadTime.Observe(float64(readTime.Microseconds()) / 1000.0)
}
