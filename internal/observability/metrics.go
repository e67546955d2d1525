package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	FeedFetches     *prometheus.CounterVec // labels: outcome={success,error}
	EventsRendered  prometheus.Gauge
	RefreshDuration prometheus.Histogram
	MapReady        prometheus.Gauge

	// Fault-line overlay loads.
	FaultLineLoads *prometheus.CounterVec // labels: outcome={success,error}

	// Tile proxy metrics.
	TileRequests    *prometheus.CounterVec // labels: outcome={success,error}
	TileCache       *prometheus.CounterVec // labels: result={hit,miss}
	TileAPIDuration prometheus.Histogram

	// Styled event publishing.
	MessagesPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "feed_fetches_total",
			Help:      "Earthquake feed fetches by outcome.",
		}, []string{"outcome"}),
		EventsRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "events_rendered",
			Help:      "Number of earthquake markers in the current map view.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-render-compose cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MapReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "map_ready",
			Help:      "1 once a map view has been composed, 0 before.",
		}),
		FaultLineLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "fault_line_loads_total",
			Help:      "Fault-line overlay loads by outcome.",
		}, []string{"outcome"}),
		TileRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "tile_requests_total",
			Help:      "Mapbox tile fetches by outcome.",
		}, []string{"outcome"}),
		TileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "tile_cache_total",
			Help:      "Tile cache lookups by result.",
		}, []string{"result"}),
		TileAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "tile_api_duration_seconds",
			Help:      "Mapbox tile request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		MessagesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "messages_published_total",
			Help:      "Styled earthquake events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
	}

	prometheus.MustRegister(
		m.FeedFetches,
		m.EventsRendered,
		m.RefreshDuration,
		m.MapReady,
		m.FaultLineLoads,
		m.TileRequests,
		m.TileCache,
		m.TileAPIDuration,
		m.MessagesPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "feed_fetches_total"}, []string{"outcome"}),
		EventsRendered:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "events_rendered"}),
		RefreshDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "refresh_duration_seconds"}),
		MapReady:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "map_ready"}),
		FaultLineLoads:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "fault_line_loads_total"}, []string{"outcome"}),
		TileRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "tile_requests_total"}, []string{"outcome"}),
		TileCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "tile_cache_total"}, []string{"result"}),
		TileAPIDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "tile_api_duration_seconds"}),
		MessagesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "messages_published_total"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "publish_errors_total"}),
	}
}
