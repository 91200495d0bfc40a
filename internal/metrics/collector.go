package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync operations reported by the collector.
const (
	OpLoad = "load"
	OpSave = "save"
)

// Collector holds the editor's Prometheus metrics. A nil Collector is valid
// and records nothing.
type Collector struct {
	syncTotal    *prometheus.CounterVec
	syncLatency  *prometheus.HistogramVec
	sceneObjects *prometheus.GaugeVec
	cacheLookups *prometheus.CounterVec
	backendCalls *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		syncTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scene_sync_total",
				Help: "Scene load and save round trips by outcome",
			},
			[]string{"operation", "outcome"},
		),
		syncLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scene_sync_latency_ms",
				Help:    "Latency of scene round trips to the backend in milliseconds",
				Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
			},
			[]string{"operation"},
		),
		sceneObjects: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scene_objects",
				Help: "Number of placed assets in the editor session of a plant",
			},
			[]string{"plant"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_lookups_total",
				Help: "Catalog cache lookups by cache name and result",
			},
			[]string{"cache", "result"},
		),
		backendCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_errors_total",
				Help: "Failed backend calls by error kind",
			},
			[]string{"kind"},
		),
	}
}

// ObserveSync records the outcome and latency of a load or save.
func (c *Collector) ObserveSync(operation string, started time.Time, err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.syncTotal.WithLabelValues(operation, outcome).Inc()
	c.syncLatency.WithLabelValues(operation).Observe(float64(time.Since(started).Milliseconds()))
}

// SetSceneObjects publishes the object count of a plant session.
func (c *Collector) SetSceneObjects(plantID string, n int) {
	if c == nil {
		return
	}
	c.sceneObjects.WithLabelValues(plantID).Set(float64(n))
}

// ForgetScene drops the gauge of a closed session.
func (c *Collector) ForgetScene(plantID string) {
	if c == nil {
		return
	}
	c.sceneObjects.DeleteLabelValues(plantID)
}

func (c *Collector) CacheHit(cache string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

func (c *Collector) CacheMiss(cache string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(cache, "miss").Inc()
}

// BackendError counts a failed backend call by kind.
func (c *Collector) BackendError(kind string) {
	if c == nil {
		return
	}
	c.backendCalls.WithLabelValues(kind).Inc()
}
