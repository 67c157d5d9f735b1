package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Generation metrics
	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram

	// Gallery cache metrics
	GalleryReads *prometheus.CounterVec
	CachePatches *prometheus.CounterVec

	// Action image metrics
	ActionImages *prometheus.CounterVec
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics(events *GalleryEventBus) *Metrics {
	metrics := &Metrics{
		// Generation outcomes: "real", "simulated" or "rejected"
		Generations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pokaimon_generations_total",
			Help: "Total number of generate requests by outcome",
		}, []string{"outcome"}),

		GenerationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pokaimon_generation_duration_seconds",
			Help:    "Generate request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}, // image models can take tens of seconds
		}),

		// Gallery read path: "hit" or "miss"
		GalleryReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pokaimon_gallery_reads_total",
			Help: "Total gallery reads by cache result",
		}, []string{"result"}),

		// Incremental cache patches: "insert", "update", "delete"
		CachePatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pokaimon_gallery_cache_patches_total",
			Help: "Total incremental gallery cache patches by operation",
		}, []string{"op"}),

		// Action image serving: "memo" or "generated"
		ActionImages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pokaimon_action_images_total",
			Help: "Total action image requests by source",
		}, []string{"source"}),
	}

	// Live subscriber count from the event bus
	if events != nil {
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "pokaimon_gallery_subscribers",
				Help: "Current number of websocket gallery subscribers",
			},
			func() float64 {
				return float64(events.Count())
			},
		))
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordGeneration records a generate request outcome
func (m *Metrics) RecordGeneration(outcome string) {
	m.Generations.WithLabelValues(outcome).Inc()
}

// RecordGenerationDuration records generate request latency
func (m *Metrics) RecordGenerationDuration(seconds float64) {
	m.GenerationDuration.Observe(seconds)
}

// RecordGalleryRead records a gallery read cache result
func (m *Metrics) RecordGalleryRead(result string) {
	m.GalleryReads.WithLabelValues(result).Inc()
}

// RecordCachePatch records an incremental gallery cache patch
func (m *Metrics) RecordCachePatch(op string) {
	m.CachePatches.WithLabelValues(op).Inc()
}

// RecordActionImage records an action image request source
func (m *Metrics) RecordActionImage(source string) {
	m.ActionImages.WithLabelValues(source).Inc()
}
