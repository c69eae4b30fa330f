package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Turn outcome labels.
const (
	OutcomeAudio        = "audio"
	OutcomeDegradedText = "degraded_text"
	OutcomeApologyAudio = "apology_audio"
	OutcomeApologyText  = "apology_text"
	OutcomeError        = "error"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Turns          *prometheus.CounterVec
	StageLatency   *prometheus.HistogramVec
	ProviderErrors *prometheus.CounterVec
	VoiceFallbacks prometheus.Counter
	HistoryLength  prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Turns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Completed chat turns by outcome.",
		}, []string{"outcome"}),
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_latency_ms",
			Help:      "Latency of each turn stage in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 15000},
		}, []string{"stage"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Remote capability errors by provider and stage.",
		}, []string{"provider", "stage"}),
		VoiceFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_fallbacks_total",
			Help:      "Synthesis attempts retried with the fallback voice.",
		}),
		HistoryLength: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversation_history_length",
			Help:      "Number of utterances currently held in the conversation log.",
		}),
	}
}

func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageLatency.WithLabelValues(stage).Observe(float64(time.Since(start).Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
