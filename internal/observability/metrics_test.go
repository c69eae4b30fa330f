package observability

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var metricsSeq atomic.Int64

// newTestMetrics uses a unique namespace per test so promauto's default
// registry never sees the same collector twice.
func newTestMetrics() *Metrics {
	return NewMetrics(fmt.Sprintf("observability_test_%d", metricsSeq.Add(1)))
}

func TestMetricsCountTurnOutcomes(t *testing.T) {
	m := newTestMetrics()
	m.Turns.WithLabelValues(OutcomeAudio).Inc()
	m.Turns.WithLabelValues(OutcomeAudio).Inc()
	m.Turns.WithLabelValues(OutcomeDegradedText).Inc()

	if got := testutil.ToFloat64(m.Turns.WithLabelValues(OutcomeAudio)); got != 2 {
		t.Fatalf("turns{outcome=audio} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Turns.WithLabelValues(OutcomeDegradedText)); got != 1 {
		t.Fatalf("turns{outcome=degraded_text} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Turns.WithLabelValues(OutcomeError)); got != 0 {
		t.Fatalf("turns{outcome=error} = %v, want 0", got)
	}
}

func TestMetricsObserveStageRecordsSamples(t *testing.T) {
	m := newTestMetrics()
	m.ObserveStage("transcribe", time.Now().Add(-10*time.Millisecond))
	m.ObserveStage("transcribe", time.Now())

	if got := testutil.CollectAndCount(m.StageLatency); got != 1 {
		t.Fatalf("stage latency series = %d, want 1", got)
	}
}

func TestMetricsHistoryLengthGauge(t *testing.T) {
	m := newTestMetrics()
	m.HistoryLength.Set(4)
	if got := testutil.ToFloat64(m.HistoryLength); got != 4 {
		t.Fatalf("history length = %v, want 4", got)
	}
	m.HistoryLength.Set(0)
	if got := testutil.ToFloat64(m.HistoryLength); got != 0 {
		t.Fatalf("history length after reset = %v, want 0", got)
	}
}
