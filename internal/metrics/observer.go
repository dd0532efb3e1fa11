// Package metrics exports companion turn telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// Observer captures telemetry for analysed turns.
type Observer interface {
	RecordTurn(duration time.Duration, output companion.ResponseOutput, bucket string)
	RecordFailure(stage string)
}

// PrometheusObserver exports turn metrics to Prometheus.
type PrometheusObserver struct {
	turnDuration *prometheus.HistogramVec
	emotions     *prometheus.CounterVec
	concerns     *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

// NewPrometheusObserver registers turn metrics under namespace.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "companion"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	observer := &PrometheusObserver{
		turnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Latency of one analysis and reply turn.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"bucket"}),
		emotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "primary_emotion_total",
			Help:      "Turns by detected primary emotion and temporal context.",
		}, []string{"emotion", "context"}),
		concerns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "concern_total",
			Help:      "Identified psychological concern tags.",
		}, []string{"concern"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_failures_total",
			Help:      "Turns that could not be answered, by stage.",
		}, []string{"stage"}),
	}

	observer.turnDuration = register(reg, observer.turnDuration)
	observer.emotions = register(reg, observer.emotions)
	observer.concerns = register(reg, observer.concerns)
	observer.failures = register(reg, observer.failures)
	if observer.turnDuration == nil || observer.emotions == nil || observer.concerns == nil || observer.failures == nil {
		return nil, fmt.Errorf("register companion metrics in namespace %q", namespace)
	}
	return observer, nil
}

// register returns the collector already registered under the same name
// when there is one, or nil when registration fails for another reason.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	var zero C
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		return zero
	}
	return c
}

// RecordTurn tracks latency plus the emotion and concern breakdown.
func (o *PrometheusObserver) RecordTurn(duration time.Duration, output companion.ResponseOutput, bucket string) {
	if o == nil {
		return
	}
	o.turnDuration.WithLabelValues(bucket).Observe(duration.Seconds())
	o.emotions.WithLabelValues(string(output.EmotionAnalysis.PrimaryEmotion), string(output.EmotionAnalysis.Context)).Inc()
	for _, concern := range output.PsychologyAssessment.IdentifiedConcerns {
		o.concerns.WithLabelValues(string(concern)).Inc()
	}
}

// RecordFailure counts a failed turn.
func (o *PrometheusObserver) RecordFailure(stage string) {
	if o == nil {
		return
	}
	o.failures.WithLabelValues(stage).Inc()
}

// Nop discards all telemetry.
type Nop struct{}

func (Nop) RecordTurn(time.Duration, companion.ResponseOutput, string) {}

func (Nop) RecordFailure(string) {}
