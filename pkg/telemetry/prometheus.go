// Package telemetry exports model usage and loop outcomes as Prometheus metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alantheprice/vibecode/pkg/llm"
)

const namespace = "vibecode"

// PrometheusRecorder implements llm.Recorder.
type PrometheusRecorder struct {
	calls         *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	promptChars   *prometheus.CounterVec
	responseChars *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	attempts      prometheus.Histogram
}

// NewPrometheusRecorder registers the usage metrics on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Model calls by model, provider and result.",
		}, []string{"model", "provider", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_call_duration_seconds",
			Help:      "Model call latency.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"model", "provider"}),
		promptChars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_prompt_chars_total",
			Help:      "Characters sent to the model.",
		}, []string{"model"}),
		responseChars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_response_chars_total",
			Help:      "Characters received from the model.",
		}, []string{"model"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "execution_outcomes_total",
			Help:      "Execution attempts by outcome kind.",
		}, []string{"kind"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_attempts",
			Help:      "Attempts used by finished tasks.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}

	for _, c := range []prometheus.Collector{r.calls, r.duration, r.promptChars, r.responseChars, r.outcomes, r.attempts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordCall implements llm.Recorder.
func (r *PrometheusRecorder) RecordCall(m llm.CallMetrics) {
	result := "ok"
	if m.Err != nil {
		result = llm.KindOf(m.Err).String()
	}
	r.calls.WithLabelValues(m.Model, m.Provider, result).Inc()
	r.duration.WithLabelValues(m.Model, m.Provider).Observe(m.Duration.Seconds())
	r.promptChars.WithLabelValues(m.Model).Add(float64(m.PromptChars))
	r.responseChars.WithLabelValues(m.Model).Add(float64(m.ResponseChars))
}

// RecordOutcome counts one execution outcome.
func (r *PrometheusRecorder) RecordOutcome(kind string) {
	r.outcomes.WithLabelValues(kind).Inc()
}

// RecordTaskFinished observes the attempts a finished task used.
func (r *PrometheusRecorder) RecordTaskFinished(attempts int) {
	r.attempts.Observe(float64(attempts))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
