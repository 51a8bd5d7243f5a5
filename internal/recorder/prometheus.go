package recorder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder exports appraisal counters and distributions.
type PrometheusRecorder struct {
	appraisals *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   prometheus.Histogram
	liquidity  prometheus.Histogram
	confidence prometheus.Histogram
}

// NewPrometheusRecorder registers the appraisal metrics on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	f := promauto.With(reg)
	scoreBuckets := prometheus.LinearBuckets(0, 10, 11)
	return &PrometheusRecorder{
		appraisals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resale",
			Name:      "appraisals_total",
			Help:      "Completed appraisals by source, condition and risk level.",
		}, []string{"source", "condition", "risk_level"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resale",
			Name:      "appraisal_failures_total",
			Help:      "Appraisals that produced no result, by source and reason.",
		}, []string{"source", "reason"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resale",
			Name:      "appraisal_duration_seconds",
			Help:      "Time spent acquiring samples and analysing them.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		liquidity: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resale",
			Name:      "liquidity_score",
			Help:      "Distribution of computed liquidity scores.",
			Buckets:   scoreBuckets,
		}),
		confidence: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resale",
			Name:      "confidence",
			Help:      "Distribution of computed confidence values.",
			Buckets:   scoreBuckets,
		}),
	}
}

func (p *PrometheusRecorder) RecordAppraisal(evt *AppraisalEvent) {
	if evt == nil || evt.Result == nil {
		return
	}
	p.appraisals.WithLabelValues(evt.Source, string(evt.Condition), string(evt.Result.RiskLevel)).Inc()
	p.duration.Observe(evt.Duration.Seconds())
	p.liquidity.Observe(float64(evt.Result.LiquidityScore))
	p.confidence.Observe(float64(evt.Result.Confidence))
}

func (p *PrometheusRecorder) RecordFailure(source, reason string) {
	p.failures.WithLabelValues(source, reason).Inc()
}

