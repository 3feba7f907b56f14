package services

import (
	"strconv"
	"time"

	"trajectory-assessment-api/pkg/lanediag"
	"trajectory-assessment-api/pkg/scoring"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はPrometheusのコレクタをまとめたものです。nilでも安全に呼び出せます。
type Metrics struct {
	submissions        *prometheus.CounterVec
	validationFailures prometheus.Counter
	overallScore       prometheus.Histogram
	lowestDomain       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	laneResults        *prometheus.CounterVec
}

// MustNewMetrics はコレクタを生成して reg に登録します。登録エラーはpanicします。
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "assessment",
				Name:      "submissions_total",
				Help:      "Scored submissions by avatar tier.",
			},
			[]string{"avatar", "module"},
		),
		validationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "assessment",
				Name:      "validation_failures_total",
				Help:      "Submissions rejected before scoring.",
			},
		),
		overallScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "assessment",
				Name:      "overall_score",
				Help:      "Distribution of overall scores.",
				Buckets:   []float64{1, 1.5, 2, 2.5, 3, scoring.LowTierMax, 3.5, 4, scoring.MidTierMax, 4.5, 5},
			},
		),
		lowestDomain: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "assessment",
				Name:      "lowest_domain_total",
				Help:      "How often each domain is the primary weak domain.",
			},
			[]string{"domain"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "assessment",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		laneResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "assessment",
				Name:      "lane_results_total",
				Help:      "Lane diagnostics by resulting lane.",
			},
			[]string{"lane"},
		),
	}

	reg.MustRegister(m.submissions, m.validationFailures, m.overallScore, m.lowestDomain, m.httpDuration, m.laneResults)
	return m
}

// ObserveResult は採点結果を記録します。
func (m *Metrics) ObserveResult(moduleID string, result scoring.Result) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(result.Avatar), moduleID).Inc()
	m.overallScore.Observe(result.Overall)
	m.lowestDomain.WithLabelValues(string(result.LowestTwoDomains[0])).Inc()
}

// ObserveLane はレーン診断の結果を記録します。
func (m *Metrics) ObserveLane(lane lanediag.Lane) {
	if m == nil {
		return
	}
	m.laneResults.WithLabelValues(string(lane)).Inc()
}

// ObserveValidationFailure は検証エラーを記録します。
func (m *Metrics) ObserveValidationFailure() {
	if m == nil {
		return
	}
	m.validationFailures.Inc()
}

// ObserveRequest はHTTPリクエストの処理時間を記録します。
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
