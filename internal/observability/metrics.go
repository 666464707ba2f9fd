package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "scout"

// ServiceMetrics records resolver, merge and rating outcomes as Prometheus
// series. It satisfies usecase.Recorder.
type ServiceMetrics struct {
	resolveTotal          *prometheus.CounterVec
	reviewResolvedTotal   *prometheus.CounterVec
	mergeTotal            *prometheus.CounterVec
	mergeFieldsUpdated    *prometheus.CounterVec
	mergeConflictsTotal   *prometheus.CounterVec
	appearanceRowsTotal   *prometheus.CounterVec
	ratingRunsTotal       *prometheus.CounterVec
	ratingsComputedTotal  prometheus.Counter
	ratingFailedWrites    prometheus.Counter
	ratingRunDuration     *prometheus.HistogramVec
	lastRatingRunUnixTime prometheus.Gauge
}

// NewServiceMetrics creates the service collectors and registers them on registry.
func NewServiceMetrics(registry prometheus.Registerer) (*ServiceMetrics, error) {
	m := &ServiceMetrics{
		resolveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "identity_resolve_total",
				Help:      "Identity resolutions by outcome and reason.",
			},
			[]string{"outcome", "reason"},
		),
		reviewResolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "identity_review_resolved_total",
				Help:      "Review items closed by an operator, by final status.",
			},
			[]string{"status"},
		),
		mergeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "profile_merge_total",
				Help:      "Provider profile merges.",
			},
			[]string{"provider"},
		),
		mergeFieldsUpdated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "profile_merge_fields_updated_total",
				Help:      "Canonical fields written by profile merges.",
			},
			[]string{"provider"},
		),
		mergeConflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "profile_merge_conflicts_total",
				Help:      "Field conflicts detected by profile merges.",
			},
			[]string{"provider"},
		),
		appearanceRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "appearance_rows_total",
				Help:      "Match appearance rows received, by result.",
			},
			[]string{"result"},
		),
		ratingRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rating_runs_total",
				Help:      "Rating recompute runs.",
			},
			[]string{"dry_run"},
		),
		ratingsComputedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ratings_computed_total",
			Help:      "Player ratings produced by recompute runs.",
		}),
		ratingFailedWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rating_failed_writes_total",
			Help:      "Rows that could not be persisted by recompute runs.",
		}),
		ratingRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "rating_run_duration_seconds",
				Help:      "Wall time of rating recompute runs.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"dry_run"},
		),
		lastRatingRunUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "rating_last_run_timestamp_seconds",
			Help:      "Unix time of the last completed rating run.",
		}),
	}

	if registry != nil {
		if err := registry.Register(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Describe implements prometheus.Collector.
func (m *ServiceMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.resolveTotal.Describe(ch)
	m.reviewResolvedTotal.Describe(ch)
	m.mergeTotal.Describe(ch)
	m.mergeFieldsUpdated.Describe(ch)
	m.mergeConflictsTotal.Describe(ch)
	m.appearanceRowsTotal.Describe(ch)
	m.ratingRunsTotal.Describe(ch)
	m.ratingsComputedTotal.Describe(ch)
	m.ratingFailedWrites.Describe(ch)
	m.ratingRunDuration.Describe(ch)
	m.lastRatingRunUnixTime.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *ServiceMetrics) Collect(ch chan<- prometheus.Metric) {
	m.resolveTotal.Collect(ch)
	m.reviewResolvedTotal.Collect(ch)
	m.mergeTotal.Collect(ch)
	m.mergeFieldsUpdated.Collect(ch)
	m.mergeConflictsTotal.Collect(ch)
	m.appearanceRowsTotal.Collect(ch)
	m.ratingRunsTotal.Collect(ch)
	m.ratingsComputedTotal.Collect(ch)
	m.ratingFailedWrites.Collect(ch)
	m.ratingRunDuration.Collect(ch)
	m.lastRatingRunUnixTime.Collect(ch)
}

func (m *ServiceMetrics) ObserveResolve(outcome, reason string) {
	if reason == "" {
		reason = "none"
	}
	m.resolveTotal.WithLabelValues(outcome, reason).Inc()
}

func (m *ServiceMetrics) ObserveReviewResolved(status string) {
	m.reviewResolvedTotal.WithLabelValues(status).Inc()
}

func (m *ServiceMetrics) ObserveMerge(provider string, updatedFields, conflicts int) {
	m.mergeTotal.WithLabelValues(provider).Inc()
	m.mergeFieldsUpdated.WithLabelValues(provider).Add(float64(updatedFields))
	m.mergeConflictsTotal.WithLabelValues(provider).Add(float64(conflicts))
}

func (m *ServiceMetrics) ObserveAppearances(stored, dropped int) {
	m.appearanceRowsTotal.WithLabelValues("stored").Add(float64(stored))
	m.appearanceRowsTotal.WithLabelValues("dropped").Add(float64(dropped))
}

func (m *ServiceMetrics) ObserveRatingRun(dryRun bool, ratings, failedWrites int, elapsed time.Duration) {
	label := strconv.FormatBool(dryRun)
	m.ratingRunsTotal.WithLabelValues(label).Inc()
	m.ratingRunDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	m.ratingsComputedTotal.Add(float64(ratings))
	m.ratingFailedWrites.Add(float64(failedWrites))
	m.lastRatingRunUnixTime.SetToCurrentTime()
}
