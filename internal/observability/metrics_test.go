package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/scout-core/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ usecase.Recorder = (*ServiceMetrics)(nil)

func TestServiceMetrics_RecordsOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewServiceMetrics(registry)
	require.NoError(t, err)

	m.ObserveResolve("matched", "")
	m.ObserveResolve("matched", "")
	m.ObserveResolve("ambiguous", "close_scores")
	m.ObserveMerge("fotmob", 3, 1)
	m.ObserveAppearances(10, 2)
	m.ObserveRatingRun(false, 40, 1, 1500*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.resolveTotal.WithLabelValues("matched", "none")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.resolveTotal.WithLabelValues("ambiguous", "close_scores")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.mergeFieldsUpdated.WithLabelValues("fotmob")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mergeConflictsTotal.WithLabelValues("fotmob")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.appearanceRowsTotal.WithLabelValues("dropped")))
	assert.Equal(t, float64(40), testutil.ToFloat64(m.ratingsComputedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ratingFailedWrites))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ratingRunsTotal.WithLabelValues("false")))
}

func TestServiceMetrics_DoubleRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewServiceMetrics(registry)
	require.NoError(t, err)

	_, err = NewServiceMetrics(registry)
	assert.Error(t, err)
}
