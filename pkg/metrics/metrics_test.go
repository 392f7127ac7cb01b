package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	m.ObserveBooking(OutcomeBooked, 5*time.Millisecond)
	m.ObserveBooking(OutcomeConflict, time.Millisecond)
	m.ObserveBooking(OutcomeConflict, time.Millisecond)
	m.ObserveCacheLookup("availability", true)
	m.ObserveCacheLookup("availability", false)
	m.ObserveSlotMutation("slot.create")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues(OutcomeBooked)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues(OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("availability", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("availability", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotMutations.WithLabelValues("slot.create")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.BookingLatency))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("test", prometheus.NewRegistry())
		New("test", prometheus.NewRegistry())
	})
}
