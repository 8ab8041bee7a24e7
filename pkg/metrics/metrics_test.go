package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := New("court_booking")

	m.IncConflict("booking")
	m.IncConflict("booking")
	m.IncConflict("availability")
	m.IncBookingCreated("pending")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConflictsTotal.WithLabelValues("booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConflictsTotal.WithLabelValues("availability")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues("pending")))
}

func TestMetricsAddStatusChanges(t *testing.T) {
	m := New("court_booking")

	m.IncStatusChange("confirmed", "completed")
	m.AddStatusChanges("confirmed", "completed", 4)
	m.AddStatusChanges("confirmed", "completed", 0)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.StatusChangesTotal.WithLabelValues("confirmed", "completed")))
}

func TestMetricsHandlerExposesNamespace(t *testing.T) {
	m := New("court_booking")
	m.IncConflict("booking")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `court_booking_conflicts_total{kind="booking"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncConflict("booking")
		m.IncBookingCreated("pending")
		m.ObserveHTTP("GET", "/", "2xx", 0.1)
		m.IncJobRun("job", "ok")
		m.AddStatusChanges("confirmed", "completed", 2)
	})
}
