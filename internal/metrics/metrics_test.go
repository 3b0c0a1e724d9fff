package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IncRoundsStarted()
	m.IncRoundsStarted()
	m.ObserveSubmission("draw", 10*time.Millisecond)
	m.ObserveSubmission("win", 20*time.Millisecond)
	m.ObserveSubmission("draw", 30*time.Millisecond)
	m.IncError("decode")
	m.SetActuators(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RoundsStarted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("draw")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("win")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("decode")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActuatorsOnline))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncRoundsStarted()
		m.ObserveSubmission("lose", time.Second)
		m.IncError("extraction")
		m.SetActuators(1)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncRoundsStarted()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "rps_judge_rounds_started_total 1"))
}

func TestNew_RegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.IncRoundsStarted()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RoundsStarted))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RoundsStarted))
}
