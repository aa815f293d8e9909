package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.GetCounter().GetValue()
	case out.Gauge != nil:
		return out.GetGauge().GetValue()
	}
	return 0
}

func TestObserveOperation(t *testing.T) {
	before := value(t, LedgerOperations.WithLabelValues("approve_deposit", "error"))

	ObserveOperation("approve_deposit", errors.New("conflict"))
	ObserveOperation("approve_deposit", nil)

	assert.Equal(t, before+1, value(t, LedgerOperations.WithLabelValues("approve_deposit", "error")))
	assert.GreaterOrEqual(t, value(t, LedgerOperations.WithLabelValues("approve_deposit", "success")), float64(1))
}

func TestSetFund(t *testing.T) {
	SetFund(decimal.NewFromInt(411000), decimal.NewFromInt(361000), decimal.NewFromInt(50000), decimal.RequireFromString("10000.50"))

	assert.Equal(t, float64(411000), value(t, FundAmount.WithLabelValues("total")))
	assert.Equal(t, float64(361000), value(t, FundAmount.WithLabelValues("available")))
	assert.Equal(t, 10000.5, value(t, FundAmount.WithLabelValues("available_profit")))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)

	assert.GreaterOrEqual(t, timer.Duration(), 10*time.Millisecond)

	timer.ObserveDurationVec(JobDuration, "accrue-penalties")

	var out dto.Metric
	observer, err := JobDuration.GetMetricWithLabelValues("accrue-penalties")
	require.NoError(t, err)
	require.NoError(t, observer.(prometheus.Histogram).Write(&out))
	assert.Equal(t, uint64(1), out.GetHistogram().GetSampleCount())
}

func TestHandlerServesMetrics(t *testing.T) {
	JobRunsTotal.WithLabelValues("reset-shares", "success").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tontine_job_runs_total")
}
