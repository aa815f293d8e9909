package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	// Job metrics
	JobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tontine_job_runs_total",
			Help: "Total number of batch job runs by job and result",
		},
		[]string{"job", "result"},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tontine_job_duration_seconds",
			Help:    "Batch job duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	// Ledger metrics
	PenaltiesAccrued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tontine_penalties_accrued_total",
			Help: "Penalties created or updated by the accrual engine",
		},
		[]string{"action"},
	)

	ProfitDistributed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tontine_profit_distributed_total",
			Help: "Total profit paid out to members",
		},
	)

	LedgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tontine_ledger_operations_total",
			Help: "Ledger operations by name and result",
		},
		[]string{"operation", "result"},
	)

	NotificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tontine_notification_failures_total",
			Help: "Notifications that could not be delivered",
		},
	)

	// Fund metrics
	FundAmount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tontine_fund_amount",
			Help: "Collective fund totals by field",
		},
		[]string{"field"},
	)
)

func init() {
	prometheus.MustRegister(JobRunsTotal)
	prometheus.MustRegister(JobDuration)
	prometheus.MustRegister(PenaltiesAccrued)
	prometheus.MustRegister(ProfitDistributed)
	prometheus.MustRegister(LedgerOperations)
	prometheus.MustRegister(NotificationFailures)
	prometheus.MustRegister(FundAmount)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveOperation counts a ledger operation outcome
func ObserveOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	LedgerOperations.WithLabelValues(operation, result).Inc()
}

// SetFund exports the fund totals as gauges
func SetFund(total, available, outstanding, profitAvailable decimal.Decimal) {
	FundAmount.WithLabelValues("total").Set(total.InexactFloat64())
	FundAmount.WithLabelValues("available").Set(available.InexactFloat64())
	FundAmount.WithLabelValues("loans_outstanding").Set(outstanding.InexactFloat64())
	FundAmount.WithLabelValues("available_profit").Set(profitAvailable.InexactFloat64())
}

// Timer measures an operation's duration
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDurationVec records the elapsed time on a histogram vector
func (t *Timer) ObserveDurationVec(h *prometheus.HistogramVec, labels ...string) {
	h.WithLabelValues(labels...).Observe(t.Duration().Seconds())
}
