package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Collectors groups the prometheus instruments for the ledger engine. All
// methods are nil-receiver safe so callers can run without metrics wired.
type Collectors struct {
	transactionsTotal   *prometheus.CounterVec
	transactionAmounts  *prometheus.HistogramVec
	httpRequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)

	return &Collectors{
		transactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "core_ledger",
			Name:      "transactions_total",
			Help:      "Ledger transactions processed, by request type and outcome.",
		}, []string{"type", "outcome"}),
		transactionAmounts: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "core_ledger",
			Name:      "transaction_amount",
			Help:      "Amounts of successfully applied transactions.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		}, []string{"type"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "core_ledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (c *Collectors) ObserveTransaction(requestType string, outcome string, amount decimal.Decimal) {
	if c == nil {
		return
	}

	c.transactionsTotal.WithLabelValues(requestType, outcome).Inc()
	if outcome == "success" {
		value, _ := amount.Float64()
		c.transactionAmounts.WithLabelValues(requestType).Observe(value)
	}
}

func (c *Collectors) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}

	c.httpRequestDuration.
		WithLabelValues(route, method, strconv.Itoa(status)).
		Observe(duration.Seconds())
}
