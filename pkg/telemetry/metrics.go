package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for DevGate.
type Metrics struct {
	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	invoicesCreated *prometheus.CounterVec
	invoiceEmails   *prometheus.CounterVec
	invoiceAmount   prometheus.Histogram
}

// NewMetrics registers and returns Prometheus metrics for telemetry.
func NewMetrics() *Metrics {
	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devgate_api_requests_total",
		Help: "Counts API requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devgate_api_duration_seconds",
		Help:    "API request latency per method/route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	invoicesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devgate_invoices_total",
		Help: "Invoices created by status.",
	}, []string{"status"})

	invoiceEmails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devgate_invoice_emails_total",
		Help: "Invoice email dispatch outcomes.",
	}, []string{"status"})

	invoiceAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "devgate_invoice_amount",
		Help:    "Distribution of created invoice totals.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})

	prometheus.MustRegister(
		apiRequests,
		apiDuration,
		invoicesCreated,
		invoiceEmails,
		invoiceAmount,
	)

	return &Metrics{
		apiRequests:     apiRequests,
		apiDuration:     apiDuration,
		invoicesCreated: invoicesCreated,
		invoiceEmails:   invoiceEmails,
		invoiceAmount:   invoiceAmount,
	}
}

func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) InvoiceCreated(status string, amount float64) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(status).Inc()
	m.invoiceAmount.Observe(amount)
}

func (m *Metrics) InvoiceEmail(status string) {
	if m == nil {
		return
	}
	m.invoiceEmails.WithLabelValues(status).Inc()
}
