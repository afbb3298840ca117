package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the service records into.
type Metrics struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	LoginAttemptsCounter prometheus.Counter
	AuthErrorsCounter    *prometheus.CounterVec

	// Record operations by table slug and operation (list, get, create, update, delete)
	RecordOperationsCounter *prometheus.CounterVec
	ValidationFailures      *prometheus.CounterVec
	DbOperationDuration     *prometheus.HistogramVec

	CatalogReloads *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers every collector under prefix with reg.
func NewMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		LoginAttemptsCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_login_attempts_total",
				Help: "Total number of login attempts",
			},
		),
		AuthErrorsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
			[]string{"type"},
		),
		RecordOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_record_operations_total",
				Help: "Total number of record operations",
			},
			[]string{"table", "operation"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_validation_failures_total",
				Help: "Total number of rejected record submissions",
			},
			[]string{"table"},
		),
		DbOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CatalogReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_reloads_total",
				Help: "Total number of catalog reloads by result",
			},
			[]string{"result"},
		),
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// TrackDBOperation measures a database operation; call the returned func when it finishes.
func (m *Metrics) TrackDBOperation(operation string) func() {
	start := time.Now()
	return func() {
		m.DbOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// RecordOperation counts a record operation on a table.
func (m *Metrics) RecordOperation(table, operation string) {
	m.RecordOperationsCounter.WithLabelValues(table, operation).Inc()
}

// RecordValidationFailure counts a submission rejected by validation.
func (m *Metrics) RecordValidationFailure(table string) {
	m.ValidationFailures.WithLabelValues(table).Inc()
}

// RecordAuthError records an authentication error by type
func (m *Metrics) RecordAuthError(errorType string) {
	m.AuthErrorsCounter.WithLabelValues(errorType).Inc()
}

// RecordCatalogReload counts a catalog reload attempt.
func (m *Metrics) RecordCatalogReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CatalogReloads.WithLabelValues(result).Inc()
}

// Middleware records request count and latency for every request.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
			m.HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler exposes the registered collectors.
func (m *Metrics) Handler() http.Handler {
	if m.gatherer != nil {
		return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}
