package prometheus

import (
	"strconv"
	"time"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Catalog layer
	CatalogLoadsTotal   CounterVec
	CatalogLoadDuration HistogramVec
	CatalogRecords      GaugeVec
	CatalogRejectsTotal GaugeVec

	// Query layer
	QueryRequestsTotal CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultLoadDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Catalog
	m.CatalogLoadsTotal = collector.RegisterCounter("catalog_loads_total", "Catalog load attempts", "outcome")
	m.CatalogLoadDuration = collector.RegisterHistogram("catalog_load_duration_seconds", "Catalog load duration", DefaultLoadDurationBuckets, "outcome")
	m.CatalogRecords = collector.RegisterGauge("catalog_records", "Normalized records in the current snapshot")
	m.CatalogRejectsTotal = collector.RegisterGauge("catalog_rejects", "Records rejected during the last normalization", "reason")

	// Query
	m.QueryRequestsTotal = collector.RegisterCounter("query_requests_total", "Query service requests", "operation", "code")

	return m
}

// RecordHTTPRequest records a completed HTTP request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveCatalogLoad records a catalog load attempt.
func (m *AppMetrics) ObserveCatalogLoad(outcome string, elapsed time.Duration) {
	m.CatalogLoadsTotal.WithLabelValues(outcome).Inc()
	m.CatalogLoadDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SetCatalogSize records the record count of the current snapshot.
func (m *AppMetrics) SetCatalogSize(n int) {
	m.CatalogRecords.WithLabelValues().Set(float64(n))
}

// SetCatalogRejects records the per-reason reject counts from the last
// normalization.
func (m *AppMetrics) SetCatalogRejects(report catalog.Report) {
	m.CatalogRejectsTotal.WithLabelValues("no_name").Set(float64(report.RejectedNoName))
	m.CatalogRejectsTotal.WithLabelValues("duplicate_name").Set(float64(report.DuplicateName))
	m.CatalogRejectsTotal.WithLabelValues("milestone_parse").Set(float64(report.MilestoneParseFailures))
}
