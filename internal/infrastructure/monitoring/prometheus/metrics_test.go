package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
)

func TestNewAppMetrics_RegistersEverything(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordHTTPRequest("GET", "/api/v1/companies", 200, 12*time.Millisecond)
	m.ObserveCatalogLoad("success", 300*time.Millisecond)
	m.SetCatalogSize(45)
	m.SetCatalogRejects(catalog.Report{RejectedNoName: 2, DuplicateName: 1})
	m.QueryRequestsTotal.WithLabelValues("search", "OK").Inc()

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_http_requests_total")
	assert.Contains(t, out, `status_code="200"`)
	assert.Contains(t, out, "test_unit_catalog_loads_total")
	assert.Contains(t, out, `outcome="success"`)
	assert.Contains(t, out, "test_unit_catalog_records 45")
	assert.Contains(t, out, `reason="no_name"`)
}

func TestAppMetrics_RejectReasonsCoverReport(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.SetCatalogRejects(catalog.Report{
		RejectedNoName:         3,
		DuplicateName:          2,
		MilestoneParseFailures: 1,
	})

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_catalog_rejects{reason="no_name"} 3`)
	assert.Contains(t, out, `test_unit_catalog_rejects{reason="duplicate_name"} 2`)
	assert.Contains(t, out, `test_unit_catalog_rejects{reason="milestone_parse"} 1`)
}
