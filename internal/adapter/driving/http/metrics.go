package httphandler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrationhub_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "integrationhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrationhub_scans_total",
			Help: "Credential scans by source kind and result.",
		},
		[]string{"kind", "result"},
	)

	importItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrationhub_import_items_total",
			Help: "Imported services by service type and outcome.",
		},
		[]string{"type", "outcome"},
	)
)

// RecordScan counts one scan of the given source kind.
func RecordScan(kind model.SourceKind, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	scansTotal.WithLabelValues(string(kind), result).Inc()
}

// RecordImport counts every per-service outcome of an import. Failed
// selections with an unknown type are counted under "invalid".
func RecordImport(summary model.ImportSummary) {
	for _, res := range summary.Results {
		t := string(res.Type)
		if !res.Type.Valid() {
			t = "invalid"
		}
		importItemsTotal.WithLabelValues(t, string(res.Outcome)).Inc()
	}
}
