package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	kindScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apiaudit_kind_scan_duration_seconds",
			Help:    "Time taken to list and classify one resource kind",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"kind"},
	)

	kindScanTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiaudit_kind_scan_total",
			Help: "Total number of resource kind scans",
		},
		[]string{"kind", "status"}, // success, not_installed or error
	)

	kindFindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiaudit_kind_findings_total",
			Help: "Total number of objects flagged with a live removed API reference",
		},
		[]string{"kind"},
	)
)
