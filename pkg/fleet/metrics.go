package fleet

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fleetRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apiaudit_fleet_run_duration_seconds",
			Help:    "Time taken to audit every selected cluster",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	clusterScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apiaudit_cluster_scan_duration_seconds",
			Help:    "Time taken to scan all kinds on one cluster",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	clusterScanTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiaudit_cluster_scan_total",
			Help: "Total number of cluster scans",
		},
		[]string{"status"}, // success, partial or connect_error
	)

	findingsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "apiaudit_cluster_findings",
			Help: "Number of objects with live removed API references in the last audit",
		},
		[]string{"context"},
	)
)

// WriteMetrics writes all registered metrics to path in the Prometheus text
// format, for pickup by the node exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	return nil
}
