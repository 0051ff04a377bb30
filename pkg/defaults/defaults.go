package defaults

import "time"

// Fleet concurrency.
const (
	// Workers is the number of clusters scanned at once.
	Workers = 10
)

// Kubernetes client limits.
const (
	// ClientQPS is the client-side request rate for each cluster connection.
	ClientQPS = 20

	// ClientBurst is the client-side request burst for each cluster connection.
	ClientBurst = 40

	// ClientTimeout bounds a single API request.
	ClientTimeout = 30 * time.Second

	// ListPageSize is the Limit sent with every list call.
	ListPageSize = 500
)

// Cluster scan timeouts.
const (
	// ClusterScanTimeout bounds connecting to and scanning every kind on one cluster.
	ClusterScanTimeout = 5 * time.Minute
)
