// Package defaults provides centralized configuration constants for apiaudit.
//
// This package defines timeout values, concurrency limits and API paging
// parameters used across the codebase.
//
// # Timeout Categories
//
//   - Cluster timeouts: bound the full scan of one cluster
//   - Kubernetes timeouts: bound a single API request
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/apiaudit/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ClusterScanTimeout)
//	defer cancel()
//
// # Guidelines
//
//   - K8s requests: 30s per call, lists are paged so a single call stays small
//   - Cluster scans: 5m, covering every kind on one cluster
//   - Fleet: 10 clusters at once, each client limited to 20 QPS (burst 40)
package defaults
