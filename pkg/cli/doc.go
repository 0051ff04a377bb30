// Package cli implements the apiaudit command-line interface.
//
// # Overview
//
// apiaudit connects to one or more Kubernetes clusters, lists the resource
// kinds whose API versions have been removed in recent releases, and reports
// every object whose managed fields show a live write through a removed
// version. Clusters with no findings produce no output.
//
// # Usage
//
//	apiaudit [--context NAME | --allcontexts [--contains SUBSTR]]
//	         [--kinds KIND,...] [--config FILE] [--workers N]
//	         [--format text|json|yaml] [--output FILE] [--metrics-file FILE]
//
// # Flags
//
//	--context          Audit a single kubeconfig context
//	--allcontexts      Audit every context in the kubeconfig
//	--contains         Substring filter applied with --allcontexts
//	--kubeconfig, -k   Path to kubeconfig (env: KUBECONFIG)
//	--config, -c       YAML overrides for removed/required versions per kind
//	--kinds            Restrict the scan to the named kinds
//	--workers          Concurrent cluster scans (default: 10)
//	--format, -t       Output format: text, json, yaml (default: text)
//	--output, -o       Output file path (default: stdout)
//	--metrics-file     Write Prometheus metrics in textfile collector format
//	--qps, --burst     Client-side rate limits per cluster
//	--debug            Enable debug logging
//	--log-json         Output logs in JSON format
//
// # Config File
//
//	kinds:
//	  crd:
//	    removedApiVersions: [apiextensions.k8s.io/v1beta1]
//	    requiredApiVersion: apiextensions.k8s.io/v1
//	  apiservice:
//	    excludedNames: [v1beta1.metrics.k8s.io]
//
// # Exit Codes
//
//	0  Audit completed, including when individual clusters failed
//	1  Invalid arguments, unreadable config, no contexts, or report write failure
//
// # Environment Variables
//
//	LOG_LEVEL   Set logging verbosity (debug, info, warn, error)
//	KUBECONFIG  Path to kubeconfig file
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/apiaudit/pkg/cli.version=1.0.0'"
package cli
