// Package scanner lists Kubernetes objects kind by kind and runs the removal
// classifier over them.
//
// # Registry
//
// Kinds are configuration, not code paths. Each Entry binds a kind tag to a
// Lister and the classifier rules for that kind:
//
//	r := scanner.DefaultRegistry()
//	r.Register(scanner.Entry{
//	    Kind:    "flow_schema",
//	    List:    myLister,
//	    Request: classifier.NewRequest([]string{"flowcontrol.apiserver.k8s.io/v1beta2"}, "flowcontrol.apiserver.k8s.io/v1"),
//	})
//
// Registration order is the order findings appear in a cluster report.
//
// # Error Handling
//
// A kind the cluster does not serve (404 or no REST mapping) scans as empty.
// Any other list failure fails only that kind; ScanAll continues with the
// remaining kinds and joins the errors. Objects that cannot be read are
// skipped with a warning.
//
// # Overrides
//
// Removal rules can be overridden per kind from a YAML file, see Config.
package scanner
