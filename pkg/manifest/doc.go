// Package manifest models the parts of a Kubernetes object that matter for
// removed-API detection: identity, labels, and the managedFields ownership
// history recorded by server-side apply.
//
// Manifests are read-only snapshots built once per scan, either from typed
// client-go objects (FromObject) or from dynamic-client results
// (FromUnstructured). Neither constructor mutates its input.
//
// # Timestamps
//
// A managed field entry without a time is represented by the zero time.Time,
// which sorts before every real timestamp:
//
//	m := manifest.FromObject("crd", crd)
//	for _, f := range m.ManagedFields {
//	    if !f.HasTime() {
//	        // legacy entry, treated as the earliest possible write
//	    }
//	}
package manifest
