// Package classifier decides whether a scanned object still depends on a
// removed Kubernetes API version.
//
// An object is only flagged when a field manager's most recent write used a
// removed version. If the same manager has since written the object again,
// the old entry is considered superseded and is not reported.
package classifier

import (
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/NVIDIA/apiaudit/pkg/manifest"
)

// Request binds the removal rules for one resource kind.
type Request struct {
	// RemovedAPIVersions are group/version strings no longer served by the target cluster version.
	RemovedAPIVersions sets.Set[string]

	// RequiredAPIVersion is the version objects should be written with instead.
	RequiredAPIVersion string

	// ExcludedNames are object names that are never reported.
	ExcludedNames sets.Set[string]
}

// NewRequest creates a Request from plain string slices.
func NewRequest(removed []string, required string, excluded ...string) Request {
	return Request{
		RemovedAPIVersions: sets.New(removed...),
		RequiredAPIVersion: required,
		ExcludedNames:      sets.New(excluded...),
	}
}

// Reference is a live managed-field entry that still uses a removed version.
type Reference struct {
	APIVersion string    `json:"apiVersion" yaml:"apiVersion"`
	Manager    string    `json:"manager" yaml:"manager"`
	Time       time.Time `json:"time,omitzero" yaml:"time,omitempty"`
}

// Finding flags one object that still depends on a removed API version.
type Finding struct {
	Kind                 string            `json:"kind" yaml:"kind"`
	Name                 string            `json:"name" yaml:"name"`
	Namespace            string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Labels               map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	RequiredAPIVersion   string            `json:"requiredApiVersion" yaml:"requiredApiVersion"`
	RemovedAPIReferences []Reference       `json:"removedApiReferences" yaml:"removedApiReferences"`

	// ManagedFields is the object's full ownership history. The text report omits it.
	ManagedFields []manifest.ManagedField `json:"managedFields,omitempty" yaml:"managedFields,omitempty"`
}

// Classify returns a Finding when m carries at least one live reference to a
// version in req.RemovedAPIVersions, or nil otherwise.
func Classify(m manifest.Manifest, req Request) *Finding {
	if req.ExcludedNames.Has(m.Name) {
		return nil
	}
	if m.Name == "" {
		return nil
	}

	var live []Reference
	for _, f := range m.ManagedFields {
		if !req.RemovedAPIVersions.Has(f.APIVersion) {
			continue
		}
		if latestWrite(m.ManagedFields, f.Manager).After(f.Time) {
			continue
		}
		live = append(live, Reference{
			APIVersion: f.APIVersion,
			Manager:    f.Manager,
			Time:       f.Time,
		})
	}

	if len(live) == 0 {
		return nil
	}

	return &Finding{
		Kind:                 m.Kind,
		Name:                 m.Name,
		Namespace:            m.Namespace,
		Labels:               m.Labels,
		RequiredAPIVersion:   req.RequiredAPIVersion,
		RemovedAPIReferences: live,
		ManagedFields:        m.ManagedFields,
	}
}

// ClassifyAll runs Classify over ms and returns the findings in input order.
func ClassifyAll(ms []manifest.Manifest, req Request) []Finding {
	var findings []Finding
	for _, m := range ms {
		if f := Classify(m, req); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// latestWrite returns the newest timestamp among entries owned by manager.
// Entries without a time are the zero value and never win against a known time.
func latestWrite(fields []manifest.ManagedField, manager string) time.Time {
	var latest time.Time
	for _, f := range fields {
		if f.Manager == manager && f.Time.After(latest) {
			latest = f.Time
		}
	}
	return latest
}
