package manifest

import (
	"errors"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ErrMalformed is returned when an object lacks the structure needed to build
// a Manifest from it.
var ErrMalformed = errors.New("malformed manifest")

// ManagedField is one entry of an object's field ownership history.
type ManagedField struct {
	Manager    string    `json:"manager" yaml:"manager"`
	APIVersion string    `json:"apiVersion" yaml:"apiVersion"`
	Time       time.Time `json:"time,omitzero" yaml:"time,omitempty"`
}

// HasTime reports whether the entry carries a write timestamp.
func (f ManagedField) HasTime() bool {
	return !f.Time.IsZero()
}

// Manifest is a read-only snapshot of one cluster object.
type Manifest struct {
	Kind          string            `json:"kind" yaml:"kind"`
	Name          string            `json:"name" yaml:"name"`
	Namespace     string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Labels        map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	ManagedFields []ManagedField    `json:"managedFields" yaml:"managedFields"`
}

// FromObject builds a Manifest from a typed Kubernetes object.
// Kind is the caller-supplied tag for the resource type being scanned.
func FromObject(kind string, obj metav1.Object) Manifest {
	entries := obj.GetManagedFields()
	fields := make([]ManagedField, 0, len(entries))
	for _, e := range entries {
		f := ManagedField{
			Manager:    e.Manager,
			APIVersion: e.APIVersion,
		}
		if e.Time != nil {
			f.Time = e.Time.Time
		}
		fields = append(fields, f)
	}

	return Manifest{
		Kind:          kind,
		Name:          obj.GetName(),
		Namespace:     obj.GetNamespace(),
		Labels:        obj.GetLabels(),
		ManagedFields: fields,
	}
}

// FromUnstructured builds a Manifest from a dynamic-client object.
// Unlike the typed accessors on Unstructured, it reports an error instead of
// silently dropping a managedFields block it cannot read.
func FromUnstructured(kind string, u *unstructured.Unstructured) (Manifest, error) {
	if u == nil || u.Object == nil {
		return Manifest{}, fmt.Errorf("%w: empty object", ErrMalformed)
	}

	labels, _, err := unstructured.NestedStringMap(u.Object, "metadata", "labels")
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s labels: %v", ErrMalformed, u.GetName(), err)
	}

	raw, found, err := unstructured.NestedSlice(u.Object, "metadata", "managedFields")
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s managedFields: %v", ErrMalformed, u.GetName(), err)
	}

	fields := make([]ManagedField, 0, len(raw))
	if found {
		for i, item := range raw {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return Manifest{}, fmt.Errorf("%w: %s managedFields[%d] is %T", ErrMalformed, u.GetName(), i, item)
			}
			f, err := fieldFromMap(entry)
			if err != nil {
				return Manifest{}, fmt.Errorf("%w: %s managedFields[%d]: %v", ErrMalformed, u.GetName(), i, err)
			}
			fields = append(fields, f)
		}
	}

	return Manifest{
		Kind:          kind,
		Name:          u.GetName(),
		Namespace:     u.GetNamespace(),
		Labels:        labels,
		ManagedFields: fields,
	}, nil
}

func fieldFromMap(entry map[string]interface{}) (ManagedField, error) {
	manager, _, err := unstructured.NestedString(entry, "manager")
	if err != nil {
		return ManagedField{}, err
	}
	apiVersion, _, err := unstructured.NestedString(entry, "apiVersion")
	if err != nil {
		return ManagedField{}, err
	}

	f := ManagedField{Manager: manager, APIVersion: apiVersion}

	ts, found, err := unstructured.NestedString(entry, "time")
	if err != nil {
		return ManagedField{}, err
	}
	if found && ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return ManagedField{}, fmt.Errorf("invalid time %q: %w", ts, err)
		}
		f.Time = t
	}

	return f, nil
}
