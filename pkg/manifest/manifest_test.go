package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	admissionv1 "k8s.io/api/admissionregistration/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/ptr"
)

func TestFromObject(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	obj := &admissionv1.ValidatingWebhookConfiguration{
		ObjectMeta: metav1.ObjectMeta{
			Name:   "legacy-webhook",
			Labels: map[string]string{"app": "demo"},
			ManagedFields: []metav1.ManagedFieldsEntry{
				{Manager: "kubectl", APIVersion: "admissionregistration.k8s.io/v1beta1", Time: ptr.To(metav1.NewTime(ts))},
				{Manager: "helm", APIVersion: "admissionregistration.k8s.io/v1"},
			},
		},
	}

	m := FromObject("validating_web_hook", obj)

	assert.Equal(t, "validating_web_hook", m.Kind)
	assert.Equal(t, "legacy-webhook", m.Name)
	assert.Equal(t, map[string]string{"app": "demo"}, m.Labels)
	require.Len(t, m.ManagedFields, 2)
	assert.Equal(t, "kubectl", m.ManagedFields[0].Manager)
	assert.True(t, m.ManagedFields[0].Time.Equal(ts))
	assert.True(t, m.ManagedFields[0].HasTime())
	assert.False(t, m.ManagedFields[1].HasTime())
}

func TestFromObject_NoManagedFields(t *testing.T) {
	obj := &admissionv1.MutatingWebhookConfiguration{
		ObjectMeta: metav1.ObjectMeta{Name: "bare"},
	}

	m := FromObject("mutating_web_hook", obj)

	assert.NotNil(t, m.ManagedFields)
	assert.Empty(t, m.ManagedFields)
	assert.Nil(t, m.Labels)
}

func TestFromUnstructured(t *testing.T) {
	tests := []struct {
		name       string
		obj        *unstructured.Unstructured
		wantErr    bool
		wantFields []ManagedField
	}{
		{
			name:    "nil object",
			obj:     nil,
			wantErr: true,
		},
		{
			name: "no managed fields",
			obj: &unstructured.Unstructured{Object: map[string]interface{}{
				"metadata": map[string]interface{}{"name": "v1beta1.metrics.k8s.io"},
			}},
			wantFields: []ManagedField{},
		},
		{
			name: "timestamped and legacy entries",
			obj: &unstructured.Unstructured{Object: map[string]interface{}{
				"metadata": map[string]interface{}{
					"name": "v1beta1.metrics.k8s.io",
					"managedFields": []interface{}{
						map[string]interface{}{
							"manager":    "kube-apiserver",
							"apiVersion": "apiregistration.k8s.io/v1beta1",
							"time":       "2021-01-01T00:00:00Z",
						},
						map[string]interface{}{
							"manager":    "kubectl",
							"apiVersion": "apiregistration.k8s.io/v1",
						},
					},
				},
			}},
			wantFields: []ManagedField{
				{Manager: "kube-apiserver", APIVersion: "apiregistration.k8s.io/v1beta1", Time: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
				{Manager: "kubectl", APIVersion: "apiregistration.k8s.io/v1"},
			},
		},
		{
			name: "managed fields not a list",
			obj: &unstructured.Unstructured{Object: map[string]interface{}{
				"metadata": map[string]interface{}{
					"name":          "broken",
					"managedFields": "oops",
				},
			}},
			wantErr: true,
		},
		{
			name: "entry not an object",
			obj: &unstructured.Unstructured{Object: map[string]interface{}{
				"metadata": map[string]interface{}{
					"name":          "broken",
					"managedFields": []interface{}{"oops"},
				},
			}},
			wantErr: true,
		},
		{
			name: "unparseable time",
			obj: &unstructured.Unstructured{Object: map[string]interface{}{
				"metadata": map[string]interface{}{
					"name": "broken",
					"managedFields": []interface{}{
						map[string]interface{}{"manager": "x", "apiVersion": "v1", "time": "yesterday"},
					},
				},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromUnstructured("apiservice", tt.obj)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "apiservice", m.Kind)
			require.Len(t, m.ManagedFields, len(tt.wantFields))
			for i, want := range tt.wantFields {
				got := m.ManagedFields[i]
				assert.Equal(t, want.Manager, got.Manager)
				assert.Equal(t, want.APIVersion, got.APIVersion)
				assert.True(t, want.Time.Equal(got.Time), "time[%d] = %v, want %v", i, got.Time, want.Time)
			}
		})
	}
}
