package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/NVIDIA/apiaudit/pkg/classifier"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	kinds := r.Kinds()
	assert.Equal(t, 23, r.Count())
	assert.Equal(t, KindLease, kinds[0])
	assert.Equal(t, KindVolumeAttachment, kinds[16])
	assert.Len(t, sets.New(kinds...), len(kinds), "kind tags must be unique")

	for _, e := range r.List() {
		assert.NotNil(t, e.List, "%s has no lister", e.Kind)
		assert.NotEmpty(t, e.Request.RequiredAPIVersion, "%s has no required version", e.Kind)
		assert.NotZero(t, e.Request.RemovedAPIVersions.Len(), "%s has no removed versions", e.Kind)
		assert.False(t, e.Request.RemovedAPIVersions.Has(e.Request.RequiredAPIVersion),
			"%s lists its required version as removed", e.Kind)
	}

	ingress, ok := r.Get(KindIngress)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"extensions/v1beta1", "networking.k8s.io/v1beta1"},
		sets.List(ingress.Request.RemovedAPIVersions))
}

func TestRegistry_RegisterReplacesInPlace(t *testing.T) {
	r := NewRegistry(
		Entry{Kind: "a"},
		Entry{Kind: "b"},
		Entry{Kind: "c"},
	)

	r.Register(Entry{Kind: "b", Request: classifier.NewRequest(nil, "v2")})

	assert.Equal(t, []string{"a", "b", "c"}, r.Kinds())
	b, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "v2", b.Request.RequiredAPIVersion)
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(Entry{Kind: "a"})

	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Filter(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name    string
		kinds   []string
		want    []string
		wantErr string
	}{
		{
			name:  "no filter keeps everything",
			kinds: nil,
			want:  r.Kinds(),
		},
		{
			name:  "keeps registration order",
			kinds: []string{KindStorageClass, KindCRD, KindLease},
			want:  []string{KindLease, KindCRD, KindStorageClass},
		},
		{
			name:    "typo gets a suggestion",
			kinds:   []string{"ingres"},
			wantErr: `did you mean "ingress"`,
		},
		{
			name:    "unrelated name lists valid kinds",
			kinds:   []string{"deployment"},
			wantErr: "valid kinds are",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Filter(tt.kinds...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Kinds())
		})
	}
}

func TestRegistry_FilterDoesNotAlias(t *testing.T) {
	r := DefaultRegistry()

	f, err := r.Filter()
	require.NoError(t, err)
	f.Register(Entry{Kind: "extra"})

	assert.Equal(t, 23, r.Count())
	assert.Equal(t, 24, f.Count())
}

func TestParseConfig(t *testing.T) {
	in := `
kinds:
  crd:
    removedApiVersions: [apiextensions.k8s.io/v1beta1, apiextensions.k8s.io/v1alpha1]
    excludedNames: [legacy.example.com]
  lease:
    requiredApiVersion: coordination.k8s.io/v2
`
	cfg, err := ParseConfig(strings.NewReader(in))
	require.NoError(t, err)

	r := DefaultRegistry()
	require.NoError(t, cfg.Apply(r))

	crd, _ := r.Get(KindCRD)
	assert.True(t, crd.Request.RemovedAPIVersions.Has("apiextensions.k8s.io/v1alpha1"))
	assert.True(t, crd.Request.ExcludedNames.Has("legacy.example.com"))
	assert.Equal(t, "apiextensions.k8s.io/v1", crd.Request.RequiredAPIVersion)

	lease, _ := r.Get(KindLease)
	assert.Equal(t, "coordination.k8s.io/v2", lease.Request.RequiredAPIVersion)
	assert.True(t, lease.Request.RemovedAPIVersions.Has("coordination.k8s.io/v1beta1"))

	assert.Equal(t, DefaultRegistry().Kinds(), r.Kinds())
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		parseErr bool
		applyErr string
	}{
		{
			name:     "unknown field",
			in:       "kinds:\n  crd:\n    removed: [x]\n",
			parseErr: true,
		},
		{
			name:     "unknown kind",
			in:       "kinds:\n  crds:\n    requiredApiVersion: v1\n",
			applyErr: `did you mean "crd"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig(strings.NewReader(tt.in))
			if tt.parseErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			err = cfg.Apply(DefaultRegistry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.applyErr)
		})
	}
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.NoError(t, cfg.Apply(DefaultRegistry()))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/apiaudit.yaml")
	assert.Error(t, err)
}
