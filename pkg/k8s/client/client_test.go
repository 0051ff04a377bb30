package client

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/NVIDIA/apiaudit/pkg/defaults"
)

func writeKubeconfig(t *testing.T, current string, contexts ...string) string {
	t.Helper()

	cfg := clientcmdapi.NewConfig()
	for i, name := range contexts {
		cluster := name + "-cluster"
		cfg.Clusters[cluster] = &clientcmdapi.Cluster{Server: fmt.Sprintf("https://127.0.0.1:%d", 1443+1000*i)}
		cfg.AuthInfos[name+"-user"] = &clientcmdapi.AuthInfo{Token: "token"}
		cfg.Contexts[name] = &clientcmdapi.Context{Cluster: cluster, AuthInfo: name + "-user"}
	}
	cfg.CurrentContext = current

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, clientcmd.WriteToFile(*cfg, path))
	return path
}

func TestFactory_Contexts(t *testing.T) {
	path := writeKubeconfig(t, "prod-eu", "prod-eu", "dev-us", "prod-us")
	f := NewFactory(path)

	names, err := f.Contexts()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-us", "prod-eu", "prod-us"}, names)

	current, err := f.CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "prod-eu", current)
}

func TestFactory_KubeconfigPathList(t *testing.T) {
	first := writeKubeconfig(t, "prod-eu", "prod-eu")
	second := writeKubeconfig(t, "", "dev-us")
	list := first + string(filepath.ListSeparator) + second

	t.Run("flag value", func(t *testing.T) {
		f := NewFactory(list)

		names, err := f.Contexts()
		require.NoError(t, err)
		assert.Equal(t, []string{"dev-us", "prod-eu"}, names)

		current, err := f.CurrentContext()
		require.NoError(t, err)
		assert.Equal(t, "prod-eu", current)

		_, err = f.RestConfig("dev-us")
		require.NoError(t, err)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("KUBECONFIG", list)

		names, err := NewFactory("").Contexts()
		require.NoError(t, err)
		assert.Equal(t, []string{"dev-us", "prod-eu"}, names)
	})
}

func TestFactory_CurrentContextUnset(t *testing.T) {
	path := writeKubeconfig(t, "", "dev-us")

	_, err := NewFactory(path).CurrentContext()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoContexts)
}

func TestFactory_RestConfig(t *testing.T) {
	path := writeKubeconfig(t, "a", "a", "b")
	f := NewFactory(path)
	f.QPS = 5
	f.Burst = 7

	cfg, err := f.RestConfig("b")
	require.NoError(t, err)
	assert.Equal(t, "https://127.0.0.1:2443", cfg.Host)
	assert.Equal(t, float32(5), cfg.QPS)
	assert.Equal(t, 7, cfg.Burst)
	assert.Equal(t, defaults.ClientTimeout, cfg.Timeout)
}

func TestFactory_ForContext(t *testing.T) {
	path := writeKubeconfig(t, "a", "a")

	h, err := NewFactory(path).ForContext("a")
	require.NoError(t, err)
	assert.Equal(t, "a", h.Context)
	assert.NotNil(t, h.Kube)
	assert.NotNil(t, h.APIExtensions)
	assert.NotNil(t, h.Dynamic)
}

func TestFactory_UnknownContext(t *testing.T) {
	path := writeKubeconfig(t, "a", "a")

	_, err := NewFactory(path).ForContext("missing")
	assert.Error(t, err)
}

type staticSource struct {
	contexts []string
	current  string
	err      error
}

func (s staticSource) Contexts() ([]string, error) { return s.contexts, s.err }

func (s staticSource) CurrentContext() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.current, nil
}

func TestResolveContexts(t *testing.T) {
	src := staticSource{
		contexts: []string{"dev-eu", "prod-eu", "prod-us"},
		current:  "dev-eu",
	}

	tests := []struct {
		name    string
		src     ContextSource
		sel     Selection
		want    []string
		wantErr error
	}{
		{
			name: "explicit context",
			src:  src,
			sel:  Selection{Context: "prod-us", All: true},
			want: []string{"prod-us"},
		},
		{
			name: "current context by default",
			src:  src,
			want: []string{"dev-eu"},
		},
		{
			name: "all contexts",
			src:  src,
			sel:  Selection{All: true},
			want: []string{"dev-eu", "prod-eu", "prod-us"},
		},
		{
			name: "all contexts filtered",
			src:  src,
			sel:  Selection{All: true, Contains: "prod"},
			want: []string{"prod-eu", "prod-us"},
		},
		{
			name:    "filter matches nothing",
			src:     src,
			sel:     Selection{All: true, Contains: "staging"},
			wantErr: ErrNoContexts,
		},
		{
			name:    "discovery failure",
			src:     staticSource{err: errors.New("no kubeconfig")},
			sel:     Selection{All: true},
			wantErr: errors.New("no kubeconfig"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveContexts(tt.src, tt.sel)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
