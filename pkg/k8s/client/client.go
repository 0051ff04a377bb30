package client

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	apiextclientset "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/NVIDIA/apiaudit/pkg/defaults"
)

const (
	// DefaultQPS is the client-side request rate used for each cluster connection.
	DefaultQPS = defaults.ClientQPS

	// DefaultBurst is the client-side request burst used for each cluster connection.
	DefaultBurst = defaults.ClientBurst
)

// ErrNoContexts is returned when context selection resolves to an empty set.
var ErrNoContexts = errors.New("no kubernetes contexts selected")

// Handle bundles the clients needed to list resources from one cluster.
// A Handle belongs to a single cluster task and is never shared.
type Handle struct {
	Context       string
	Kube          kubernetes.Interface
	APIExtensions apiextclientset.Interface
	Dynamic       dynamic.Interface
}

// Factory discovers kubeconfig contexts and builds cluster handles for them.
type Factory struct {
	// Kubeconfig is an explicit kubeconfig path, or a list of paths joined
	// with the OS list separator. If empty, the default client-go loading
	// rules apply (KUBECONFIG, then ~/.kube/config).
	Kubeconfig string

	QPS   float32
	Burst int
}

// NewFactory creates a Factory for the given kubeconfig path.
func NewFactory(kubeconfig string) *Factory {
	return &Factory{
		Kubeconfig: kubeconfig,
		QPS:        DefaultQPS,
		Burst:      DefaultBurst,
	}
}

func (f *Factory) loadingRules() *clientcmd.ClientConfigLoadingRules {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	// Kubeconfig may be a KUBECONFIG-style path list; files are merged in order.
	paths := filepath.SplitList(f.Kubeconfig)
	switch len(paths) {
	case 0:
	case 1:
		rules.ExplicitPath = paths[0]
	default:
		rules.Precedence = paths
	}
	return rules
}

func (f *Factory) clientConfig(context string) clientcmd.ClientConfig {
	overrides := &clientcmd.ConfigOverrides{}
	if context != "" {
		overrides.CurrentContext = context
	}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(f.loadingRules(), overrides)
}

// Contexts returns the names of all contexts in the kubeconfig, sorted.
func (f *Factory) Contexts() ([]string, error) {
	raw, err := f.clientConfig("").RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	names := make([]string, 0, len(raw.Contexts))
	for name := range raw.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// CurrentContext returns the kubeconfig's current-context.
func (f *Factory) CurrentContext() (string, error) {
	raw, err := f.clientConfig("").RawConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if raw.CurrentContext == "" {
		return "", fmt.Errorf("kubeconfig has no current-context: %w", ErrNoContexts)
	}
	return raw.CurrentContext, nil
}

// RestConfig builds the REST configuration for a named context.
func (f *Factory) RestConfig(context string) (*rest.Config, error) {
	config, err := f.clientConfig(context).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config for context %q: %w", context, err)
	}
	if f.QPS > 0 {
		config.QPS = f.QPS
	}
	if f.Burst > 0 {
		config.Burst = f.Burst
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.ClientTimeout
	}
	return config, nil
}

// ForContext creates a fresh Handle for the named context.
func (f *Factory) ForContext(context string) (*Handle, error) {
	config, err := f.RestConfig(context)
	if err != nil {
		return nil, err
	}
	return NewHandle(context, config)
}

// NewHandle creates all clients for one cluster from a REST config.
func NewHandle(context string, config *rest.Config) (*Handle, error) {
	kube, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	apiext, err := apiextclientset.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create apiextensions client: %w", err)
	}

	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &Handle{
		Context:       context,
		Kube:          kube,
		APIExtensions: apiext,
		Dynamic:       dyn,
	}, nil
}

// ContextSource lists available contexts.
type ContextSource interface {
	Contexts() ([]string, error)
	CurrentContext() (string, error)
}

// Selection describes which contexts to audit.
type Selection struct {
	// Context names a single context. It takes precedence over All.
	Context string

	// All selects every context, optionally filtered by Contains.
	All bool

	// Contains keeps only contexts whose name contains this substring.
	Contains string
}

// ResolveContexts turns a Selection into the list of context names to scan.
// With neither Context nor All set, only the current context is returned.
func ResolveContexts(src ContextSource, sel Selection) ([]string, error) {
	if sel.Context != "" {
		return []string{sel.Context}, nil
	}

	if !sel.All {
		current, err := src.CurrentContext()
		if err != nil {
			return nil, err
		}
		return []string{current}, nil
	}

	all, err := src.Contexts()
	if err != nil {
		return nil, err
	}

	selected := make([]string, 0, len(all))
	for _, name := range all {
		if strings.Contains(name, sel.Contains) {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no context matches %q: %w", sel.Contains, ErrNoContexts)
	}
	return selected, nil
}
