package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/NVIDIA/apiaudit/pkg/classifier"
	"github.com/NVIDIA/apiaudit/pkg/k8s/client"
	"github.com/NVIDIA/apiaudit/pkg/manifest"
)

// Lister fetches every object of one kind from a cluster.
type Lister func(ctx context.Context, h *client.Handle) ([]manifest.Manifest, error)

// Entry binds a kind tag to its lister and removal rules.
type Entry struct {
	Kind    string
	List    Lister
	Request classifier.Request
}

// Registry holds scan entries in registration order.
// Report ordering follows this order, so it must stay stable.
type Registry struct {
	entries []Entry
	index   map[string]int

	mu sync.RWMutex
}

// NewRegistry creates a Registry with the given entries, in order.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		r.Register(e)
	}
	return r
}

// Register adds an entry. Registering an existing kind replaces it in place.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[e.Kind]; ok {
		r.entries[i] = e
		return
	}
	r.index[e.Kind] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Get retrieves the entry for a kind.
func (r *Registry) Get(kind string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[kind]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// List returns a copy of all entries in registration order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Kinds returns all registered kind tags in registration order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Count returns the number of registered kinds.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Filter returns a new Registry with only the named kinds, keeping
// registration order. With no kinds, it returns a copy of r.
func (r *Registry) Filter(kinds ...string) (*Registry, error) {
	if len(kinds) == 0 {
		return NewRegistry(r.List()...), nil
	}

	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		if _, ok := r.Get(k); !ok {
			return nil, r.unknownKind(k)
		}
		want[k] = true
	}

	filtered := NewRegistry()
	for _, e := range r.List() {
		if want[e.Kind] {
			filtered.Register(e)
		}
	}
	return filtered, nil
}

func (r *Registry) unknownKind(kind string) error {
	if s := r.suggest(kind); s != "" {
		return fmt.Errorf("unknown kind %q, did you mean %q?", kind, s)
	}
	return fmt.Errorf("unknown kind %q, valid kinds are: %v", kind, r.Kinds())
}

// suggest returns the registered kind closest to name, if it is close enough
// to be a plausible typo.
func (r *Registry) suggest(name string) string {
	best := ""
	bestDist := len(name)/2 + 1
	for _, k := range r.Kinds() {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
