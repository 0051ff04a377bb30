package scanner

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

// KindOverride replaces the removal rules of one registered kind.
// Empty fields keep the registered value.
type KindOverride struct {
	RemovedAPIVersions []string `yaml:"removedApiVersions,omitempty"`
	RequiredAPIVersion string   `yaml:"requiredApiVersion,omitempty"`
	ExcludedNames      []string `yaml:"excludedNames,omitempty"`
}

// Config holds per-kind overrides loaded from a YAML file:
//
//	kinds:
//	  crd:
//	    removedApiVersions: [apiextensions.k8s.io/v1beta1]
//	    requiredApiVersion: apiextensions.k8s.io/v1
//	    excludedNames: [legacy.example.com]
type Config struct {
	Kinds map[string]KindOverride `yaml:"kinds"`
}

// LoadConfig reads a Config from path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a Config, rejecting unknown fields.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	return &cfg, nil
}

// Apply overrides the matching registry entries in place.
// Every kind in the config must already be registered.
func (c *Config) Apply(r *Registry) error {
	if c == nil {
		return nil
	}

	for _, kind := range sets.List(sets.KeySet(c.Kinds)) {
		e, ok := r.Get(kind)
		if !ok {
			return r.unknownKind(kind)
		}

		o := c.Kinds[kind]
		if len(o.RemovedAPIVersions) > 0 {
			e.Request.RemovedAPIVersions = sets.New(o.RemovedAPIVersions...)
		}
		if o.RequiredAPIVersion != "" {
			e.Request.RequiredAPIVersion = o.RequiredAPIVersion
		}
		if len(o.ExcludedNames) > 0 {
			e.Request.ExcludedNames = sets.New(o.ExcludedNames...)
		}
		r.Register(e)
	}
	return nil
}
