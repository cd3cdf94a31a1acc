// Package playbook holds the built-in standard-clause playbooks that
// parameterize comparison prompts. Playbooks are static data compiled into
// the binary and loaded once at startup; the pipeline itself never decides
// which playbook applies.
package playbook

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/redlinehq/redline/internal/domain"
)

//go:embed playbooks.yaml
var playbooksYAML []byte

// Registry provides lookup of playbooks by name.
type Registry struct {
	byName map[string]domain.Playbook
}

// Load parses the embedded playbooks and validates each against the domain
// constraints. It fails on malformed data rather than serving a partial set.
func Load() (*Registry, error) {
	return parse(playbooksYAML)
}

func parse(data []byte) (*Registry, error) {
	var doc struct {
		Playbooks []domain.Playbook `yaml:"playbooks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse playbooks: %w", err)
	}

	byName := make(map[string]domain.Playbook, len(doc.Playbooks))
	for i := range doc.Playbooks {
		pb := doc.Playbooks[i]
		if err := pb.Validate(); err != nil {
			return nil, fmt.Errorf("invalid playbook %q: %w", pb.Name, err)
		}
		if _, exists := byName[pb.Name]; exists {
			return nil, fmt.Errorf("duplicate playbook name %q", pb.Name)
		}
		byName[pb.Name] = pb
	}

	return &Registry{byName: byName}, nil
}

// Get returns the playbook with the given name.
func (r *Registry) Get(name string) (domain.Playbook, bool) {
	pb, ok := r.byName[name]
	return pb, ok
}

// Names returns the registered playbook names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
