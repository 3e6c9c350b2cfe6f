package scenario

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds loaded scenarios keyed by ID.
type Registry struct {
	scenarios map[string]*Scenario
	mu        sync.RWMutex
}

var defaultRegistry *Registry
var once sync.Once

// Default returns the process-wide registry, seeded with the built-in library.
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
		for _, s := range Builtin() {
			_ = defaultRegistry.Register(&s)
		}
	})
	return defaultRegistry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: make(map[string]*Scenario)}
}

// Register adds or replaces a scenario.
func (r *Registry) Register(s *Scenario) error {
	if s.ID == "" {
		return fmt.Errorf("scenario ID cannot be empty")
	}
	if s.Name == "" {
		s.Name = s.ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.scenarios[s.ID] = s
	return nil
}

// Get retrieves a scenario by ID.
func (r *Registry) Get(id string) (*Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.scenarios[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("scenario not found: %s", id)
}

// List returns copies of all scenarios ordered by name, then ID.
func (r *Registry) List() []Scenario {
	r.mu.RLock()
	out := make([]Scenario, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		c := *s
		c.Inputs = s.Inputs.Clone()
		out = append(out, c)
	}
	r.mu.RUnlock()

	sortScenarios(out)
	return out
}

// ListByCategory returns the scenarios of one category, ordered like List.
func (r *Registry) ListByCategory(category string) []Scenario {
	var out []Scenario
	for _, s := range r.List() {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the number of registered scenarios.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scenarios)
}

func sortScenarios(s []Scenario) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Name != s[j].Name {
			return s[i].Name < s[j].Name
		}
		return s[i].ID < s[j].ID
	})
}
