// Package catalog defines the settings known to the forged daemon.
//
// The catalog maintains definitions of all recognized settings with their
// property keys, environment variable aliases, defaults, and the flags that
// drive daemon compatibility matching. The resolution engine only reads this
// metadata; it never computes or mutates it.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Setting defines a configuration setting with its metadata.
// Settings are immutable for the process lifetime once registered.
type Setting struct {
	// Name is the logical identifier (e.g., "KeepAlive").
	Name string

	// Property is the associated property key (e.g., "forge.keep.alive").
	Property string

	// EnvVar is the associated environment variable name.
	// Empty means the setting has no environment variable alias.
	EnvVar string

	// Default is the default-value literal. Settings whose default is
	// computed leave this empty and clear HasDefault; the engine supplies
	// the computation when it assembles the chain.
	Default string

	// HasDefault reports whether Default carries a usable literal.
	// An empty string can be a valid default, so presence is explicit.
	HasDefault bool

	// Discriminating marks settings that participate in daemon
	// compatibility matching. A running daemon is only reused when all
	// discriminating values match.
	Discriminating bool

	// Optional marks settings whose absence is not an error.
	Optional bool
}

// DaemonOpt renders the setting with a resolved value as a key=value
// compatibility option passed to the daemon.
func (s *Setting) DaemonOpt(value string) string {
	return s.Property + "=" + value
}

// Registry maintains all known setting definitions.
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]*Setting
	byProperty map[string]*Setting
}

// NewRegistry creates an empty settings registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]*Setting),
		byProperty: make(map[string]*Setting),
	}
}

// Register adds a setting definition to the registry.
// Returns an error if the name or property key is already taken.
func (r *Registry) Register(setting Setting) error {
	if setting.Name == "" || setting.Property == "" {
		return fmt.Errorf("%w: name and property are required", ErrInvalidSetting)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[setting.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, setting.Name)
	}
	if _, exists := r.byProperty[setting.Property]; exists {
		return fmt.Errorf("%w: property %s", ErrAlreadyRegistered, setting.Property)
	}

	s := &setting // Copy to heap
	r.byName[setting.Name] = s
	r.byProperty[setting.Property] = s
	return nil
}

// MustRegister registers a setting and panics on error.
// Useful for registering built-in settings at init time.
func (r *Registry) MustRegister(setting Setting) {
	if err := r.Register(setting); err != nil {
		panic(err)
	}
}

// Get returns the setting definition for the given logical name.
// Returns nil if the setting is not registered.
func (r *Registry) Get(name string) *Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// ByProperty returns the setting owning the given property key.
// Returns nil if no setting claims the key.
func (r *Registry) ByProperty(property string) *Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byProperty[property]
}

// Lookup finds a setting by logical name or property key, matching the
// name case-insensitively. Returns nil if nothing matches.
func (r *Registry) Lookup(query string) *Setting {
	if s := r.Get(query); s != nil {
		return s
	}
	if s := r.ByProperty(query); s != nil {
		return s
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, s := range r.byName {
		if strings.EqualFold(name, query) {
			return s
		}
	}
	return nil
}

// All returns all registered settings sorted by name.
func (r *Registry) All() []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Setting, 0, len(r.byName))
	for _, s := range r.byName {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Discriminating returns the settings that participate in daemon
// compatibility matching, sorted by name.
func (r *Registry) Discriminating() []*Setting {
	all := r.All()
	result := make([]*Setting, 0, len(all))
	for _, s := range all {
		if s.Discriminating {
			result = append(result, s)
		}
	}
	return result
}

// Len returns the number of registered settings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
