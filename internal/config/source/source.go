// Package source implements the layered, lazy resolution engine for daemon
// settings: describable value sources, the priority-ordered resolution
// chain, session memoization, and typed coercion of resolved values.
package source

import (
	"github.com/dshills/forged/internal/config/catalog"
	"github.com/dshills/forged/internal/config/props"
)

// Source is a named, lazily-evaluated provider of a single raw value.
// Fetch reports absence as ok=false; errors are reserved for genuine I/O
// failures. Fetching may touch the filesystem but must yield the same
// result across repeated calls within a session.
type Source struct {
	describe func() string
	fetch    func() (value string, ok bool, err error)
}

// NewSource creates a source from a description builder and a supplier.
func NewSource(describe func() string, fetch func() (string, bool, error)) Source {
	return Source{describe: describe, fetch: fetch}
}

// Describe renders where this source looks, for diagnostics.
func (s Source) Describe() string {
	return s.describe()
}

// Fetch evaluates the source.
func (s Source) Fetch() (string, bool, error) {
	return s.fetch()
}

// String returns the description. Mostly for debugging.
func (s Source) String() string {
	return s.describe()
}

// Static is a source holding a fixed value, present when ok is true.
func Static(desc, value string, ok bool) Source {
	return NewSource(
		func() string { return desc },
		func() (string, bool, error) { return value, ok, nil },
	)
}

// Override looks the setting's property key up in an explicit override map.
func Override(setting *catalog.Setting, overrides map[string]string) Source {
	return NewSource(
		func() string { return "value: " + setting.Property },
		func() (string, bool, error) {
			v, ok := overrides[setting.Property]
			return v, ok, nil
		},
	)
}

// SystemProperty reads the setting's property key from the process
// property table.
func SystemProperty(setting *catalog.Setting, sys *props.SysProps) Source {
	return NewSource(
		func() string { return "system property " + setting.Property },
		func() (string, bool, error) {
			v, ok := sys.Get(setting.Property)
			return v, ok, nil
		},
	)
}

// EnvVariable reads the setting's environment variable alias from the
// environment snapshot.
func EnvVariable(setting *catalog.Setting, env props.Environ) Source {
	return NewSource(
		func() string { return "environment variable " + setting.EnvVar },
		func() (string, bool, error) {
			v, ok := env.Get(setting.EnvVar)
			return v, ok, nil
		},
	)
}

// PropertyFile reads the setting's property key from the property file at
// path, loaded and memoized by the store. Loading is deferred until the
// chain actually consults this source.
func PropertyFile(setting *catalog.Setting, store *props.Store, path string) Source {
	return NewSource(
		func() string { return "property " + setting.Property + " in " + path },
		func() (string, bool, error) {
			mapping, err := store.Get(path)
			if err != nil {
				return "", false, err
			}
			v, ok := mapping.Get(setting.Property)
			return v, ok, nil
		},
	)
}

// Default wraps the setting's catalog default literal. Settings without a
// literal default yield absence.
func Default(setting *catalog.Setting) Source {
	return NewSource(
		func() string { return "default: " + setting.Default },
		func() (string, bool, error) {
			return setting.Default, setting.HasDefault, nil
		},
	)
}

// Computed wraps a computed-default thunk. The thunk runs only when every
// higher-priority source came up empty.
func Computed(desc string, fn func() (string, bool, error)) Source {
	return NewSource(
		func() string { return "default: " + desc },
		fn,
	)
}
