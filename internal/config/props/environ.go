// Package props provides the property sources shared by the resolution
// engine: an immutable environment snapshot, the mutable process property
// table, and a memoizing store of parsed property files.
package props

import (
	"os"
	"strings"
)

// EnvPrefix is the namespace prefix under which environment variables are
// exposed to property-file interpolation, so a file can reference either
// process properties or the environment without key collisions.
const EnvPrefix = "env."

// Environ is an immutable snapshot of environment variables taken at
// construction time. Passing the snapshot explicitly keeps resolution
// deterministic; tests never have to mutate the real process environment.
type Environ map[string]string

// OSEnviron snapshots the current process environment.
func OSEnviron() Environ {
	env := os.Environ()
	snap := make(Environ, len(env))
	for _, kv := range env {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			snap[kv[:i]] = kv[i+1:]
		}
	}
	return snap
}

// Get returns the variable value and whether it is present in the snapshot.
func (e Environ) Get(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}
