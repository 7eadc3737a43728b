package source

import (
	"log/slog"

	"github.com/dshills/forged/internal/config/cache"
	"github.com/dshills/forged/internal/config/catalog"
	"github.com/dshills/forged/internal/config/props"
)

// Chain is the priority-ordered sequence of sources bound to one setting.
// Sources are evaluated strictly in order; the first present value wins and
// later, possibly expensive, sources are never touched.
//
// Chains have value semantics: every With method returns a new chain and
// never mutates the receiver, so a chain variable always denotes the
// configuration as of when it was last assigned and is safe to share.
type Chain struct {
	setting  *catalog.Setting
	sources  []Source
	fail     bool
	session  *cache.Session
	pathConv PathConverter
}

// PathConverter rewrites a resolved filesystem path, e.g. through a
// POSIX-emulation layer's path conversion. The zero value (nil) uses
// resolved paths literally.
type PathConverter func(string) string

// NewChain creates an empty chain for the given setting.
func NewChain(setting *catalog.Setting) Chain {
	return Chain{setting: setting}
}

// Setting returns the setting this chain resolves.
func (c Chain) Setting() *catalog.Setting {
	return c.setting
}

// with returns a copy of the chain with one more (lower-priority) source.
func (c Chain) with(s Source) Chain {
	sources := make([]Source, len(c.sources), len(c.sources)+1)
	copy(sources, c.sources)
	c.sources = append(sources, s)
	return c
}

// With appends an arbitrary source.
func (c Chain) With(s Source) Chain {
	return c.with(s)
}

// WithOverride appends a lookup into an explicit override map.
func (c Chain) WithOverride(overrides map[string]string) Chain {
	return c.with(Override(c.setting, overrides))
}

// WithSystemProperty appends a lookup into the process property table.
func (c Chain) WithSystemProperty(sys *props.SysProps) Chain {
	return c.with(SystemProperty(c.setting, sys))
}

// WithPropertyFile appends a lookup into the property file at path.
// An empty path is a no-op: an optional upstream lookup that itself could
// not be resolved is transparently skipped, not treated as an error.
func (c Chain) WithPropertyFile(store *props.Store, path string) Chain {
	if path == "" {
		return c
	}
	return c.with(PropertyFile(c.setting, store, path))
}

// WithEnvVariable appends a lookup of the setting's environment variable
// alias. A setting without an alias is a no-op.
func (c Chain) WithEnvVariable(env props.Environ) Chain {
	if c.setting.EnvVar == "" {
		return c
	}
	return c.with(EnvVariable(c.setting, env))
}

// WithDefault appends the setting's catalog default literal.
func (c Chain) WithDefault() Chain {
	return c.with(Default(c.setting))
}

// WithComputedDefault appends a computed-default thunk.
func (c Chain) WithComputedDefault(desc string, fn func() (string, bool, error)) Chain {
	return c.with(Computed(desc, fn))
}

// WithFail marks the chain as required: exhausting every source raises a
// ResolutionError instead of reporting absence.
func (c Chain) WithFail() Chain {
	c.fail = true
	return c
}

// WithCache attaches a session cache. The cache acts as the chain's
// highest-priority lookup, and the winning value of a full walk is written
// back so later resolutions of the same setting return in constant time.
func (c Chain) WithCache(session *cache.Session) Chain {
	c.session = session
	return c
}

// WithPathConverter sets the converter applied by AsPath.
func (c Chain) WithPathConverter(conv PathConverter) Chain {
	c.pathConv = conv
	return c
}

// Resolve walks the chain in priority order and returns the first present
// value. With no value and no fail marker, absence is a valid result.
func (c Chain) Resolve() (string, bool, error) {
	if c.session != nil {
		if v, ok := c.session.Get(c.setting.Property); ok {
			return v, true, nil
		}
	}

	for _, s := range c.sources {
		v, ok, err := s.Fetch()
		if err != nil {
			return "", false, err
		}
		if !ok {
			continue
		}
		slog.Debug("resolved setting",
			"setting", c.setting.Name,
			"source", s.Describe(),
			"value", v)
		if c.session != nil {
			c.session.Put(c.setting.Property, v)
		}
		return v, true, nil
	}

	if c.fail {
		return "", false, c.unresolved()
	}
	return "", false, nil
}

// IsSet resolves the chain and reports whether a value was found. For
// settings marked optional in the catalog, absence is reported as false
// rather than surfacing the would-be resolution failure.
func (c Chain) IsSet() (bool, error) {
	_, ok, err := c.Resolve()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	if c.setting.Optional {
		return false, nil
	}
	return false, c.unresolved()
}

// unresolved builds the exhaustion error, enumerating every consulted
// source in priority order.
func (c Chain) unresolved() error {
	descriptions := make([]string, len(c.sources))
	for i, s := range c.sources {
		descriptions[i] = s.Describe()
	}
	return &ResolutionError{Setting: c.setting.Name, Sources: descriptions}
}
