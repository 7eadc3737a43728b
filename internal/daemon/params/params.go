// Package params computes the effective configuration of a forged daemon
// client: the daemon parameters view over explicit overrides, process
// properties, layered property files, environment variables, and computed
// defaults. Values are resolved lazily and memoized for the session.
package params

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/forged/internal/config/cache"
	"github.com/dshills/forged/internal/config/catalog"
	"github.com/dshills/forged/internal/config/props"
	"github.com/dshills/forged/internal/config/source"
)

// Version is the forged version (set via ldflags during build). It keys the
// default daemon storage directory so incompatible versions never share
// registries.
var Version = "dev"

// Relative locations of the layered configuration files.
const (
	projectMarkerDir      = ".forge"
	projectPropertiesFile = ".forge/forged.properties"
	userPropertiesFile    = ".forge/forged.properties"
	installPropertiesFile = "conf/forged.properties"
)

// extPluginPathProperty is the raw, path-separator-delimited plugin list
// process property from which the PluginPath default is derived.
const extPluginPathProperty = "forge.ext.plugin.path"

// Options configures a Params view. Zero values select process-wide
// defaults.
type Options struct {
	// Env is the environment snapshot. Nil snapshots the process
	// environment at construction.
	Env props.Environ

	// SysProps is the process property table. Nil creates an empty one.
	// Callers normally seed user.dir and user.home here.
	SysProps *props.SysProps

	// Overrides are explicit property-key overrides, highest priority.
	Overrides map[string]string

	// Registry is the settings catalog. Nil uses catalog.Standard.
	Registry *catalog.Registry

	// PathConverter rewrites resolved paths, e.g. through a
	// POSIX-emulation layer. Nil uses paths literally.
	PathConverter source.PathConverter

	// HomeProbe locates the installation directory relative to the
	// running executable. Nil uses the default executable probe.
	HomeProbe func() (string, bool)

	// ToolchainProbe locates the toolchain installation from the
	// surrounding system as a last resort. Nil uses the default
	// PATH probe.
	ToolchainProbe func() (string, bool)
}

// Params is an immutable view of the daemon configuration. Deriving a
// modified view (Cd, WithDebug, WithDaemonArgs) copies the overrides map
// and never mutates the original, so concurrently held views cannot
// interfere. The property-file store and process property table are shared
// across derived views (file contents and process state belong to the
// process, not to one view); each derived view starts with a fresh session
// cache, since changed overrides invalidate previously memoized values.
type Params struct {
	overrides map[string]string
	env       props.Environ
	sys       *props.SysProps
	registry  *catalog.Registry
	store     *props.Store
	session   *cache.Session
	pathConv  source.PathConverter

	homeProbe      func() (string, bool)
	toolchainProbe func() (string, bool)
}

// New creates a daemon parameters view.
func New(opts Options) *Params {
	env := opts.Env
	if env == nil {
		env = props.OSEnviron()
	}
	sys := opts.SysProps
	if sys == nil {
		sys = props.NewSysProps(nil)
	}
	registry := opts.Registry
	if registry == nil {
		registry = catalog.Standard()
	}
	overrides := make(map[string]string, len(opts.Overrides))
	maps.Copy(overrides, opts.Overrides)

	p := &Params{
		overrides:      overrides,
		env:            env,
		sys:            sys,
		registry:       registry,
		store:          props.NewStore(sys, env),
		session:        cache.NewSession(),
		pathConv:       opts.PathConverter,
		homeProbe:      opts.HomeProbe,
		toolchainProbe: opts.ToolchainProbe,
	}
	if p.homeProbe == nil {
		p.homeProbe = p.homeFromExecutable
	}
	if p.toolchainProbe == nil {
		p.toolchainProbe = p.toolchainFromPath
	}
	return p
}

// Registry returns the settings catalog backing this view.
func (p *Params) Registry() *catalog.Registry {
	return p.registry
}

// derive returns a new view with a customized copy of the overrides map
// and a fresh session cache. The store and process properties stay shared.
func (p *Params) derive(customize func(map[string]string)) *Params {
	next := *p
	next.overrides = maps.Clone(p.overrides)
	next.session = cache.NewSession()
	customize(next.overrides)
	return &next
}

// Cd derives a view with the working directory changed to dir.
func (p *Params) Cd(dir string) *Params {
	return p.derive(func(m map[string]string) {
		m[catalog.UserDir.Property] = dir
	})
}

// WithDebug derives a view with daemon debugging switched on or off.
func (p *Params) WithDebug(debug bool) *Params {
	return p.derive(func(m map[string]string) {
		m[catalog.Debug.Property] = strconv.FormatBool(debug)
	})
}

// WithDaemonArgs derives a view with extra daemon arguments prepended
// (before=true) or appended to any already-overridden ones.
func (p *Params) WithDaemonArgs(args string, before bool) *Params {
	return p.derive(func(m map[string]string) {
		current := m[catalog.DaemonArgs.Property]
		switch {
		case current == "":
			m[catalog.DaemonArgs.Property] = args
		case before:
			m[catalog.DaemonArgs.Property] = args + " " + current
		default:
			m[catalog.DaemonArgs.Property] = current + " " + args
		}
	})
}

// value starts a chain for the setting with the explicit-override lookup as
// its highest-priority source.
func (p *Params) value(s *catalog.Setting) source.Chain {
	return source.NewChain(s).
		WithPathConverter(p.pathConv).
		WithOverride(p.overrides)
}

// property assembles the standard chain for a setting: explicit override,
// system property, the supplied, project, user, and installation property
// files, the environment variable alias, and finally the default.
func (p *Params) property(s *catalog.Setting) (source.Chain, error) {
	supplied, err := p.SuppliedPropertiesPath()
	if err != nil {
		return source.Chain{}, err
	}
	project, err := p.projectPropertiesPath()
	if err != nil {
		return source.Chain{}, err
	}
	user, err := p.userPropertiesPath()
	if err != nil {
		return source.Chain{}, err
	}
	install, err := p.installPropertiesPath()
	if err != nil {
		return source.Chain{}, err
	}

	c := p.value(s).
		WithSystemProperty(p.sys).
		WithPropertyFile(p.store, supplied).
		WithPropertyFile(p.store, project).
		WithPropertyFile(p.store, user).
		WithPropertyFile(p.store, install).
		WithEnvVariable(p.env)
	return p.withDefault(c, s), nil
}

// withDefault appends the setting's default source: the catalog literal for
// plain settings, the derived computation for the settings whose default is
// not a simple lookup.
func (p *Params) withDefault(c source.Chain, s *catalog.Setting) source.Chain {
	switch s.Property {
	case catalog.PluginPath.Property:
		return c.WithComputedDefault("plugins from "+extPluginPathProperty, p.defaultPluginPath)
	case catalog.ExtensionsDiscriminator.Property:
		return c.WithComputedDefault("extension descriptor digest", p.defaultDiscriminator)
	case catalog.ExtensionsExclude.Property:
		return c.WithComputedDefault("excluded extensions", func() (string, bool, error) {
			if v, ok := p.sys.Get(catalog.ExtensionsExclude.Property); ok {
				return v, true, nil
			}
			return "", true, nil
		})
	default:
		return c.WithDefault()
	}
}

// Value resolves a setting through its standard chain, reporting presence
// explicitly. Used by the inspection CLI.
func (p *Params) Value(s *catalog.Setting) (string, bool, error) {
	c, err := p.property(s)
	if err != nil {
		return "", false, err
	}
	return c.AsOptional()
}

// DaemonOpts returns the key=value compatibility options for every
// discriminating setting that resolves to a value. A daemon is only reused
// when its options match the requesting client's.
func (p *Params) DaemonOpts() ([]string, error) {
	var opts []string
	for _, s := range p.registry.Discriminating() {
		c, err := p.property(s)
		if err != nil {
			return nil, err
		}
		set, err := c.IsSet()
		if err != nil {
			return nil, err
		}
		if !set {
			continue
		}
		v, err := c.AsString()
		if err != nil {
			return nil, err
		}
		opts = append(opts, s.DaemonOpt(v))
	}
	return opts, nil
}

// Home resolves the forged installation directory.
func (p *Params) Home() (string, error) {
	supplied, err := p.SuppliedPropertiesPath()
	if err != nil {
		return "", err
	}
	project, err := p.projectPropertiesPath()
	if err != nil {
		return "", err
	}
	user, err := p.userPropertiesPath()
	if err != nil {
		return "", err
	}

	v, err := p.value(&catalog.ForgeHome).
		With(source.NewSource(
			func() string { return "path relative to the forged executable" },
			func() (string, bool, error) { h, ok := p.homeProbe(); return h, ok, nil },
		)).
		WithSystemProperty(p.sys).
		WithPropertyFile(p.store, supplied).
		WithPropertyFile(p.store, project).
		WithPropertyFile(p.store, user).
		WithEnvVariable(p.env).
		WithFail().
		WithCache(p.session).
		AsPath()
	if err != nil {
		return "", err
	}
	return absClean(v)
}

// ToolchainHome resolves the build toolchain installation, falling back to
// probing the surrounding system as a last resort.
func (p *Params) ToolchainHome() (string, error) {
	supplied, err := p.SuppliedPropertiesPath()
	if err != nil {
		return "", err
	}
	project, err := p.projectPropertiesPath()
	if err != nil {
		return "", err
	}
	user, err := p.userPropertiesPath()
	if err != nil {
		return "", err
	}
	install, err := p.installPropertiesPath()
	if err != nil {
		return "", err
	}

	v, err := p.value(&catalog.ToolchainHome).
		WithPropertyFile(p.store, supplied).
		WithPropertyFile(p.store, project).
		WithPropertyFile(p.store, user).
		WithPropertyFile(p.store, install).
		WithSystemProperty(p.sys).
		WithEnvVariable(p.env).
		With(source.NewSource(
			func() string { return "toolchain executable on PATH" },
			p.probeToolchain,
		)).
		WithFail().
		WithCache(p.session).
		AsPath()
	if err != nil {
		return "", err
	}
	return absClean(v)
}

// UserDir resolves the client working directory.
func (p *Params) UserDir() (string, error) {
	v, err := p.value(&catalog.UserDir).
		WithSystemProperty(p.sys).
		WithFail().
		WithCache(p.session).
		AsPath()
	if err != nil {
		return "", err
	}
	return absClean(v)
}

// UserHome resolves the invoking user's home directory.
func (p *Params) UserHome() (string, error) {
	v, err := p.value(&catalog.UserHome).
		WithSystemProperty(p.sys).
		WithFail().
		WithCache(p.session).
		AsPath()
	if err != nil {
		return "", err
	}
	return absClean(v)
}

// SuppliedPropertiesPath resolves the optional extra properties file
// consulted before the project, user, and installation files.
func (p *Params) SuppliedPropertiesPath() (string, error) {
	return p.value(&catalog.PropertiesPath).
		WithSystemProperty(p.sys).
		WithEnvVariable(p.env).
		AsPath()
}

// ProjectDir resolves the top-level project directory: the nearest ancestor
// of the working directory containing a .forge directory, or the working
// directory itself when none exists.
func (p *Params) ProjectDir() (string, error) {
	v, err := p.value(&catalog.ProjectDir).
		WithSystemProperty(p.sys).
		WithComputedDefault("nearest ancestor with a "+projectMarkerDir+" directory", func() (string, bool, error) {
			userDir, err := p.UserDir()
			if err != nil {
				return "", false, err
			}
			return FindProjectDir(userDir), true, nil
		}).
		AsPath()
	if err != nil {
		return "", err
	}
	return absClean(v)
}

// DaemonStorage resolves where the daemon registry and logs live.
func (p *Params) DaemonStorage() (string, error) {
	install, err := p.installPropertiesPath()
	if err != nil {
		return "", err
	}
	v, err := p.value(&catalog.DaemonStorage).
		WithSystemProperty(p.sys).
		WithPropertyFile(p.store, install).
		WithEnvVariable(p.env).
		WithComputedDefault("storage under the user home", func() (string, bool, error) {
			home, err := p.UserHome()
			if err != nil {
				return "", false, err
			}
			return filepath.Join(home, projectMarkerDir, "daemon", Version), true, nil
		}).
		AsPath()
	if err != nil {
		return "", err
	}
	return absClean(v)
}

// RegistryPath returns the daemon registry file inside the storage directory.
func (p *Params) RegistryPath() (string, error) {
	storage, err := p.DaemonStorage()
	if err != nil {
		return "", err
	}
	return filepath.Join(storage, "registry.bin"), nil
}

// DaemonLog returns the log file for the daemon with the given id.
func (p *Params) DaemonLog(daemon string) (string, error) {
	storage, err := p.DaemonStorage()
	if err != nil {
		return "", err
	}
	return filepath.Join(storage, "daemon-"+daemon+".log"), nil
}

// DaemonOutLog returns the captured-output log for the daemon with the
// given id.
func (p *Params) DaemonOutLog(daemon string) (string, error) {
	storage, err := p.DaemonStorage()
	if err != nil {
		return "", err
	}
	return filepath.Join(storage, "daemon-"+daemon+".out.log"), nil
}

// KeepAlive resolves the daemon keep-alive period.
func (p *Params) KeepAlive() (time.Duration, error) {
	c, err := p.property(&catalog.KeepAlive)
	if err != nil {
		return 0, err
	}
	return c.WithFail().AsDuration()
}

// MaxLostKeepAlive resolves how many keep-alive messages may be missed.
func (p *Params) MaxLostKeepAlive() (int, error) {
	c, err := p.property(&catalog.MaxLostKeepAlive)
	if err != nil {
		return 0, err
	}
	return c.WithFail().AsInt()
}

// MinThreads resolves the lower bound for the computed thread default.
func (p *Params) MinThreads() (int, error) {
	c, err := p.property(&catalog.MinThreads)
	if err != nil {
		return 0, err
	}
	return c.WithFail().AsInt()
}

// Threads resolves the build parallelism passed to the daemon, defaulting
// to one less than the processor count, bounded below by MinThreads.
func (p *Params) Threads() (string, error) {
	c, err := p.property(&catalog.Threads)
	if err != nil {
		return "", err
	}
	return c.
		WithComputedDefault("max(processors-1, "+catalog.MinThreads.Property+")", func() (string, bool, error) {
			minThreads, err := p.MinThreads()
			if err != nil {
				return "", false, err
			}
			n := runtime.NumCPU() - 1
			if n < minThreads {
				n = minThreads
			}
			return strconv.Itoa(n), true, nil
		}).
		WithFail().
		AsString()
}

// Builder resolves the build scheduler implementation name.
func (p *Params) Builder() (string, error) {
	c, err := p.property(&catalog.Builder)
	if err != nil {
		return "", err
	}
	return c.WithFail().AsString()
}

// NoDaemon reports whether the build should run in-process instead of in
// a daemon.
func (p *Params) NoDaemon() (bool, error) {
	return p.value(&catalog.NoDaemon).
		WithSystemProperty(p.sys).
		WithEnvVariable(p.env).
		WithDefault().
		AsBool()
}

// Debug reports whether the daemon runs with debugging enabled.
func (p *Params) Debug() (bool, error) {
	return p.value(&catalog.Debug).
		WithSystemProperty(p.sys).
		WithDefault().
		AsBool()
}

// Serial reports whether the build is forced to run serially.
func (p *Params) Serial() (bool, error) {
	return p.value(&catalog.Serial).
		WithSystemProperty(p.sys).
		WithDefault().
		AsBool()
}

// DaemonArgs resolves the extra daemon process arguments, if any.
func (p *Params) DaemonArgs() (string, error) {
	c, err := p.property(&catalog.DaemonArgs)
	if err != nil {
		return "", err
	}
	return c.AsString()
}

// SocketFamily resolves the daemon connection transport, if configured.
func (p *Params) SocketFamily() (string, bool, error) {
	c, err := p.property(&catalog.SocketFamily)
	if err != nil {
		return "", false, err
	}
	return c.AsOptional()
}

// LogPurgePeriod resolves how long daemon logs are kept.
func (p *Params) LogPurgePeriod() (time.Duration, error) {
	c, err := p.property(&catalog.LogPurgePeriod)
	if err != nil {
		return 0, err
	}
	return c.WithFail().AsDuration()
}

// NoBuffering reports whether client output buffering is disabled.
func (p *Params) NoBuffering() (bool, error) {
	c, err := p.property(&catalog.NoBuffering)
	if err != nil {
		return false, err
	}
	return c.WithFail().AsBool()
}

// RollingWindowSize resolves the rolling display window size.
func (p *Params) RollingWindowSize() (int, error) {
	c, err := p.property(&catalog.RollingWindowSize)
	if err != nil {
		return 0, err
	}
	return c.WithFail().AsInt()
}

// PluginPath resolves the extension plugin list as resolved absolute
// paths, in configuration order.
func (p *Params) PluginPath() ([]string, error) {
	c, err := p.property(&catalog.PluginPath)
	if err != nil {
		return nil, err
	}
	v, err := c.AsString()
	if err != nil || v == "" {
		return nil, err
	}
	return strings.Split(v, ","), nil
}

// ExtensionsExclude resolves the excluded extension list.
func (p *Params) ExtensionsExclude() (string, error) {
	c, err := p.property(&catalog.ExtensionsExclude)
	if err != nil {
		return "", err
	}
	return c.AsString()
}

// Discriminator resolves the extension-configuration content hash.
func (p *Params) Discriminator() (string, error) {
	c, err := p.property(&catalog.ExtensionsDiscriminator)
	if err != nil {
		return "", err
	}
	return c.WithFail().AsString()
}

// defaultPluginPath derives the PluginPath default from the raw
// path-separator-delimited plugin list property, resolved against the
// working directory and joined with commas.
func (p *Params) defaultPluginPath() (string, bool, error) {
	raw, ok := p.sys.Get(extPluginPathProperty)
	if !ok {
		return "", false, nil
	}
	base, err := p.UserDir()
	if err != nil {
		return "", false, err
	}
	return strings.Join(ParsePluginPath(raw, base), ","), true, nil
}

// defaultDiscriminator computes the descriptor digest over the project,
// user, and installation extension descriptors.
func (p *Params) defaultDiscriminator() (string, bool, error) {
	project, err := p.ProjectDir()
	if err != nil {
		return "", false, err
	}
	userHome, err := p.UserHome()
	if err != nil {
		return "", false, err
	}
	home, err := p.Home()
	if err != nil {
		return "", false, err
	}
	digest, err := ExtensionsDiscriminator(project, userHome, home)
	if err != nil {
		return "", false, err
	}
	return digest, true, nil
}

// projectPropertiesPath is the project-level properties file.
func (p *Params) projectPropertiesPath() (string, error) {
	dir, err := p.ProjectDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(projectPropertiesFile)), nil
}

// userPropertiesPath is the user-level properties file.
func (p *Params) userPropertiesPath() (string, error) {
	home, err := p.UserHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, filepath.FromSlash(userPropertiesFile)), nil
}

// installPropertiesPath is the installation-level properties file.
func (p *Params) installPropertiesPath() (string, error) {
	home, err := p.Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, filepath.FromSlash(installPropertiesFile)), nil
}

// FindProjectDir walks up from dir looking for a .forge directory and
// returns the first directory containing one, or dir itself when the walk
// reaches the filesystem root without a match.
func FindProjectDir(dir string) string {
	current := dir
	for {
		if info, err := os.Stat(filepath.Join(current, projectMarkerDir)); err == nil && info.IsDir() {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

// absClean returns the absolute, cleaned form of path.
func absClean(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
