package catalog

import "errors"

// Errors returned by catalog operations.
var (
	// ErrAlreadyRegistered indicates an attempt to register a duplicate setting.
	ErrAlreadyRegistered = errors.New("setting already registered")

	// ErrInvalidSetting indicates a setting definition missing required fields.
	ErrInvalidSetting = errors.New("invalid setting definition")
)

// The standard settings of the forged daemon. Defaults that depend on other
// resolved values (Threads, DaemonStorage, ProjectDir, PluginPath,
// ExtensionsDiscriminator) carry no literal; the daemon parameters layer
// supplies the computation when it assembles the chain.
var (
	// ForgeHome is the daemon installation directory.
	ForgeHome = Setting{
		Name:           "ForgeHome",
		Property:       "forge.home",
		EnvVar:         "FORGE_HOME",
		Discriminating: true,
	}

	// ToolchainHome is the build toolchain installation used by the daemon.
	ToolchainHome = Setting{
		Name:           "ToolchainHome",
		Property:       "toolchain.home",
		EnvVar:         "TOOLCHAIN_HOME",
		Discriminating: true,
	}

	// UserDir is the current working directory of the invoking client.
	UserDir = Setting{
		Name:     "UserDir",
		Property: "user.dir",
	}

	// UserHome is the home directory of the invoking user.
	UserHome = Setting{
		Name:     "UserHome",
		Property: "user.home",
	}

	// PropertiesPath points at an extra properties file consulted before
	// the project, user, and installation files.
	PropertiesPath = Setting{
		Name:     "PropertiesPath",
		Property: "forge.properties.path",
		EnvVar:   "FORGE_PROPERTIES_PATH",
		Optional: true,
	}

	// ProjectDir is the top-level project directory, found by walking up
	// from UserDir until a .forge directory appears.
	ProjectDir = Setting{
		Name:     "ProjectDir",
		Property: "forge.project.dir",
	}

	// DaemonStorage is where the daemon registry and logs live.
	DaemonStorage = Setting{
		Name:     "DaemonStorage",
		Property: "forge.daemon.storage",
		EnvVar:   "FORGE_DAEMON_STORAGE",
	}

	// KeepAlive is the period between daemon keep-alive messages.
	KeepAlive = Setting{
		Name:           "KeepAlive",
		Property:       "forge.keep.alive",
		Default:        "10s",
		HasDefault:     true,
		Discriminating: true,
	}

	// MaxLostKeepAlive is how many keep-alive messages may be missed
	// before the client gives up on the daemon.
	MaxLostKeepAlive = Setting{
		Name:       "MaxLostKeepAlive",
		Property:   "forge.max.lost.keep.alive",
		Default:    "3",
		HasDefault: true,
	}

	// MinThreads is the lower bound for the computed Threads default.
	MinThreads = Setting{
		Name:       "MinThreads",
		Property:   "forge.min.threads",
		Default:    "1",
		HasDefault: true,
	}

	// Threads is the build parallelism passed to the daemon. Its default
	// is computed from the processor count and MinThreads.
	Threads = Setting{
		Name:     "Threads",
		Property: "forge.threads",
	}

	// Builder selects the build scheduler implementation.
	Builder = Setting{
		Name:       "Builder",
		Property:   "forge.builder",
		Default:    "parallel",
		HasDefault: true,
	}

	// NoDaemon requests running the build in-process instead of
	// spawning a daemon.
	NoDaemon = Setting{
		Name:       "NoDaemon",
		Property:   "forge.no.daemon",
		EnvVar:     "FORGE_NO_DAEMON",
		Default:    "false",
		HasDefault: true,
	}

	// Debug runs the daemon with debugging enabled.
	Debug = Setting{
		Name:       "Debug",
		Property:   "forge.debug",
		Default:    "false",
		HasDefault: true,
	}

	// Serial forces a serial build, bypassing the parallel scheduler.
	Serial = Setting{
		Name:       "Serial",
		Property:   "forge.serial",
		Default:    "false",
		HasDefault: true,
	}

	// DaemonArgs are extra process arguments used when starting a daemon.
	DaemonArgs = Setting{
		Name:           "DaemonArgs",
		Property:       "forge.daemon.args",
		Discriminating: true,
		Optional:       true,
	}

	// PluginPath is the resolved list of extension plugins loaded into
	// the daemon, derived from the raw ext plugin path property.
	PluginPath = Setting{
		Name:           "PluginPath",
		Property:       "forge.plugin.path",
		Discriminating: true,
		Optional:       true,
	}

	// ExtensionsDiscriminator is the content hash over the extension
	// descriptor files, used to keep daemons with different extension
	// configurations apart.
	ExtensionsDiscriminator = Setting{
		Name:           "ExtensionsDiscriminator",
		Property:       "forge.extensions.discriminator",
		Discriminating: true,
	}

	// ExtensionsExclude lists extensions excluded from the daemon.
	ExtensionsExclude = Setting{
		Name:           "ExtensionsExclude",
		Property:       "forge.extensions.exclude",
		Discriminating: true,
	}

	// SocketFamily selects the daemon connection transport.
	SocketFamily = Setting{
		Name:           "SocketFamily",
		Property:       "forge.socket.family",
		Discriminating: true,
		Optional:       true,
	}

	// LogPurgePeriod is how long daemon logs are kept around.
	LogPurgePeriod = Setting{
		Name:       "LogPurgePeriod",
		Property:   "forge.log.purge.period",
		Default:    "24h",
		HasDefault: true,
	}

	// NoBuffering disables build output buffering in the client.
	NoBuffering = Setting{
		Name:       "NoBuffering",
		Property:   "forge.no.buffering",
		Default:    "false",
		HasDefault: true,
	}

	// RollingWindowSize is the number of output lines kept per project
	// in the rolling client display.
	RollingWindowSize = Setting{
		Name:       "RollingWindowSize",
		Property:   "forge.rolling.window.size",
		Default:    "0",
		HasDefault: true,
	}
)

// Standard returns a registry populated with the daemon's standard settings.
func Standard() *Registry {
	r := NewRegistry()
	for _, s := range []Setting{
		ForgeHome,
		ToolchainHome,
		UserDir,
		UserHome,
		PropertiesPath,
		ProjectDir,
		DaemonStorage,
		KeepAlive,
		MaxLostKeepAlive,
		MinThreads,
		Threads,
		Builder,
		NoDaemon,
		Debug,
		Serial,
		DaemonArgs,
		PluginPath,
		ExtensionsDiscriminator,
		ExtensionsExclude,
		SocketFamily,
		LogPurgePeriod,
		NoBuffering,
		RollingWindowSize,
	} {
		r.MustRegister(s)
	}
	return r
}
