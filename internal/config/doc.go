// Package config is the umbrella for the forged configuration system.
//
// The config tree implements layered, lazy resolution of daemon settings:
// each setting is bound to a priority-ordered chain of value sources, the
// chain is walked only when the setting is actually needed, and the first
// source with a value wins.
//
// # Architecture
//
// Sources are consulted in priority order, higher entries overriding lower:
//
//	┌─────────────────────────────────┐
//	│  7. Explicit Overrides          │  ← Highest priority
//	├─────────────────────────────────┤
//	│  6. Process Properties          │
//	├─────────────────────────────────┤
//	│  5. Supplied Properties File    │  ← forge.properties.path
//	├─────────────────────────────────┤
//	│  4. Project Properties          │  ← .forge/forged.properties
//	├─────────────────────────────────┤
//	│  3. User Properties             │  ← ~/.forge/forged.properties
//	├─────────────────────────────────┤
//	│  2. Installation Properties     │  ← $FORGE_HOME/conf/forged.properties
//	├─────────────────────────────────┤
//	│  1. Environment / Defaults      │  ← Lowest priority
//	└─────────────────────────────────┘
//
// # Sub-packages
//
//   - catalog: Setting definitions (property keys, env aliases, defaults,
//     daemon-compatibility flags)
//   - source: Value sources, the resolution chain, and typed coercion
//   - props: Property file parsing (java-style and TOML), placeholder
//     interpolation, the memoizing file store, and the process property table
//   - cache: The per-session value cache
//
// # Basic Usage
//
// Assemble a chain for a setting and coerce the result:
//
//	c := source.NewChain(&catalog.KeepAlive).
//	    WithSystemProperty(sys).
//	    WithPropertyFile(store, path).
//	    WithEnvVariable(env).
//	    WithDefault().
//	    WithFail().
//	    WithCache(session)
//
//	keepAlive, err := c.AsDuration()
//
// Sources below the first hit are never evaluated, so expensive lookups
// (file reads, probes) only run when everything above them came up empty.
//
// # Error Handling
//
// Resolution and coercion distinguish three failure classes:
//
//   - source.ErrUnresolved: a required setting's chain was exhausted; the
//     error enumerates every consulted source
//   - source.ErrParse: a resolved value is not valid for the requested type
//   - props.ErrFileRead: a property file exists but cannot be read or parsed
package config
