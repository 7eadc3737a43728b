// Package main is the forged configuration inspection tool. It resolves
// the effective daemon parameters exactly as the client would and prints
// them, which makes precedence questions answerable without starting a
// daemon.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/forged/internal/config/catalog"
	"github.com/dshills/forged/internal/config/props"
	"github.com/dshills/forged/internal/daemon/params"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "forged",
		Usage:   "inspect the effective forged daemon configuration",
		Version: version + " (" + commit + ")",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:    "directory",
				Aliases: []string{"C"},
				Usage:   "resolve as if invoked from `DIR`",
			},
			&cli.StringSliceFlag{
				Name:    "define",
				Aliases: []string{"D"},
				Usage:   "explicit `key=value` property override",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.String("log-level"))
		},
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "resolve one setting by name or property key",
				ArgsUsage: "<setting>",
				Action:    runResolve,
			},
			{
				Name:   "dump",
				Usage:  "print every resolvable setting as YAML",
				Action: runDump,
			},
			{
				Name:   "discriminator",
				Usage:  "print the extension descriptor digest",
				Action: runDiscriminator,
			},
			{
				Name:   "opts",
				Usage:  "print the daemon compatibility options",
				Action: runOpts,
			},
		},
	}
}

// setupLogging installs a text slog handler at the requested level.
func setupLogging(level string) error {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// newParams builds the daemon parameters view for the invocation,
// seeding the process properties with the working directory and home.
func newParams(c *cli.Context) (*params.Params, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	sys := props.NewSysProps(map[string]string{
		catalog.UserDir.Property:  wd,
		catalog.UserHome.Property: home,
	})

	overrides := make(map[string]string)
	for _, def := range c.StringSlice("define") {
		key, value, ok := cutDefine(def)
		if !ok {
			return nil, fmt.Errorf("invalid -D override %q, want key=value", def)
		}
		overrides[key] = value
	}

	p := params.New(params.Options{
		SysProps:  sys,
		Overrides: overrides,
	})
	if dir := c.String("directory"); dir != "" {
		p = p.Cd(dir)
	}
	return p, nil
}

// cutDefine splits a -D argument into key and value.
func cutDefine(def string) (string, string, bool) {
	for i := 0; i < len(def); i++ {
		if def[i] == '=' {
			return def[:i], def[i+1:], i > 0
		}
	}
	return "", "", false
}

func runResolve(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one setting name")
	}
	p, err := newParams(c)
	if err != nil {
		return err
	}

	setting := p.Registry().Lookup(c.Args().First())
	if setting == nil {
		return fmt.Errorf("unknown setting %q", c.Args().First())
	}

	value, ok, err := p.Value(setting)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s is not set\n", setting.Name)
		return nil
	}
	fmt.Println(value)
	return nil
}

func runDump(c *cli.Context) error {
	p, err := newParams(c)
	if err != nil {
		return err
	}

	effective := make(map[string]string)
	for _, setting := range p.Registry().All() {
		value, ok, err := p.Value(setting)
		if err != nil {
			slog.Debug("skipping unresolvable setting", "setting", setting.Name, "error", err)
			continue
		}
		if ok {
			effective[setting.Property] = value
		}
	}

	out, err := yaml.Marshal(effective)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	return nil
}

func runDiscriminator(c *cli.Context) error {
	p, err := newParams(c)
	if err != nil {
		return err
	}
	digest, err := p.Discriminator()
	if err != nil {
		return err
	}
	fmt.Println(digest)
	return nil
}

func runOpts(c *cli.Context) error {
	p, err := newParams(c)
	if err != nil {
		return err
	}
	opts, err := p.DaemonOpts()
	if err != nil {
		return err
	}
	for _, opt := range opts {
		fmt.Println(opt)
	}
	return nil
}
