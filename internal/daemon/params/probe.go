package params

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dshills/forged/internal/config/catalog"
)

// toolchainExecutable is the executable searched on PATH when no
// configured source names the toolchain installation.
const toolchainExecutable = "go"

// homeFromExecutable locates the installation directory relative to the
// running executable: bin/forged inside an installation whose conf
// directory carries the installation properties file.
func (p *Params) homeFromExecutable() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", false
	}
	home := filepath.Dir(filepath.Dir(exe))
	if _, err := os.Stat(filepath.Join(home, filepath.FromSlash(installPropertiesFile))); err != nil {
		return "", false
	}
	return home, true
}

// toolchainFromPath locates the toolchain installation by searching PATH
// for the toolchain executable and taking the directory above its bin dir.
func (p *Params) toolchainFromPath() (string, bool) {
	exe, err := exec.LookPath(toolchainExecutable)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		resolved = exe
	}
	return filepath.Dir(filepath.Dir(resolved)), true
}

// probeToolchain runs the toolchain probe and caches a successful
// discovery back into the process property table, so the relatively
// expensive search runs at most once per process.
func (p *Params) probeToolchain() (string, bool, error) {
	slog.Warn("falling back to locating the toolchain via the executable on PATH; "+
		"set the toolchain home to avoid this lookup",
		"property", catalog.ToolchainHome.Property,
		"env", catalog.ToolchainHome.EnvVar)
	home, ok := p.toolchainProbe()
	if !ok {
		return "", false, nil
	}
	p.sys.Set(catalog.ToolchainHome.Property, home)
	return home, true, nil
}
