package params

import (
	"path/filepath"
	"strings"
)

// ParsePluginPath splits a path-separator-delimited plugin list and
// resolves each segment against base. Order is preserved and duplicates
// are kept: the daemon loads plugins exactly as configured.
func ParsePluginPath(raw, base string) []string {
	if raw == "" {
		return nil
	}
	segments := strings.Split(raw, string(filepath.ListSeparator))
	resolved := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		path := segment
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		resolved = append(resolved, filepath.Clean(path))
	}
	return resolved
}
