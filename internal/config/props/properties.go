package props

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Properties is the flat key→value mapping loaded from one property file.
type Properties map[string]string

// Get returns the value for key and whether it is present.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// parseProperties parses java-style key=value text: one entry per line,
// '#' or '!' comment lines, '=' or ':' separators, backslash line
// continuations. Keys and values are trimmed of surrounding whitespace.
func parseProperties(data []byte) Properties {
	result := make(Properties)

	lines := strings.Split(string(data), "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		// Join continuation lines
		for strings.HasSuffix(line, "\\") && !strings.HasSuffix(line, "\\\\") && i+1 < len(lines) {
			i++
			next := strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))
			line = strings.TrimSuffix(line, "\\") + next
		}

		key, value := splitEntry(line)
		if key == "" {
			continue
		}
		result[key] = value
	}

	return result
}

// splitEntry splits a property line at the first unescaped '=' or ':'.
// A line without a separator yields the whole line as key and an empty value.
func splitEntry(line string) (string, string) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++ // Skip escaped character
		case '=', ':':
			key := strings.TrimSpace(line[:i])
			value := strings.TrimSpace(line[i+1:])
			return unescapeKey(key), value
		}
	}
	return unescapeKey(strings.TrimSpace(line)), ""
}

// unescapeKey removes backslash escapes from a property key.
func unescapeKey(key string) string {
	if !strings.ContainsRune(key, '\\') {
		return key
	}
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		if key[i] == '\\' && i+1 < len(key) {
			i++
		}
		b.WriteByte(key[i])
	}
	return b.String()
}

// parseTOML parses a TOML document and flattens nested tables into
// dotted property keys, so `[daemon] storage = "x"` becomes
// "daemon.storage" = "x". Scalars are rendered in their literal form.
func parseTOML(data []byte) (Properties, error) {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	result := make(Properties)
	flattenTable("", tree, result)
	return result, nil
}

// flattenTable walks a decoded TOML table depth-first, joining keys with dots.
func flattenTable(prefix string, table map[string]any, out Properties) {
	for key, val := range table {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := val.(type) {
		case map[string]any:
			flattenTable(full, v, out)
		case []any:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = scalarString(item)
			}
			out[full] = strings.Join(parts, ",")
		default:
			out[full] = scalarString(v)
		}
	}
}

// scalarString renders a decoded TOML scalar as its property-value text.
func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
