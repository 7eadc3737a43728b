package props

import (
	"regexp"
	"strings"
)

// placeholderRe matches ${name} placeholders in property values.
var placeholderRe = regexp.MustCompile(`\$\{([^${}]+)\}`)

// maxInterpolationDepth bounds nested substitution so that values whose
// replacements themselves contain placeholders terminate.
const maxInterpolationDepth = 10

// interpolate substitutes ${name} references in every value of p using the
// combined lookup table. References that the table cannot resolve are left
// verbatim; a bad reference in one value never affects unrelated keys.
func interpolate(p Properties, lookup func(string) (string, bool)) {
	for key, value := range p {
		p[key] = expand(value, lookup)
	}
}

// expand resolves placeholders in a single value, re-expanding the result
// until it reaches a fixed point or the depth bound.
func expand(value string, lookup func(string) (string, bool)) string {
	for depth := 0; depth < maxInterpolationDepth; depth++ {
		if !strings.Contains(value, "${") {
			return value
		}
		replaced := false
		next := placeholderRe.ReplaceAllStringFunc(value, func(match string) string {
			name := match[2 : len(match)-1]
			if v, ok := lookup(name); ok {
				replaced = true
				return v
			}
			return match // Unresolvable: keep verbatim
		})
		if !replaced {
			return next
		}
		value = next
	}
	return value
}

// combinedLookup builds the interpolation table from the process property
// table and the environment snapshot, the latter exposed under EnvPrefix.
func combinedLookup(sys *SysProps, env Environ) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if rest, ok := strings.CutPrefix(name, EnvPrefix); ok {
			if v, found := env.Get(rest); found {
				return v, true
			}
			return "", false
		}
		return sys.Get(name)
	}
}
