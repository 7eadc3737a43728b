package source

import (
	"strconv"
	"strings"
	"time"
)

// Typed accessors coerce the resolved raw string. They are pure given the
// resolved value and never re-enter the chain.

// AsString resolves and returns the raw value, or "" when absent.
func (c Chain) AsString() (string, error) {
	v, _, err := c.Resolve()
	return v, err
}

// AsOptional resolves and reports presence explicitly instead of using a
// sentinel value.
func (c Chain) AsOptional() (string, bool, error) {
	return c.Resolve()
}

// AsBool resolves the chain as a boolean. An explicitly-set-but-empty value
// means "on", so "" is true. Otherwise the value parses case-insensitively
// as a boolean literal; absence and unparseable text are false.
func (c Chain) AsBool() (bool, error) {
	v, ok, err := c.Resolve()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return v == "" || strings.EqualFold(v, "true"), nil
}

// AsInt resolves the chain as a strict decimal integer. An absent or
// malformed value is a ParseError, never a silent default.
func (c Chain) AsInt() (int, error) {
	v, ok, err := c.Resolve()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &ParseError{Setting: c.setting.Name, Kind: "integer", Value: "<unset>"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Setting: c.setting.Name, Kind: "integer", Value: v, Err: err}
	}
	return n, nil
}

// AsDuration resolves the chain as a duration literal ("10s", "5m").
func (c Chain) AsDuration() (time.Duration, error) {
	v, ok, err := c.Resolve()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &ParseError{Setting: c.setting.Name, Kind: "duration", Value: "<unset>"}
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ParseError{Setting: c.setting.Name, Kind: "duration", Value: v, Err: err}
	}
	return d, nil
}

// AsPath resolves the chain as a filesystem path, rewritten through the
// chain's path converter when one is attached. Absence yields "".
func (c Chain) AsPath() (string, error) {
	v, ok, err := c.Resolve()
	if err != nil || !ok {
		return "", err
	}
	if c.pathConv != nil {
		v = c.pathConv(v)
	}
	return v, nil
}
