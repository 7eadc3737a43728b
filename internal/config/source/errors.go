package source

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by resolution and coercion.
var (
	// ErrUnresolved indicates no source yielded a value for a required setting.
	ErrUnresolved = errors.New("setting could not be resolved")

	// ErrParse indicates a resolved raw value failed to parse as the
	// requested type.
	ErrParse = errors.New("setting value cannot be parsed")
)

// ResolutionError is raised when a required setting's chain is exhausted.
// It carries the ordered list of attempted source descriptions so the
// message names every place a value was looked for, highest priority first.
type ResolutionError struct {
	// Setting is the logical name of the unresolved setting.
	Setting string
	// Sources are the consulted source descriptions in priority order.
	Sources []string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not get value for %s from any of the following sources: %s",
		e.Setting, strings.Join(e.Sources, ", "))
}

// Is implements error matching for ResolutionError.
func (e *ResolutionError) Is(target error) bool { return target == ErrUnresolved }

// ParseError is raised when a resolved value is not valid for the requested
// type. The value was explicitly configured somewhere, so silently falling
// back would hide user error.
type ParseError struct {
	// Setting is the logical name of the setting.
	Setting string
	// Kind is the requested type ("integer", "duration").
	Kind string
	// Value is the offending raw value.
	Value string
	// Err is the underlying parse error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("setting %s: invalid %s %q: %v", e.Setting, e.Kind, e.Value, e.Err)
	}
	return fmt.Sprintf("setting %s: invalid %s %q", e.Setting, e.Kind, e.Value)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is implements error matching for ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
