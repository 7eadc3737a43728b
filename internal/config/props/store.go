package props

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrFileRead indicates a property file that exists but cannot be read
// or parsed. Unlike a missing file, this is fatal: treating a corrupt
// file as absent would silently mask misconfiguration.
var ErrFileRead = errors.New("cannot read property file")

// FileError wraps a failure to read or parse an existing property file.
type FileError struct {
	// Path is the file that failed.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("cannot read property file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error { return e.Err }

// Is implements error matching for FileError.
func (e *FileError) Is(target error) bool { return target == ErrFileRead }

// Store loads and memoizes parsed property files by path. Each path is
// read and interpolated at most once for the life of the store; concurrent
// first access computes the entry once and every caller observes the same
// result. A file that does not exist yields an empty mapping, not an
// error, since most layered property files are optional.
type Store struct {
	sys *SysProps
	env Environ

	mu      sync.Mutex
	entries map[string]*storeEntry
}

// storeEntry memoizes one parsed file. The sync.Once guarantees a single
// parse even when many goroutines race on first access.
type storeEntry struct {
	once  sync.Once
	props Properties
	err   error
}

// NewStore creates a store interpolating against the given process
// properties and environment snapshot.
func NewStore(sys *SysProps, env Environ) *Store {
	return &Store{
		sys:     sys,
		env:     env,
		entries: make(map[string]*storeEntry),
	}
}

// Get returns the interpolated mapping for the property file at path.
// The mapping for a given path is computed at most once per store.
func (s *Store) Get(path string) (Properties, error) {
	key := filepath.Clean(path)

	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		entry = &storeEntry{}
		s.entries[key] = entry
	}
	s.mu.Unlock()

	entry.once.Do(func() {
		entry.props, entry.err = s.load(key)
	})
	return entry.props, entry.err
}

// Loaded reports how many distinct paths the store has entries for.
func (s *Store) Loaded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// load reads and parses one file, then interpolates its values against the
// combined process-property and environment table.
func (s *Store) load(path string) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Properties{}, nil
		}
		return nil, &FileError{Path: path, Err: err}
	}

	var result Properties
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		result, err = parseTOML(data)
		if err != nil {
			return nil, &FileError{Path: path, Err: err}
		}
	} else {
		result = parseProperties(data)
	}

	interpolate(result, combinedLookup(s.sys, s.env))
	return result, nil
}
