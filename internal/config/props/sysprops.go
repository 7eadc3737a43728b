package props

import (
	"maps"
	"sync"
)

// SysProps is the mutable process-wide property table. The resolution engine
// reads from it; the host process may also write to it, and the toolchain
// discovery fallback caches its result here so the probe runs at most once.
type SysProps struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewSysProps creates a property table seeded with the given entries.
func NewSysProps(seed map[string]string) *SysProps {
	m := make(map[string]string, len(seed))
	maps.Copy(m, seed)
	return &SysProps{m: m}
}

// Get returns the property value and whether it is set.
func (p *SysProps) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[key]
	return v, ok
}

// Set stores a property value.
func (p *SysProps) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[key] = value
}

// Snapshot returns a copy of the current table.
func (p *SysProps) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.m)
}
