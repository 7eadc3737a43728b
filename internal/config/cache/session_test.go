package cache

import (
	"sync"
	"testing"
)

func TestSession_PutGet(t *testing.T) {
	s := NewSession()

	if _, ok := s.Get("forge.test"); ok {
		t.Error("Get() on empty session reported a value")
	}

	s.Put("forge.test", "v")
	v, ok := s.Get("forge.test")
	if !ok || v != "v" {
		t.Errorf("Get() = %q, %v, want %q", v, ok, "v")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSession_EmptyValueIsPresent(t *testing.T) {
	s := NewSession()
	s.Put("forge.test", "")

	v, ok := s.Get("forge.test")
	if !ok {
		t.Error("memoized empty value reported as absent")
	}
	if v != "" {
		t.Errorf("Get() = %q, want empty", v)
	}
}

func TestSession_SnapshotIsCopy(t *testing.T) {
	s := NewSession()
	s.Put("a", "1")

	snap := s.Snapshot()
	snap["a"] = "mutated"

	if v, _ := s.Get("a"); v != "1" {
		t.Error("mutating a snapshot changed the session")
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Put("forge.test", "v")
			if v, ok := s.Get("forge.test"); ok && v != "v" {
				t.Errorf("Get() = %q under concurrency", v)
			}
		}()
	}
	wg.Wait()

	if v, _ := s.Get("forge.test"); v != "v" {
		t.Errorf("Get() = %q after concurrent writes, want %q", v, "v")
	}
}
