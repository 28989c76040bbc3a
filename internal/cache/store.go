// Package cache holds decompiled sources keyed by entry name for the
// lifetime of one loaded archive.
//
// The store is a passive sink: a decompiler pushes results in, navigation
// reads them out. Each Clear starts a new generation; writers bound to an
// older generation are silently discarded, which keeps results from a
// cancelled run from leaking into the next archive.
package cache

import (
	"sort"
	"sync"

	"class-browser/internal/decompiler"
	"class-browser/internal/metrics"
)

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	gen     uint64
	entries map[string]string
}

// New returns an empty store at generation 1.
func New() *Store {
	return &Store{gen: 1, entries: make(map[string]string)}
}

// Record inserts or overwrites content for name in the current generation.
func (s *Store) Record(name, content string) {
	s.mu.Lock()
	s.entries[name] = content
	n := len(s.entries)
	s.mu.Unlock()
	metrics.SetCacheEntries(n)
}

// RecordAt records content only when gen is still the current generation.
// It reports whether the write was kept.
func (s *Store) RecordAt(gen uint64, name, content string) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		metrics.RecordStaleWrite()
		return false
	}
	s.entries[name] = content
	n := len(s.entries)
	s.mu.Unlock()
	metrics.SetCacheEntries(n)
	return true
}

// Lookup returns the content stored for name; ok is false when nothing
// has been recorded (yet).
func (s *Store) Lookup(name string) (content string, ok bool) {
	s.mu.RLock()
	content, ok = s.entries[name]
	s.mu.RUnlock()
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return content, ok
}

// Clear drops every entry and starts a new generation, returned to the caller.
func (s *Store) Clear() uint64 {
	s.mu.Lock()
	s.entries = make(map[string]string)
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	metrics.SetCacheEntries(0)
	return gen
}

// Generation returns the current generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Names returns the stored entry names in byte order.
func (s *Store) Names() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.entries))
	for name := range s.entries {
		out = append(out, name)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Writer returns a decompiler sink bound to gen. Writes after the store
// moves past gen are dropped.
func (s *Store) Writer(gen uint64) *Writer {
	return &Writer{store: s, gen: gen}
}

// Writer records decompiled sources into one store generation.
type Writer struct {
	store *Store
	gen   uint64
}

var _ decompiler.Sink = (*Writer)(nil)

func (w *Writer) ClassDecompiled(entryName, source string) {
	w.store.RecordAt(w.gen, entryName, source)
}
