package marker

import (
	"sync"
)

// Set is a named, independently toggleable collection of markers keyed
// by a caller-chosen id. The marker map is safe for concurrent use.
type Set struct {
	Label         string
	Toggleable    bool
	DefaultHidden bool
	Sorting       int

	mu      sync.RWMutex
	markers map[string]Marker
}

// NewSet creates a toggleable, visible-by-default marker set.
func NewSet(label string) *Set {
	return &Set{
		Label:      label,
		Toggleable: true,
		markers:    make(map[string]Marker),
	}
}

// Get returns the marker stored under key.
func (s *Set) Get(key string) (Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markers[key]
	return m, ok
}

// Put stores a marker under key, replacing any previous marker with the
// same key.
func (s *Set) Put(key string, m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markers == nil {
		s.markers = make(map[string]Marker)
	}
	s.markers[key] = m
}

// Remove deletes the marker stored under key and reports whether one
// was present.
func (s *Set) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.markers[key]
	delete(s.markers, key)
	return ok
}

// Len returns the number of markers in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// Markers returns a snapshot copy of the set's marker map.
func (s *Set) Markers() map[string]Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Marker, len(s.markers))
	for k, v := range s.markers {
		out[k] = v
	}
	return out
}

// Equal reports whether both sets have the same label, flags and
// markers. Marker comparison is structural, per Equal.
func (s *Set) Equal(o *Set) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	if s.Label != o.Label ||
		s.Toggleable != o.Toggleable ||
		s.DefaultHidden != o.DefaultHidden ||
		s.Sorting != o.Sorting {
		return false
	}
	a, b := s.Markers(), o.Markers()
	if len(a) != len(b) {
		return false
	}
	for k, ma := range a {
		mb, ok := b[k]
		if !ok || !Equal(ma, mb) {
			return false
		}
	}
	return true
}
