package store

import "sync"

// DiffViewMode selects how diffs render in the changes panel.
type DiffViewMode int

const (
	DiffViewUnified DiffViewMode = iota
	DiffViewSplit
)

func (m DiffViewMode) String() string {
	if m == DiffViewSplit {
		return "split"
	}
	return "unified"
}

// DiffViewStore tracks the set of changed file paths currently loaded in the
// changes panel and the rendering mode. Per-path expansion overrides live in
// the PreferencesStore so they survive reloads.
type DiffViewStore struct {
	notifier

	stateMu sync.RWMutex
	paths   []string
	mode    DiffViewMode
}

// NewDiffViewStore creates an empty store in unified mode.
func NewDiffViewStore() *DiffViewStore {
	return &DiffViewStore{}
}

// Paths returns a copy of the loaded diff paths.
func (s *DiffViewStore) Paths() []string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// SetPaths replaces the loaded diff paths.
func (s *DiffViewStore) SetPaths(paths []string) {
	s.stateMu.Lock()
	s.paths = make([]string, len(paths))
	copy(s.paths, paths)
	s.stateMu.Unlock()
	s.notify()
}

// Mode returns the current rendering mode.
func (s *DiffViewStore) Mode() DiffViewMode {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.mode
}

// SetMode sets the rendering mode.
func (s *DiffViewStore) SetMode(mode DiffViewMode) {
	s.stateMu.Lock()
	s.mode = mode
	s.stateMu.Unlock()
	s.notify()
}

// ToggleMode switches between unified and split rendering.
func (s *DiffViewStore) ToggleMode() {
	s.stateMu.Lock()
	if s.mode == DiffViewUnified {
		s.mode = DiffViewSplit
	} else {
		s.mode = DiffViewUnified
	}
	s.stateMu.Unlock()
	s.notify()
}
