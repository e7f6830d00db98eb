package store

import "sync"

// WorkspaceSort orders the workspace sidebar.
type WorkspaceSort int

const (
	SortByActivity WorkspaceSort = iota
	SortByName
	SortByCreated
)

func (s WorkspaceSort) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortByCreated:
		return "created"
	default:
		return "activity"
	}
}

// PreferencesStore holds user view preferences: the diff expansion map,
// sort/filter choices, and pane sizes. It is backed by the config file;
// the app layer persists a snapshot on change.
type PreferencesStore struct {
	notifier

	stateMu       sync.RWMutex
	expanded      map[string]bool // explicit per-path overrides; absent = default
	sort          WorkspaceSort
	showArchived  bool
	paneSizes     map[string]int // panel name -> width/height in cells
	sectionOpen   map[string]bool
}

// NewPreferencesStore creates a store with empty preference maps.
func NewPreferencesStore() *PreferencesStore {
	return &PreferencesStore{
		expanded:    make(map[string]bool),
		paneSizes:   make(map[string]int),
		sectionOpen: make(map[string]bool),
	}
}

// Expansion returns the explicit expansion override for a diff path.
// ok is false when the path has no override (default-expanded).
func (s *PreferencesStore) Expansion(path string) (expanded, ok bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	expanded, ok = s.expanded[path]
	return expanded, ok
}

// SetExpansion records an explicit expansion override for a diff path.
func (s *PreferencesStore) SetExpansion(path string, expanded bool) {
	s.stateMu.Lock()
	s.expanded[path] = expanded
	s.stateMu.Unlock()
	s.notify()
}

// ClearExpansion removes the override for a path, restoring the default.
func (s *PreferencesStore) ClearExpansion(path string) {
	s.stateMu.Lock()
	delete(s.expanded, path)
	s.stateMu.Unlock()
	s.notify()
}

// SetAllExpanded sets an explicit override for every given path.
func (s *PreferencesStore) SetAllExpanded(paths []string, expanded bool) {
	s.stateMu.Lock()
	for _, p := range paths {
		s.expanded[p] = expanded
	}
	s.stateMu.Unlock()
	s.notify()
}

// ExpansionSnapshot returns a copy of the full override map.
func (s *PreferencesStore) ExpansionSnapshot() map[string]bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	out := make(map[string]bool, len(s.expanded))
	for k, v := range s.expanded {
		out[k] = v
	}
	return out
}

// Sort returns the workspace sort order.
func (s *PreferencesStore) Sort() WorkspaceSort {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.sort
}

// SetSort sets the workspace sort order.
func (s *PreferencesStore) SetSort(sort WorkspaceSort) {
	s.stateMu.Lock()
	s.sort = sort
	s.stateMu.Unlock()
	s.notify()
}

// ShowArchived reports whether archived workspaces appear in the sidebar.
func (s *PreferencesStore) ShowArchived() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.showArchived
}

// SetShowArchived toggles archived workspace visibility.
func (s *PreferencesStore) SetShowArchived(show bool) {
	s.stateMu.Lock()
	s.showArchived = show
	s.stateMu.Unlock()
	s.notify()
}

// PaneSize returns the persisted size for a named pane, or fallback when unset.
func (s *PreferencesStore) PaneSize(name string, fallback int) int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if v, ok := s.paneSizes[name]; ok {
		return v
	}
	return fallback
}

// SetPaneSize persists the size for a named pane.
func (s *PreferencesStore) SetPaneSize(name string, size int) {
	s.stateMu.Lock()
	s.paneSizes[name] = size
	s.stateMu.Unlock()
	s.notify()
}

// PaneSizesSnapshot returns a copy of all persisted pane sizes.
func (s *PreferencesStore) PaneSizesSnapshot() map[string]int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	out := make(map[string]int, len(s.paneSizes))
	for k, v := range s.paneSizes {
		out[k] = v
	}
	return out
}

// SectionOpen reports whether a named sidebar section is expanded.
// Sections default to open.
func (s *PreferencesStore) SectionOpen(name string) bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if v, ok := s.sectionOpen[name]; ok {
		return v
	}
	return true
}

// SetSectionOpen records whether a named sidebar section is expanded.
func (s *PreferencesStore) SetSectionOpen(name string, open bool) {
	s.stateMu.Lock()
	s.sectionOpen[name] = open
	s.stateMu.Unlock()
	s.notify()
}

// Restore replaces all preference state at once. Used when loading the
// persisted config at startup; fires a single notification.
func (s *PreferencesStore) Restore(expanded map[string]bool, sort WorkspaceSort, showArchived bool, paneSizes map[string]int, sectionOpen map[string]bool) {
	s.stateMu.Lock()
	s.expanded = make(map[string]bool, len(expanded))
	for k, v := range expanded {
		s.expanded[k] = v
	}
	s.sort = sort
	s.showArchived = showArchived
	s.paneSizes = make(map[string]int, len(paneSizes))
	for k, v := range paneSizes {
		s.paneSizes[k] = v
	}
	s.sectionOpen = make(map[string]bool, len(sectionOpen))
	for k, v := range sectionOpen {
		s.sectionOpen[k] = v
	}
	s.stateMu.Unlock()
	s.notify()
}
