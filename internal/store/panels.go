package store

import "sync"

// RightPanelMode selects what the right main panel shows.
type RightPanelMode int

const (
	RightPanelNone RightPanelMode = iota
	RightPanelChanges
	RightPanelLogs
	RightPanelPreview
)

func (m RightPanelMode) String() string {
	switch m {
	case RightPanelChanges:
		return "changes"
	case RightPanelLogs:
		return "logs"
	case RightPanelPreview:
		return "preview"
	default:
		return "none"
	}
}

// PanelFlags holds the three visibility toggles for one workspace.
type PanelFlags struct {
	Sidebar      bool
	RightSidebar bool
	BottomBar    bool
}

// defaultPanelFlags is used for workspaces with no stored preference.
var defaultPanelFlags = PanelFlags{Sidebar: true, RightSidebar: false, BottomBar: true}

// PanelVisibilityStore tracks per-workspace panel visibility flags and the
// global right-main-panel mode.
type PanelVisibilityStore struct {
	notifier

	stateMu   sync.RWMutex
	flags     map[string]PanelFlags
	rightMode RightPanelMode
}

// NewPanelVisibilityStore creates an empty store.
func NewPanelVisibilityStore() *PanelVisibilityStore {
	return &PanelVisibilityStore{flags: make(map[string]PanelFlags)}
}

// Flags returns the visibility flags for a workspace, falling back to the
// defaults when none are stored.
func (s *PanelVisibilityStore) Flags(workspaceID string) PanelFlags {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if f, ok := s.flags[workspaceID]; ok {
		return f
	}
	return defaultPanelFlags
}

// SetFlags replaces the visibility flags for a workspace.
func (s *PanelVisibilityStore) SetFlags(workspaceID string, f PanelFlags) {
	s.stateMu.Lock()
	s.flags[workspaceID] = f
	s.stateMu.Unlock()
	s.notify()
}

// ToggleSidebar flips the sidebar flag for a workspace.
func (s *PanelVisibilityStore) ToggleSidebar(workspaceID string) {
	s.toggle(workspaceID, func(f *PanelFlags) { f.Sidebar = !f.Sidebar })
}

// ToggleRightSidebar flips the right-sidebar flag for a workspace.
func (s *PanelVisibilityStore) ToggleRightSidebar(workspaceID string) {
	s.toggle(workspaceID, func(f *PanelFlags) { f.RightSidebar = !f.RightSidebar })
}

// ToggleBottomBar flips the bottom-bar flag for a workspace.
func (s *PanelVisibilityStore) ToggleBottomBar(workspaceID string) {
	s.toggle(workspaceID, func(f *PanelFlags) { f.BottomBar = !f.BottomBar })
}

func (s *PanelVisibilityStore) toggle(workspaceID string, mutate func(*PanelFlags)) {
	s.stateMu.Lock()
	f, ok := s.flags[workspaceID]
	if !ok {
		f = defaultPanelFlags
	}
	mutate(&f)
	s.flags[workspaceID] = f
	s.stateMu.Unlock()
	s.notify()
}

// RightMode returns the current right-main-panel mode.
func (s *PanelVisibilityStore) RightMode() RightPanelMode {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.rightMode
}

// SetRightMode sets the right-main-panel mode. Setting the mode that is
// already active collapses the panel back to none.
func (s *PanelVisibilityStore) SetRightMode(mode RightPanelMode) {
	s.stateMu.Lock()
	s.rightMode = mode
	s.stateMu.Unlock()
	s.notify()
}

// ToggleRightMode sets mode, or clears it when mode is already active.
func (s *PanelVisibilityStore) ToggleRightMode(mode RightPanelMode) {
	s.stateMu.Lock()
	if s.rightMode == mode {
		s.rightMode = RightPanelNone
	} else {
		s.rightMode = mode
	}
	s.stateMu.Unlock()
	s.notify()
}
