package store

import "sync"

// CompactPanel identifies which panel is active when the terminal is too
// narrow to show panels side by side.
type CompactPanel int

const (
	CompactPanelSidebar CompactPanel = iota
	CompactPanelMain
	CompactPanelRight
)

func (p CompactPanel) String() string {
	switch p {
	case CompactPanelMain:
		return "main"
	case CompactPanelRight:
		return "right"
	default:
		return "sidebar"
	}
}

// CompactWidthThreshold is the terminal width below which the layout
// collapses to a single active panel.
const CompactWidthThreshold = 100

// CompactLayoutStore tracks whether the layout is collapsed and which panel
// is active while collapsed.
type CompactLayoutStore struct {
	notifier

	stateMu sync.RWMutex
	compact bool
	active  CompactPanel
}

// NewCompactLayoutStore creates a store in regular (non-compact) layout.
func NewCompactLayoutStore() *CompactLayoutStore {
	return &CompactLayoutStore{}
}

// IsCompact reports whether the layout is collapsed.
func (s *CompactLayoutStore) IsCompact() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.compact
}

// ActivePanel returns the panel shown while collapsed.
func (s *CompactLayoutStore) ActivePanel() CompactPanel {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.active
}

// SetActivePanel switches the active compact panel.
func (s *CompactLayoutStore) SetActivePanel(p CompactPanel) {
	s.stateMu.Lock()
	s.active = p
	s.stateMu.Unlock()
	s.notify()
}

// UpdateTerminalWidth recomputes the compact flag from the terminal width.
func (s *CompactLayoutStore) UpdateTerminalWidth(width int) {
	s.stateMu.Lock()
	compact := width < CompactWidthThreshold
	changed := compact != s.compact
	s.compact = compact
	s.stateMu.Unlock()
	if changed {
		s.notify()
	}
}
