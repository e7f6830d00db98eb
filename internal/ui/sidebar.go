package ui

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

// Sidebar lists workspaces ordered by the preferred sort, with archived
// entries hidden unless the preference says otherwise.
type Sidebar struct {
	styles Styles
	prefs  *store.PreferencesStore

	width  int
	height int
	cursor int
}

// NewSidebar creates the sidebar bound to the preferences store.
func NewSidebar(styles Styles, prefs *store.PreferencesStore) *Sidebar {
	return &Sidebar{styles: styles, prefs: prefs}
}

// SetSize sets the render box.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Visible applies the archived filter and sort preference. Activity order
// preserves the caller's ordering, which tracks most recent use.
func (s *Sidebar) Visible(all []workspace.Workspace) []workspace.Workspace {
	out := make([]workspace.Workspace, 0, len(all))
	showArchived := s.prefs.ShowArchived()
	for _, w := range all {
		if w.Archived && !showArchived {
			continue
		}
		out = append(out, w)
	}
	switch s.prefs.Sort() {
	case store.SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case store.SortByCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// MoveCursor shifts the highlighted row, clamped to the list.
func (s *Sidebar) MoveCursor(delta, listLen int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= listLen {
		s.cursor = listLen - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Cursor returns the highlighted row index.
func (s *Sidebar) Cursor() int { return s.cursor }

// SetCursorTo moves the cursor to the row holding workspaceID.
func (s *Sidebar) SetCursorTo(list []workspace.Workspace, workspaceID string) {
	for i, w := range list {
		if w.ID == workspaceID {
			s.cursor = i
			return
		}
	}
}

// View renders the list. selectedID marks the routed workspace, runningIDs
// the ones with a live attempt or dev server.
func (s *Sidebar) View(list []workspace.Workspace, selectedID string, runningIDs map[string]bool) string {
	if len(list) == 0 {
		return s.styles.Help.Render("No workspaces")
	}
	// Scroll the window so the cursor row stays visible.
	start := 0
	if s.height > 0 && s.cursor >= s.height {
		start = s.cursor - s.height + 1
	}
	end := len(list)
	if s.height > 0 && start+s.height < end {
		end = start + s.height
	}
	var b strings.Builder
	for i := start; i < end; i++ {
		w := list[i]
		name := runewidth.Truncate(w.Name, s.width-4, "…")
		dot := "  "
		if runningIDs[w.ID] {
			dot = s.styles.SidebarRunning.Render("● ")
		}
		line := dot + name
		switch {
		case w.ID == selectedID:
			line = s.styles.SidebarSelected.Render(line)
		case w.Archived:
			line = s.styles.SidebarArchived.Render(line)
		case i == s.cursor:
			line = s.styles.Title.Render(line)
		default:
			line = s.styles.SidebarItem.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
