package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quilthq/quilt/internal/action"
	"github.com/quilthq/quilt/internal/store"
)

const (
	defaultSidebarWidth = 28
	defaultRightWidth   = 44
	bottomBarHeight     = 10
)

// layout pushes the current terminal size into the components.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	bodyHeight := m.height - 2 // navbar + footer

	sidebarWidth := m.prefs.PaneSize("sidebar", defaultSidebarWidth)
	rightWidth := m.prefs.PaneSize("right", defaultRightWidth)
	mainWidth := m.width - sidebarWidth - rightWidth
	if m.compact.IsCompact() {
		sidebarWidth, rightWidth, mainWidth = m.width, m.width, m.width
	}

	mainHeight := bodyHeight
	if m.panels.Flags(m.currentWorkspaceID()).BottomBar {
		mainHeight -= bottomBarHeight
	}

	m.navbar.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.sidebar.SetSize(sidebarWidth, bodyHeight)
	m.changes.SetSize(mainWidth, mainHeight)
	m.kanban.SetSize(m.width, bodyHeight)
	m.preview.SetSize(rightWidth, bodyHeight)
	m.logs.SetSize(mainWidth, bottomBarHeight-1)
}

// navbarItems composes the active navbar for the current layout.
func (m *Model) navbarItems(c action.Context) []action.Item {
	var entries []action.Entry
	if c.LayoutMode == store.LayoutKanban {
		entries = m.registry.KanbanNavbar()
	} else {
		entries = m.registry.WorkspaceNavbar()
	}
	ws := m.currentWorkspace()
	return action.Compose(entries, c, ws, func(def *action.Definition) func() {
		return func() {
			if m.program != nil {
				m.program.Send(invokeMsg{def: def})
			}
		}
	})
}

// View renders the app.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	c := m.buildContext()
	navRow := m.navbar.View(m.navbarItems(c))
	footer := m.footer.View()
	body := m.bodyView(c)

	view := lipgloss.JoinVertical(lipgloss.Left, navRow, body, footer)

	// Overlays replace the body: the modal layer first, then the palette.
	if m.modals.HasActive() {
		v.SetContent(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modals.View()))
		return v
	}
	if m.commandBar.IsOpen() {
		v.SetContent(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.commandBar.View()))
		return v
	}

	v.SetContent(view)
	return v
}

// bodyView renders everything between the navbar and the footer.
func (m *Model) bodyView(c action.Context) string {
	if c.LayoutMode == store.LayoutKanban {
		if route := m.navigator.Route(); route.IssueID != "" {
			for _, is := range m.projectIssues {
				if is.ID == route.IssueID {
					return m.kanban.DetailView(is)
				}
			}
		}
		return m.kanban.View()
	}

	wsID := m.currentWorkspaceID()
	runningIDs := map[string]bool{}
	for _, a := range m.activeWorkspaces() {
		if a.IsRunning {
			runningIDs[a.ID] = true
		}
	}
	visible := m.sidebar.Visible(m.workspaces)
	sidebarView := m.sidebar.View(visible, wsID, runningIDs)

	var mainView string
	switch {
	case c.CreateMode:
		mainView = m.styles.Help.Render("New workspace: pick a repo and branch, then confirm.")
	case wsID == "":
		mainView = m.styles.Help.Render("Select a workspace")
	default:
		mainView = m.changes.View()
	}
	if c.BottomBarVisible {
		mainView = lipgloss.JoinVertical(lipgloss.Left, mainView, m.styles.PanelBorder.Render(m.logs.View()))
	}

	rightView := ""
	if c.RightSidebarVisible {
		switch c.RightMode {
		case store.RightPanelPreview:
			rightView = m.preview.View(c.DevServerState, c.RunningDevServers)
		case store.RightPanelLogs:
			rightView = m.logs.View()
		case store.RightPanelChanges:
			rightView = m.changes.View()
		}
	}

	if m.compact.IsCompact() {
		switch m.compact.ActivePanel() {
		case store.CompactPanelSidebar:
			return sidebarView
		case store.CompactPanelRight:
			if rightView != "" {
				return rightView
			}
			return m.preview.View(c.DevServerState, c.RunningDevServers)
		default:
			return mainView
		}
	}

	parts := []string{}
	if c.SidebarVisible {
		parts = append(parts, m.styles.PanelBorder.Render(sidebarView))
	}
	parts = append(parts, mainView)
	if rightView != "" {
		parts = append(parts, m.styles.PanelBorder.Render(rightView))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
