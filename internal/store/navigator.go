package store

import (
	"strings"
	"sync"
)

// LayoutMode is the top-level view the app is showing. It is derived solely
// from the navigation path prefix, never from persisted UI state.
type LayoutMode int

const (
	LayoutWorkspaces LayoutMode = iota
	LayoutKanban
	LayoutMigrate
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutKanban:
		return "kanban"
	case LayoutMigrate:
		return "migrate"
	default:
		return "workspaces"
	}
}

// DeriveLayoutMode maps a navigation path to its layout mode:
// /projects... -> kanban, /migrate... -> migrate, anything else -> workspaces.
func DeriveLayoutMode(path string) LayoutMode {
	switch {
	case strings.HasPrefix(path, "/projects"):
		return LayoutKanban
	case strings.HasPrefix(path, "/migrate"):
		return LayoutMigrate
	default:
		return LayoutWorkspaces
	}
}

// Route is an immutable snapshot of the navigation state.
type Route struct {
	Path       string
	ProjectID  string
	IssueID    string
	CreateMode bool
}

// LayoutMode returns the layout mode for the route's path.
func (r Route) LayoutMode() LayoutMode {
	return DeriveLayoutMode(r.Path)
}

// NavigatorStore holds the current route. Navigation is a plain state
// change; the app model re-renders from the new snapshot.
type NavigatorStore struct {
	notifier

	stateMu sync.RWMutex
	route   Route
	history []Route
}

// NewNavigatorStore creates a navigator at the workspaces root.
func NewNavigatorStore() *NavigatorStore {
	return &NavigatorStore{route: Route{Path: "/workspaces"}}
}

// Route returns the current route snapshot.
func (s *NavigatorStore) Route() Route {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.route
}

// Navigate replaces the current route and records the old one in history.
func (s *NavigatorStore) Navigate(r Route) {
	s.stateMu.Lock()
	s.history = append(s.history, s.route)
	if len(s.history) > 50 {
		s.history = s.history[1:]
	}
	s.route = r
	s.stateMu.Unlock()
	s.notify()
}

// NavigateToWorkspace opens a workspace in the workspaces layout.
func (s *NavigatorStore) NavigateToWorkspace(workspaceID string) {
	s.Navigate(Route{Path: "/workspaces/" + workspaceID})
}

// NavigateToCreateWorkspace opens the workspace creation flow.
func (s *NavigatorStore) NavigateToCreateWorkspace() {
	s.Navigate(Route{Path: "/workspaces", CreateMode: true})
}

// NavigateToProject opens a project board in the kanban layout.
func (s *NavigatorStore) NavigateToProject(projectID string) {
	s.Navigate(Route{Path: "/projects/" + projectID, ProjectID: projectID})
}

// NavigateToIssue opens an issue within a project board.
func (s *NavigatorStore) NavigateToIssue(projectID, issueID string) {
	s.Navigate(Route{
		Path:      "/projects/" + projectID + "/issues/" + issueID,
		ProjectID: projectID,
		IssueID:   issueID,
	})
}

// NavigateToCreateIssue opens the issue creation flow for a project.
func (s *NavigatorStore) NavigateToCreateIssue(projectID string) {
	s.Navigate(Route{Path: "/projects/" + projectID, ProjectID: projectID, CreateMode: true})
}

// Back pops the most recent route from history. Returns false when there is
// no history to return to.
func (s *NavigatorStore) Back() bool {
	s.stateMu.Lock()
	if len(s.history) == 0 {
		s.stateMu.Unlock()
		return false
	}
	s.route = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.stateMu.Unlock()
	s.notify()
	return true
}
