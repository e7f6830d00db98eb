package action

import (
	"github.com/quilthq/quilt/internal/devserver"
	"github.com/quilthq/quilt/internal/git"
	"github.com/quilthq/quilt/internal/issues"
	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

// Sources is everything the context builder reads. The app layer fills it
// from the stores and the latest fetched data before every rebuild.
type Sources struct {
	Navigator *store.NavigatorStore
	Panels    *store.PanelVisibilityStore
	DiffView  *store.DiffViewStore
	Prefs     *store.PreferencesStore
	Compact   *store.CompactLayoutStore

	// Workspace is the currently open workspace, nil when none.
	Workspace *workspace.Workspace

	BranchStatuses []git.BranchStatus

	DevStartInFlight  bool
	DevStopInFlight   bool
	RunningDevServers []devserver.Process

	AttemptRunning bool
	LogsContent    string

	SelectedIssueIDs []string
	ProjectIssues    []issues.Issue
	IsCreatingIssue  bool

	SignedIn bool
}

// Build produces a complete visibility snapshot. Pure: it reads the stores
// and inputs, derives every field, and performs no side effects.
func Build(src Sources) Context {
	var c Context

	var route store.Route
	if src.Navigator != nil {
		route = src.Navigator.Route()
	}
	c.LayoutMode = route.LayoutMode()
	c.CreateMode = route.CreateMode

	workspaceID := ""
	if src.Workspace != nil {
		workspaceID = src.Workspace.ID
		c.HasWorkspace = true
		c.WorkspaceArchived = src.Workspace.Archived
		c.HasRepos = len(src.Workspace.Repos) > 0
		c.HasMultipleRepos = src.Workspace.HasMultipleRepos()
	}

	if src.Panels != nil {
		flags := src.Panels.Flags(workspaceID)
		c.SidebarVisible = flags.Sidebar
		c.RightSidebarVisible = flags.RightSidebar
		c.BottomBarVisible = flags.BottomBar
		c.RightMode = src.Panels.RightMode()
	}

	if src.DiffView != nil {
		paths := src.DiffView.Paths()
		c.HasDiffs = len(paths) > 0
		c.DiffViewMode = src.DiffView.Mode()
		c.IsAllDiffsExpanded = allDiffsExpanded(paths, src.Prefs)
	}

	c.DevServerState = devserver.DeriveState(src.DevStartInFlight, src.DevStopInFlight, len(src.RunningDevServers))
	c.RunningDevServers = src.RunningDevServers

	c.HasOpenPR = git.AnyOpenPR(src.BranchStatuses)
	c.HasUnpushedCommits = git.AnyUnpushedCommits(src.BranchStatuses)

	c.AttemptRunning = src.AttemptRunning
	c.LogsContent = src.LogsContent

	c.SelectedIssueCount = len(src.SelectedIssueIDs)
	c.HasSelectedIssue = c.SelectedIssueCount > 0
	c.HasSelectedKanbanIssueParent = selectedIssueHasParent(src.SelectedIssueIDs, route.ProjectID, src.ProjectIssues)
	c.IsCreatingIssue = src.IsCreatingIssue

	c.SignedIn = src.SignedIn

	if src.Compact != nil {
		c.IsCompact = src.Compact.IsCompact()
		c.ActiveCompactPanel = src.Compact.ActivePanel()
	}

	return c
}

// allDiffsExpanded is true when at least one diff path is loaded and no
// path has an explicit collapsed override. Paths without an override count
// as expanded.
func allDiffsExpanded(paths []string, prefs *store.PreferencesStore) bool {
	if len(paths) == 0 {
		return false
	}
	if prefs == nil {
		return true
	}
	for _, p := range paths {
		if expanded, ok := prefs.Expansion(p); ok && !expanded {
			return false
		}
	}
	return true
}

// selectedIssueHasParent resolves only when exactly one issue is selected
// and a project is known; otherwise false.
func selectedIssueHasParent(selected []string, projectID string, projectIssues []issues.Issue) bool {
	if len(selected) != 1 || projectID == "" {
		return false
	}
	issue := issues.Find(projectIssues, selected[0])
	return issue != nil && issue.HasParent()
}
