package action

import (
	"github.com/quilthq/quilt/internal/devserver"
	"github.com/quilthq/quilt/internal/store"
)

// Context is the immutable visibility snapshot consumed by all action
// predicates. It is rebuilt from the stores whenever any of them notifies;
// a handed-out snapshot is never mutated. All derivation happens at build
// time, so predicates read plain fields only.
type Context struct {
	LayoutMode store.LayoutMode
	RightMode  store.RightPanelMode

	// Panel visibility flags for the current workspace.
	SidebarVisible      bool
	RightSidebarVisible bool
	BottomBarVisible    bool

	CreateMode        bool
	HasWorkspace      bool
	WorkspaceArchived bool

	HasDiffs           bool
	DiffViewMode       store.DiffViewMode
	IsAllDiffsExpanded bool

	DevServerState    devserver.State
	RunningDevServers []devserver.Process

	HasRepos           bool
	HasMultipleRepos   bool
	HasOpenPR          bool
	HasUnpushedCommits bool

	AttemptRunning bool
	LogsContent    string

	HasSelectedIssue             bool
	SelectedIssueCount           int
	HasSelectedKanbanIssueParent bool
	IsCreatingIssue              bool

	SignedIn bool

	IsCompact          bool
	ActiveCompactPanel store.CompactPanel
}
