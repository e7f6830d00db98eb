package action

import (
	"context"

	"github.com/quilthq/quilt/internal/cache"
	"github.com/quilthq/quilt/internal/devserver"
	"github.com/quilthq/quilt/internal/dialog"
	"github.com/quilthq/quilt/internal/git"
	"github.com/quilthq/quilt/internal/issues"
	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

// GitControl is the branch-operation surface executors need. The app layer
// implements it over the git service; tests use fakes.
type GitControl interface {
	BranchStatuses(ctx context.Context, workspaceID string) ([]git.BranchStatus, error)
	Merge(ctx context.Context, workspaceID string) error
	Rebase(ctx context.Context, workspaceID string) error
	Push(ctx context.Context, workspaceID string, force bool) error
	CreatePR(ctx context.Context, workspaceID string) (string, error)
	SetTargetBranch(ctx context.Context, workspaceID, branch string) error
	ListBranches(ctx context.Context, workspaceID string) ([]string, error)
}

// DevServerControl starts and stops per-workspace dev servers.
type DevServerControl interface {
	RunningFor(workspaceID string) []devserver.Process
	Start(ctx context.Context, workspaceID string) error
	Stop(workspaceID string) error
}

// AttemptControl starts and stops agent attempts on a workspace.
type AttemptControl interface {
	IsRunning(workspaceID string) bool
	Start(ctx context.Context, workspaceID string) error
	Stop(workspaceID string) error
}

// ExecContext is the capability bundle passed to executors. It is rebuilt
// alongside the visibility context; an executor closes over the instance
// current at the moment the user triggered it.
type ExecContext struct {
	Navigator *store.NavigatorStore
	Panels    *store.PanelVisibilityStore
	Compact   *store.CompactLayoutStore
	DiffView  *store.DiffViewStore
	Prefs     *store.PreferencesStore

	Cache *cache.Client

	// SelectWorkspace makes the sidebar select the given workspace.
	SelectWorkspace    func(workspaceID string)
	ActiveWorkspaces   []workspace.Active
	CurrentWorkspaceID string
	// Container names the workspace container this app instance manages.
	Container string

	Workspaces  workspace.API
	RemoteLinks workspace.RemoteLinks
	// Remotes is the remote workspace record list used to resolve
	// cross-linked issue identifiers.
	Remotes []workspace.Remote

	Git        GitControl
	DevServers DevServerControl
	Attempts   AttemptControl

	Issues issues.API
	// Projects is optional; issue actions needing it no-op when nil.
	Projects        issues.ProjectMutations
	KanbanOrgID     string
	KanbanProjectID string

	Dialogs dialog.Service

	// LogsContent is the current logs-panel content descriptor.
	LogsContent string

	// Selection dialog openers for issue fields. Implemented by the modal
	// layer; each blocks until the user resolves the dialog. ok is false
	// when the dialog was cancelled, which executors treat as a no-op.
	SelectStatus       func(ctx context.Context) (status issues.Status, ok bool, err error)
	SelectPriority     func(ctx context.Context) (priority issues.Priority, ok bool, err error)
	SelectAssignee     func(ctx context.Context, projectID string) (assignee string, ok bool, err error)
	SelectSubIssue     func(ctx context.Context, projectID string) (issueID string, ok bool, err error)
	SelectWorkspaceFor func(ctx context.Context) (workspaceID string, ok bool, err error)
	SelectRelationship func(ctx context.Context, projectID string) (otherID string, rel issues.Relationship, ok bool, err error)

	NavigateToCreateIssue func(projectID string, defaultStatus issues.Status)

	CopyToClipboard func(text string) error
	Notify          func(title, message string)
	OpenURL         func(url string) error
	// OpenEditor opens the workspace in the named editor; empty editor means
	// the configured default. Editors lists the choices offered when the
	// default editor fails to open.
	OpenEditor func(ctx context.Context, workspaceID, editor string) error
	Editors    []dialog.SelectItem
	SignIn     func(ctx context.Context) error
}

// NextWorkspace computes which workspace to select after removing target
// from the active list.
func (ec *ExecContext) NextWorkspace(targetID string) string {
	return workspace.NextToSelect(ec.ActiveWorkspaces, targetID)
}

// ShowPreview switches the UI to the preview surface: the active compact
// panel in compact layout, the right-main-panel mode otherwise.
func (ec *ExecContext) ShowPreview() {
	if ec.Compact != nil && ec.Compact.IsCompact() {
		ec.Compact.SetActivePanel(store.CompactPanelRight)
	}
	if ec.Panels != nil {
		ec.Panels.SetRightMode(store.RightPanelPreview)
	}
}
