package action

import (
	"context"
	"fmt"

	"github.com/quilthq/quilt/internal/devserver"
	"github.com/quilthq/quilt/internal/issues"
	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

// Action identifiers. Stable; persisted nowhere but referenced by key
// bindings and the command bar.
const (
	CreateWorkspace     ID = "create-workspace"
	CreateIssue         ID = "create-issue"
	ToggleSidebar       ID = "toggle-sidebar"
	ToggleRightSidebar  ID = "toggle-right-sidebar"
	ToggleBottomBar     ID = "toggle-bottom-bar"
	ViewChanges         ID = "view-changes"
	ViewLogs            ID = "view-logs"
	ViewPreview         ID = "view-preview"
	ToggleDiffViewMode  ID = "toggle-diff-view-mode"
	ExpandAllDiffs      ID = "expand-all-diffs"
	CollapseAllDiffs    ID = "collapse-all-diffs"
	ChangeWorkspaceSort ID = "change-workspace-sort"
	ToggleArchived      ID = "toggle-archived"
	GoWorkspaces        ID = "go-workspaces"
	GoProjects          ID = "go-projects"
	GoMigrate           ID = "go-migrate"
	GoBack              ID = "go-back"
	SignIn              ID = "sign-in"

	OpenWorkspace    ID = "open-workspace"
	ArchiveWorkspace ID = "archive-workspace"
	DeleteWorkspace  ID = "delete-workspace"
	RenameWorkspace  ID = "rename-workspace"
	OpenInEditor     ID = "open-in-editor"
	CopyBranchName   ID = "copy-branch-name"
	CopyWorkspaceID  ID = "copy-workspace-id"
	ToggleDevServer  ID = "toggle-dev-server"
	RestartDevServer ID = "restart-dev-server"
	StartAttempt     ID = "start-attempt"
	StopAttempt      ID = "stop-attempt"

	MergeBranch        ID = "merge-branch"
	RebaseBranch       ID = "rebase-branch"
	PushBranch         ID = "push-branch"
	CreatePR           ID = "create-pr"
	OpenPR             ID = "open-pr"
	ChangeTargetBranch ID = "change-target-branch"

	SetIssueStatus         ID = "set-issue-status"
	SetIssuePriority       ID = "set-issue-priority"
	SetIssueAssignee       ID = "set-issue-assignee"
	AddSubIssue            ID = "add-sub-issue"
	ViewParentIssue        ID = "view-parent-issue"
	LinkWorkspace          ID = "link-workspace"
	SetIssueRelationship   ID = "set-issue-relationship"
	DuplicateIssue         ID = "duplicate-issue"
	DeleteIssue            ID = "delete-issue"
	WorkspaceFromIssue     ID = "start-workspace-from-issue"
)

// Registry holds the static action catalog. It is built once at startup
// and never mutated afterwards.
type Registry struct {
	order []ID
	defs  map[ID]*Definition
}

// NewRegistry builds the full catalog. Panics on a duplicate id, which is
// a programming error.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[ID]*Definition)}
	for _, def := range catalog() {
		r.register(def)
	}
	return r
}

func (r *Registry) register(def *Definition) {
	if _, dup := r.defs[def.ID]; dup {
		panic(fmt.Sprintf("action: duplicate id %q", def.ID))
	}
	r.defs[def.ID] = def
	r.order = append(r.order, def.ID)
}

// Get returns the definition for id.
func (r *Registry) Get(id ID) (*Definition, bool) {
	def, ok := r.defs[id]
	return def, ok
}

// All returns every definition in registration order.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// WorkspaceNavbar is the ordered navbar sequence for the workspaces layout.
func (r *Registry) WorkspaceNavbar() []Entry {
	return r.seq(
		ViewChanges, ViewLogs, ViewPreview,
		divider,
		ToggleDevServer, StartAttempt, StopAttempt,
		divider,
		OpenInEditor, CopyBranchName,
		divider,
		MergeBranch, PushBranch, CreatePR, OpenPR,
		divider,
		ArchiveWorkspace, DeleteWorkspace,
	)
}

// KanbanNavbar is the ordered navbar sequence for the kanban layout.
func (r *Registry) KanbanNavbar() []Entry {
	return r.seq(
		SetIssueStatus, SetIssuePriority, SetIssueAssignee,
		divider,
		AddSubIssue, ViewParentIssue,
		divider,
		LinkWorkspace, WorkspaceFromIssue,
		divider,
		DuplicateIssue, DeleteIssue,
	)
}

// divider is a sentinel id marking a separator inside seq.
const divider ID = "--"

func (r *Registry) seq(ids ...ID) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if id == divider {
			out = append(out, Sep())
			continue
		}
		if def, ok := r.defs[id]; ok {
			out = append(out, Act(def))
		}
	}
	return out
}

func catalog() []*Definition {
	return append(append(append(globalActions(), workspaceActions()...), gitActions()...), issueActions()...)
}

func globalActions() []*Definition {
	return []*Definition{
		{
			ID:       CreateWorkspace,
			Target:   TargetNone,
			Label:    "New workspace",
			Icon:     "plus",
			Shortcut: "n",
			Keywords: []string{"add", "branch", "worktree"},
			IsVisible: func(c Context) bool {
				return c.LayoutMode == store.LayoutWorkspaces
			},
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Navigator.NavigateToCreateWorkspace()
				return nil
			},
		},
		{
			ID:       CreateIssue,
			Target:   TargetNone,
			Label:    "New issue",
			Icon:     "plus",
			Shortcut: "c",
			Keywords: []string{"add", "card", "ticket"},
			IsVisible: func(c Context) bool {
				return c.LayoutMode == store.LayoutKanban
			},
			IsActive: func(c Context) bool { return c.IsCreatingIssue },
			Run: func(ctx context.Context, ec *ExecContext) error {
				if ec.NavigateToCreateIssue != nil {
					ec.NavigateToCreateIssue(ec.KanbanProjectID, issues.StatusTodo)
				}
				return nil
			},
		},
		{
			ID:       ToggleSidebar,
			Target:   TargetNone,
			Label:    "Toggle sidebar",
			Icon:     "panel-left",
			Shortcut: "ctrl+b",
			IsActive: func(c Context) bool { return c.SidebarVisible },
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Panels.ToggleSidebar(ec.CurrentWorkspaceID)
				return nil
			},
		},
		{
			ID:       ToggleRightSidebar,
			Target:   TargetNone,
			Label:    "Toggle right sidebar",
			Icon:     "panel-right",
			IsActive: func(c Context) bool { return c.RightSidebarVisible },
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Panels.ToggleRightSidebar(ec.CurrentWorkspaceID)
				return nil
			},
		},
		{
			ID:       ToggleBottomBar,
			Target:   TargetNone,
			Label:    "Toggle bottom bar",
			Icon:     "panel-bottom",
			IsActive: func(c Context) bool { return c.BottomBarVisible },
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Panels.ToggleBottomBar(ec.CurrentWorkspaceID)
				return nil
			},
		},
		{
			ID:        ViewChanges,
			Target:    TargetNone,
			Label:     "Changes",
			Icon:      "diff",
			Shortcut:  "g",
			Keywords:  []string{"diff", "files"},
			IsVisible: func(c Context) bool { return c.HasWorkspace },
			IsActive:  func(c Context) bool { return c.RightMode == store.RightPanelChanges },
			Run: func(ctx context.Context, ec *ExecContext) error {
				toggleRightPanel(ec, store.RightPanelChanges)
				return nil
			},
		},
		{
			ID:        ViewLogs,
			Target:    TargetNone,
			Label:     "Logs",
			Icon:      "scroll",
			Shortcut:  "l",
			Keywords:  []string{"output", "tail"},
			IsVisible: func(c Context) bool { return c.HasWorkspace },
			IsActive:  func(c Context) bool { return c.RightMode == store.RightPanelLogs },
			Run: func(ctx context.Context, ec *ExecContext) error {
				toggleRightPanel(ec, store.RightPanelLogs)
				return nil
			},
		},
		{
			ID:        ViewPreview,
			Target:    TargetNone,
			Label:     "Preview",
			Icon:      "globe",
			Shortcut:  "p",
			IsVisible: func(c Context) bool { return c.HasWorkspace },
			IsActive:  func(c Context) bool { return c.RightMode == store.RightPanelPreview },
			IsEnabled: func(c Context) bool { return c.DevServerState != devserver.StateStopped },
			GetTooltip: func(c Context) string {
				if c.DevServerState == devserver.StateStopped {
					return "Start the dev server to preview"
				}
				return "Preview"
			},
			Run: func(ctx context.Context, ec *ExecContext) error {
				toggleRightPanel(ec, store.RightPanelPreview)
				return nil
			},
		},
		{
			ID:        ToggleDiffViewMode,
			Target:    TargetNone,
			Label:     "Toggle diff layout",
			Icon:      "columns",
			IsVisible: func(c Context) bool { return c.RightMode == store.RightPanelChanges },
			GetLabel: func(c Context, ws *workspace.Workspace) string {
				if c.DiffViewMode == store.DiffViewUnified {
					return "Split view"
				}
				return "Unified view"
			},
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.DiffView.ToggleMode()
				return nil
			},
		},
		{
			ID:       ExpandAllDiffs,
			Target:   TargetNone,
			Label:    "Expand all diffs",
			Icon:     "unfold",
			Keywords: []string{"open", "files"},
			IsVisible: func(c Context) bool {
				return c.RightMode == store.RightPanelChanges && c.HasDiffs && !c.IsAllDiffsExpanded
			},
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Prefs.SetAllExpanded(ec.DiffView.Paths(), true)
				return nil
			},
		},
		{
			ID:       CollapseAllDiffs,
			Target:   TargetNone,
			Label:    "Collapse all diffs",
			Icon:     "fold",
			Keywords: []string{"close", "files"},
			IsVisible: func(c Context) bool {
				return c.RightMode == store.RightPanelChanges && c.IsAllDiffsExpanded
			},
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Prefs.SetAllExpanded(ec.DiffView.Paths(), false)
				return nil
			},
		},
		{
			ID:       ChangeWorkspaceSort,
			Target:   TargetNone,
			Label:    "Sort workspaces",
			Icon:     "sort",
			Keywords: []string{"order", "activity", "name"},
			IsVisible: func(c Context) bool {
				return c.LayoutMode == store.LayoutWorkspaces
			},
			Run: changeWorkspaceSort,
		},
		{
			ID:       ToggleArchived,
			Target:   TargetNone,
			Label:    "Show archived workspaces",
			Icon:     "archive",
			Keywords: []string{"hidden", "filter"},
			IsVisible: func(c Context) bool {
				return c.LayoutMode == store.LayoutWorkspaces
			},
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Prefs.SetShowArchived(!ec.Prefs.ShowArchived())
				return nil
			},
		},
		{
			ID:       GoWorkspaces,
			Target:   TargetNone,
			Label:    "Workspaces",
			Icon:     "layers",
			Shortcut: "1",
			IsActive: func(c Context) bool { return c.LayoutMode == store.LayoutWorkspaces },
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Navigator.Navigate(store.Route{Path: "/workspaces"})
				return nil
			},
		},
		{
			ID:       GoProjects,
			Target:   TargetNone,
			Label:    "Projects",
			Icon:     "kanban",
			Shortcut: "2",
			IsActive: func(c Context) bool { return c.LayoutMode == store.LayoutKanban },
			Run: func(ctx context.Context, ec *ExecContext) error {
				if ec.KanbanProjectID != "" {
					ec.Navigator.NavigateToProject(ec.KanbanProjectID)
				} else {
					ec.Navigator.Navigate(store.Route{Path: "/projects"})
				}
				return nil
			},
		},
		{
			ID:       GoMigrate,
			Target:   TargetNone,
			Label:    "Migrate",
			Icon:     "truck",
			Shortcut: "3",
			IsActive: func(c Context) bool { return c.LayoutMode == store.LayoutMigrate },
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Navigator.Navigate(store.Route{Path: "/migrate"})
				return nil
			},
		},
		{
			ID:     GoBack,
			Target: TargetNone,
			Label:  "Back",
			Icon:   "arrow-left",
			Run: func(ctx context.Context, ec *ExecContext) error {
				ec.Navigator.Back()
				return nil
			},
		},
		{
			ID:        SignIn,
			Target:    TargetNone,
			Label:     "Sign in",
			Icon:      "user",
			IsVisible: func(c Context) bool { return !c.SignedIn },
			Run: func(ctx context.Context, ec *ExecContext) error {
				if ec.SignIn == nil {
					return nil
				}
				return ec.SignIn(ctx)
			},
		},
	}
}

func workspaceActions() []*Definition {
	return []*Definition{
		{
			ID:     OpenWorkspace,
			Target: TargetWorkspace,
			Label:  "Open workspace",
			Icon:   "folder-open",
			RunWorkspace: func(ctx context.Context, ec *ExecContext, workspaceID string) error {
				if ec.SelectWorkspace != nil {
					ec.SelectWorkspace(workspaceID)
				}
				ec.Navigator.NavigateToWorkspace(workspaceID)
				return nil
			},
		},
		{
			ID:       ArchiveWorkspace,
			Target:   TargetWorkspace,
			Icon:     "archive",
			Shortcut: "e",
			Keywords: []string{"hide", "unarchive", "restore"},
			LabelFunc: func(ws *workspace.Workspace) string {
				if ws != nil && ws.Archived {
					return "Unarchive workspace"
				}
				return "Archive workspace"
			},
			IsVisible:    func(c Context) bool { return c.HasWorkspace },
			RunWorkspace: archiveWorkspace,
		},
		{
			ID:           DeleteWorkspace,
			Target:       TargetWorkspace,
			Icon:         "trash",
			Style:        StyleDestructive,
			Keywords:     []string{"remove", "branch"},
			LabelFunc:    workspaceLabel("Delete"),
			IsVisible:    func(c Context) bool { return c.HasWorkspace },
			RunWorkspace: deleteWorkspace,
		},
		{
			ID:           RenameWorkspace,
			Target:       TargetWorkspace,
			Label:        "Rename workspace",
			Icon:         "pencil",
			IsVisible:    func(c Context) bool { return c.HasWorkspace },
			RunWorkspace: renameWorkspace,
		},
		{
			ID:           OpenInEditor,
			Target:       TargetWorkspace,
			Label:        "Open in editor",
			Icon:         "code",
			Shortcut:     "ctrl+o",
			Keywords:     []string{"ide", "vscode", "zed"},
			IsVisible:    func(c Context) bool { return c.HasWorkspace },
			RunWorkspace: openInEditor,
		},
		{
			ID:           CopyBranchName,
			Target:       TargetWorkspace,
			Label:        "Copy branch name",
			Icon:         "copy",
			Keywords:     []string{"clipboard", "git"},
			IsVisible:    func(c Context) bool { return c.HasWorkspace },
			RunWorkspace: copyBranchName,
		},
		{
			ID:           CopyWorkspaceID,
			Target:       TargetWorkspace,
			Label:        "Copy workspace id",
			Icon:         "copy",
			Keywords:     []string{"clipboard"},
			IsVisible:    func(c Context) bool { return c.HasWorkspace },
			RunWorkspace: copyWorkspaceID,
		},
		{
			ID:       ToggleDevServer,
			Target:   TargetWorkspace,
			Icon:     IconDevServerIndicator,
			Shortcut: "d",
			Keywords: []string{"server", "npm", "preview"},
			LabelFunc: func(ws *workspace.Workspace) string {
				return "Toggle dev server"
			},
			GetLabel: func(c Context, ws *workspace.Workspace) string {
				switch c.DevServerState {
				case devserver.StateRunning:
					return "Stop dev server"
				case devserver.StateStarting:
					return "Dev server starting"
				case devserver.StateStopping:
					return "Dev server stopping"
				default:
					return "Start dev server"
				}
			},
			IsVisible: func(c Context) bool { return c.HasWorkspace && c.HasRepos },
			IsEnabled: func(c Context) bool {
				return c.DevServerState == devserver.StateRunning || c.DevServerState == devserver.StateStopped
			},
			RunWorkspace: toggleDevServer,
		},
		{
			ID:           RestartDevServer,
			Target:       TargetWorkspace,
			Label:        "Restart dev server",
			Icon:         "refresh",
			IsVisible:    func(c Context) bool { return c.DevServerState == devserver.StateRunning },
			RunWorkspace: restartDevServer,
		},
		{
			ID:           StartAttempt,
			Target:       TargetWorkspace,
			Label:        "Start attempt",
			Icon:         IconAttemptSpinner,
			Shortcut:     "a",
			Keywords:     []string{"agent", "run"},
			IsVisible:    func(c Context) bool { return c.HasWorkspace && !c.AttemptRunning },
			RunWorkspace: startAttempt,
		},
		{
			ID:           StopAttempt,
			Target:       TargetWorkspace,
			Label:        "Stop attempt",
			Icon:         IconAttemptSpinner,
			Style:        StyleDestructive,
			IsVisible:    func(c Context) bool { return c.AttemptRunning },
			RunWorkspace: stopAttempt,
		},
	}
}

func gitActions() []*Definition {
	return []*Definition{
		{
			ID:        MergeBranch,
			Target:    TargetGit,
			Label:     "Merge into target",
			Icon:      "merge",
			Shortcut:  "m",
			Keywords:  []string{"git", "integrate"},
			IsVisible: func(c Context) bool { return c.HasWorkspace && c.HasRepos },
			RunGit:    mergeBranch,
		},
		{
			ID:        RebaseBranch,
			Target:    TargetGit,
			Label:     "Rebase onto target",
			Icon:      "rebase",
			Keywords:  []string{"git"},
			IsVisible: func(c Context) bool { return c.HasWorkspace && c.HasRepos },
			RunGit:    rebaseBranch,
		},
		{
			ID:        PushBranch,
			Target:    TargetGit,
			Label:     "Push",
			Icon:      "upload",
			Shortcut:  "P",
			Keywords:  []string{"git", "remote"},
			IsVisible: func(c Context) bool { return c.HasWorkspace && c.HasRepos },
			IsEnabled: func(c Context) bool { return c.HasUnpushedCommits },
			GetTooltip: func(c Context) string {
				if !c.HasUnpushedCommits {
					return "Nothing to push"
				}
				return "Push"
			},
			RunGit: pushBranch,
		},
		{
			ID:       CreatePR,
			Target:   TargetGit,
			Label:    "Create pull request",
			Icon:     "git-pull-request",
			Keywords: []string{"pr", "github"},
			IsVisible: func(c Context) bool {
				return c.HasWorkspace && c.HasRepos && !c.HasOpenPR
			},
			RunGit: createPR,
		},
		{
			ID:        OpenPR,
			Target:    TargetGit,
			Label:     "Open pull request",
			Icon:      "external-link",
			Keywords:  []string{"pr", "browser"},
			IsVisible: func(c Context) bool { return c.HasOpenPR },
			RunGit:    openPR,
		},
		{
			ID:        ChangeTargetBranch,
			Target:    TargetGit,
			Label:     "Change target branch",
			Icon:      "git-branch",
			IsVisible: func(c Context) bool { return c.HasWorkspace && c.HasRepos },
			RunGit:    changeTargetBranch,
		},
	}
}

func issueActions() []*Definition {
	kanbanSelection := func(c Context) bool {
		return c.LayoutMode == store.LayoutKanban && c.HasSelectedIssue
	}
	singleSelection := func(c Context) bool {
		return c.LayoutMode == store.LayoutKanban && c.SelectedIssueCount == 1
	}
	return []*Definition{
		{
			ID:        SetIssueStatus,
			Target:    TargetIssue,
			Label:     "Set status",
			Icon:      "circle-dot",
			Shortcut:  "s",
			Keywords:  []string{"column", "move"},
			IsVisible: kanbanSelection,
			RunIssue:  setIssueStatus,
		},
		{
			ID:        SetIssuePriority,
			Target:    TargetIssue,
			Label:     "Set priority",
			Icon:      "flag",
			IsVisible: kanbanSelection,
			RunIssue:  setIssuePriority,
		},
		{
			ID:        SetIssueAssignee,
			Target:    TargetIssue,
			Label:     "Set assignee",
			Icon:      "user",
			IsVisible: kanbanSelection,
			RunIssue:  setIssueAssignee,
		},
		{
			ID:        AddSubIssue,
			Target:    TargetIssue,
			Label:     "Add sub-issue",
			Icon:      "git-branch",
			IsVisible: singleSelection,
			RunIssue:  addSubIssue,
		},
		{
			ID:        ViewParentIssue,
			Target:    TargetIssue,
			Label:     "View parent issue",
			Icon:      "arrow-up",
			IsVisible: func(c Context) bool { return c.HasSelectedKanbanIssueParent },
			RunIssue:  viewParentIssue,
		},
		{
			ID:        LinkWorkspace,
			Target:    TargetIssue,
			Label:     "Link workspace",
			Icon:      "link",
			Keywords:  []string{"attach", "connect"},
			IsVisible: singleSelection,
			RunIssue:  linkWorkspaceToIssue,
		},
		{
			ID:        SetIssueRelationship,
			Target:    TargetIssue,
			Label:     "Set relationship",
			Icon:      "network",
			IsVisible: singleSelection,
			RunIssue:  setIssueRelationship,
		},
		{
			ID:        DuplicateIssue,
			Target:    TargetIssue,
			Label:     "Duplicate issue",
			Icon:      "copy",
			IsVisible: kanbanSelection,
			RunIssue:  duplicateIssue,
		},
		{
			ID:        DeleteIssue,
			Target:    TargetIssue,
			Label:     "Delete issue",
			Icon:      "trash",
			Style:     StyleDestructive,
			IsVisible: kanbanSelection,
			RunIssue:  deleteIssue,
		},
		{
			ID:        WorkspaceFromIssue,
			Target:    TargetIssue,
			Label:     "Start workspace from issue",
			Icon:      "rocket",
			Keywords:  []string{"create", "begin"},
			IsVisible: singleSelection,
			RunIssue: func(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
				ec.Navigator.NavigateToCreateWorkspace()
				return nil
			},
		},
	}
}
