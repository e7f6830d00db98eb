package action

import (
	"context"
	"errors"
	"testing"

	"github.com/quilthq/quilt/internal/cache"
	"github.com/quilthq/quilt/internal/devserver"
	"github.com/quilthq/quilt/internal/dialog"
	"github.com/quilthq/quilt/internal/git"
	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

type fakeWorkspaceAPI struct {
	workspaces map[string]workspace.Workspace

	archivedCalls map[string]bool
	deleted       []string
	deletedBranch bool
	renamed       map[string]string
}

func newFakeWorkspaceAPI(ws ...workspace.Workspace) *fakeWorkspaceAPI {
	f := &fakeWorkspaceAPI{
		workspaces:    make(map[string]workspace.Workspace),
		archivedCalls: make(map[string]bool),
		renamed:       make(map[string]string),
	}
	for _, w := range ws {
		f.workspaces[w.ID] = w
	}
	return f
}

func (f *fakeWorkspaceAPI) Get(ctx context.Context, id string) (workspace.Workspace, error) {
	w, ok := f.workspaces[id]
	if !ok {
		return workspace.Workspace{}, errors.New("workspace not found")
	}
	return w, nil
}

func (f *fakeWorkspaceAPI) SetArchived(ctx context.Context, id string, archived bool) error {
	f.archivedCalls[id] = archived
	return nil
}

func (f *fakeWorkspaceAPI) Delete(ctx context.Context, id string, deleteBranches bool) error {
	f.deleted = append(f.deleted, id)
	f.deletedBranch = deleteBranches
	return nil
}

func (f *fakeWorkspaceAPI) Rename(ctx context.Context, id, name string) error {
	f.renamed[id] = name
	return nil
}

type fakeRemoteLinks struct {
	remotes  []workspace.Remote
	linked   []string
	unlinked []string
}

func (f *fakeRemoteLinks) List(ctx context.Context) ([]workspace.Remote, error) {
	return f.remotes, nil
}

func (f *fakeRemoteLinks) Link(ctx context.Context, localWorkspaceID, projectID, issueID string) error {
	f.linked = append(f.linked, localWorkspaceID)
	return nil
}

func (f *fakeRemoteLinks) Unlink(ctx context.Context, localWorkspaceID string) error {
	f.unlinked = append(f.unlinked, localWorkspaceID)
	return nil
}

type fakeGit struct {
	statuses  []git.BranchStatus
	statusErr error

	merges   int
	rebases  int
	pushes   int
	forced   bool
	prURL    string
	prCalls  int
	branches []string
	target   string
}

func (f *fakeGit) BranchStatuses(ctx context.Context, workspaceID string) ([]git.BranchStatus, error) {
	return f.statuses, f.statusErr
}

func (f *fakeGit) Merge(ctx context.Context, workspaceID string) error {
	f.merges++
	return nil
}

func (f *fakeGit) Rebase(ctx context.Context, workspaceID string) error {
	f.rebases++
	return nil
}

func (f *fakeGit) Push(ctx context.Context, workspaceID string, force bool) error {
	f.pushes++
	f.forced = force
	return nil
}

func (f *fakeGit) CreatePR(ctx context.Context, workspaceID string) (string, error) {
	f.prCalls++
	return f.prURL, nil
}

func (f *fakeGit) SetTargetBranch(ctx context.Context, workspaceID, branch string) error {
	f.target = branch
	return nil
}

func (f *fakeGit) ListBranches(ctx context.Context, workspaceID string) ([]string, error) {
	return f.branches, nil
}

type fakeDevServers struct {
	running  []devserver.Process
	starts   int
	stops    int
	startErr error
}

func (f *fakeDevServers) RunningFor(workspaceID string) []devserver.Process {
	return f.running
}

func (f *fakeDevServers) Start(ctx context.Context, workspaceID string) error {
	f.starts++
	return f.startErr
}

func (f *fakeDevServers) Stop(workspaceID string) error {
	f.stops++
	return nil
}

type fakeAttempts struct {
	running bool
	starts  int
	stops   int
}

func (f *fakeAttempts) IsRunning(workspaceID string) bool { return f.running }

func (f *fakeAttempts) Start(ctx context.Context, workspaceID string) error {
	f.starts++
	return nil
}

func (f *fakeAttempts) Stop(workspaceID string) error {
	f.stops++
	return nil
}

// fakeDialogs scripts every dialog answer and counts what was shown.
type fakeDialogs struct {
	confirm       dialog.Outcome
	confirmDelete dialog.ConfirmDeleteResult
	merge         dialog.Outcome
	rebase        dialog.Outcome
	conflicts     dialog.Outcome
	selection     dialog.SelectResult
	input         dialog.InputResult

	confirmDeleteOpts dialog.ConfirmDeleteOptions
	infosShown        int
	conflictsShown    int
	mergesShown       int
	rebasesShown      int
	selectsShown      int
}

func (f *fakeDialogs) Confirm(ctx context.Context, opts dialog.ConfirmOptions) (dialog.ConfirmResult, error) {
	return dialog.ConfirmResult{Outcome: f.confirm}, nil
}

func (f *fakeDialogs) ConfirmDelete(ctx context.Context, opts dialog.ConfirmDeleteOptions) (dialog.ConfirmDeleteResult, error) {
	f.confirmDeleteOpts = opts
	return f.confirmDelete, nil
}

func (f *fakeDialogs) ConfirmMerge(ctx context.Context, opts dialog.MergeOptions) (dialog.ConfirmResult, error) {
	f.mergesShown++
	return dialog.ConfirmResult{Outcome: f.merge}, nil
}

func (f *fakeDialogs) PromptRebase(ctx context.Context, opts dialog.RebaseOptions) (dialog.ConfirmResult, error) {
	f.rebasesShown++
	return dialog.ConfirmResult{Outcome: f.rebase}, nil
}

func (f *fakeDialogs) ShowInfo(ctx context.Context, opts dialog.InfoOptions) error {
	f.infosShown++
	return nil
}

func (f *fakeDialogs) ShowConflicts(ctx context.Context, opts dialog.ConflictOptions) (dialog.ConfirmResult, error) {
	f.conflictsShown++
	return dialog.ConfirmResult{Outcome: f.conflicts}, nil
}

func (f *fakeDialogs) Select(ctx context.Context, opts dialog.SelectOptions) (dialog.SelectResult, error) {
	f.selectsShown++
	return f.selection, nil
}

func (f *fakeDialogs) Input(ctx context.Context, opts dialog.InputOptions) (dialog.InputResult, error) {
	return f.input, nil
}

type execFixture struct {
	ec       *ExecContext
	api      *fakeWorkspaceAPI
	git      *fakeGit
	dialogs  *fakeDialogs
	dev      *fakeDevServers
	attempts *fakeAttempts
	selected []string
}

func newExecFixture(ws ...workspace.Workspace) *execFixture {
	f := &execFixture{
		api:      newFakeWorkspaceAPI(ws...),
		git:      &fakeGit{},
		dialogs:  &fakeDialogs{},
		dev:      &fakeDevServers{},
		attempts: &fakeAttempts{},
	}
	f.ec = &ExecContext{
		Navigator:  store.NewNavigatorStore(),
		Panels:     store.NewPanelVisibilityStore(),
		Compact:    store.NewCompactLayoutStore(),
		DiffView:   store.NewDiffViewStore(),
		Prefs:      store.NewPreferencesStore(),
		Cache:      cache.NewClient(),
		Workspaces: f.api,
		Git:        f.git,
		Dialogs:    f.dialogs,
		DevServers: f.dev,
		Attempts:   f.attempts,
		SelectWorkspace: func(id string) {
			f.selected = append(f.selected, id)
		},
	}
	return f
}

func TestArchiveSelectsNextWorkspace(t *testing.T) {
	actives := []workspace.Active{{ID: "w1"}, {ID: "w2"}, {ID: "w3"}}

	tests := []struct {
		name       string
		target     string
		wantSelect []string
	}{
		{"middle selects following", "w2", []string{"w3"}},
		{"last falls back to previous", "w3", []string{"w2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExecFixture(workspace.Workspace{ID: tt.target, Name: tt.target})
			f.ec.ActiveWorkspaces = actives

			if err := archiveWorkspace(context.Background(), f.ec, tt.target); err != nil {
				t.Fatal(err)
			}
			if got := f.api.archivedCalls[tt.target]; !got {
				t.Error("Expected archived flag persisted")
			}
			if len(f.selected) != 1 || f.selected[0] != tt.wantSelect[0] {
				t.Errorf("Selected %v, want %v", f.selected, tt.wantSelect)
			}
		})
	}
}

func TestArchiveSoleWorkspaceSelectsNothing(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1"})
	f.ec.ActiveWorkspaces = []workspace.Active{{ID: "w1"}}

	if err := archiveWorkspace(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if len(f.selected) != 0 {
		t.Errorf("Expected no selection, got %v", f.selected)
	}
}

func TestUnarchiveNeverChangesSelection(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w2", Archived: true})
	f.ec.ActiveWorkspaces = []workspace.Active{{ID: "w1"}, {ID: "w2"}, {ID: "w3"}}

	if err := archiveWorkspace(context.Background(), f.ec, "w2"); err != nil {
		t.Fatal(err)
	}
	if got, ok := f.api.archivedCalls["w2"]; !ok || got {
		t.Errorf("Expected archived=false persisted, got %v/%v", got, ok)
	}
	if len(f.selected) != 0 {
		t.Errorf("Expected no selection on unarchive, got %v", f.selected)
	}
}

func TestArchiveInvalidatesWorkspaceQueries(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1"})
	notified := 0
	f.ec.Cache.Subscribe(cache.KeyWorkspaces, func() { notified++ })

	if err := archiveWorkspace(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if notified != 1 {
		t.Errorf("Expected workspace query invalidation, got %d", notified)
	}
}

func TestDeleteCurrentWorkspaceNavigatesToNext(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w2", Name: "two", Branch: "feat/two"})
	f.ec.ActiveWorkspaces = []workspace.Active{{ID: "w1"}, {ID: "w2"}, {ID: "w3"}}
	f.ec.CurrentWorkspaceID = "w2"
	f.dialogs.confirmDelete = dialog.ConfirmDeleteResult{Outcome: dialog.OutcomeConfirmed, DeleteBranches: true}

	if err := deleteWorkspace(context.Background(), f.ec, "w2"); err != nil {
		t.Fatal(err)
	}
	if len(f.api.deleted) != 1 || f.api.deleted[0] != "w2" {
		t.Fatalf("Expected w2 deleted, got %v", f.api.deleted)
	}
	if !f.api.deletedBranch {
		t.Error("Expected branch deletion per dialog result")
	}
	if len(f.selected) != 1 || f.selected[0] != "w3" {
		t.Errorf("Expected w3 selected, got %v", f.selected)
	}
	if got := f.ec.Navigator.Route().Path; got != "/workspaces/w3" {
		t.Errorf("Expected navigation to w3, got %q", got)
	}
}

func TestDeleteNonCurrentWorkspaceKeepsSelection(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w2"})
	f.ec.ActiveWorkspaces = []workspace.Active{{ID: "w1"}, {ID: "w2"}, {ID: "w3"}}
	f.ec.CurrentWorkspaceID = "w1"
	f.dialogs.confirmDelete = dialog.ConfirmDeleteResult{Outcome: dialog.OutcomeConfirmed}

	before := f.ec.Navigator.Route()
	if err := deleteWorkspace(context.Background(), f.ec, "w2"); err != nil {
		t.Fatal(err)
	}
	if len(f.selected) != 0 {
		t.Errorf("Expected no selection change, got %v", f.selected)
	}
	if f.ec.Navigator.Route() != before {
		t.Error("Expected no navigation for non-current delete")
	}
}

func TestDeleteLastWorkspaceNavigatesToCreate(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1"})
	f.ec.ActiveWorkspaces = []workspace.Active{{ID: "w1"}}
	f.ec.CurrentWorkspaceID = "w1"
	f.dialogs.confirmDelete = dialog.ConfirmDeleteResult{Outcome: dialog.OutcomeConfirmed}

	if err := deleteWorkspace(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	route := f.ec.Navigator.Route()
	if !route.CreateMode {
		t.Errorf("Expected creation flow, got %+v", route)
	}
}

func TestDeleteCancelledDoesNothing(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1"})
	f.dialogs.confirmDelete = dialog.ConfirmDeleteResult{Outcome: dialog.OutcomeCancelled}

	if err := deleteWorkspace(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if len(f.api.deleted) != 0 {
		t.Errorf("Expected no deletion on cancel, got %v", f.api.deleted)
	}
}

func TestDeleteUnlinksRemoteIssue(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1"})
	links := &fakeRemoteLinks{}
	f.ec.RemoteLinks = links
	f.ec.Remotes = []workspace.Remote{{LocalWorkspaceID: "w1", ProjectID: "p1", IssueID: "i1"}}
	f.dialogs.confirmDelete = dialog.ConfirmDeleteResult{Outcome: dialog.OutcomeConfirmed, UnlinkIssue: true}

	if err := deleteWorkspace(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if !f.dialogs.confirmDeleteOpts.HasLinkedIssue {
		t.Error("Expected dialog told about the linked issue")
	}
	if len(links.unlinked) != 1 || links.unlinked[0] != "w1" {
		t.Errorf("Expected unlink of w1, got %v", links.unlinked)
	}
}

func TestMergeAbortsOnOpenPR(t *testing.T) {
	f := newExecFixture()
	f.git.statuses = []git.BranchStatus{{
		RepoID: "r1",
		Merges: []git.MergeRecord{{Type: git.MergeTypePR, PR: &git.PRInfo{Status: git.PRStatusOpen}}},
	}}
	f.dialogs.merge = dialog.OutcomeConfirmed

	if err := mergeBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.git.merges != 0 {
		t.Error("Expected merge never invoked with an open PR")
	}
	if f.dialogs.infosShown != 1 {
		t.Errorf("Expected informational dialog, got %d", f.dialogs.infosShown)
	}
}

func TestMergeConflictsOpenDialogWhenNoAttemptRunning(t *testing.T) {
	f := newExecFixture()
	f.git.statuses = []git.BranchStatus{{RepoID: "r1", HasConflicts: true}}

	if err := mergeBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.dialogs.conflictsShown != 1 {
		t.Errorf("Expected conflict dialog, got %d", f.dialogs.conflictsShown)
	}
	if f.git.merges != 0 {
		t.Error("Expected no merge with unresolved conflicts")
	}
}

func TestMergeConflictsSkipDialogWhileAttemptRunning(t *testing.T) {
	f := newExecFixture()
	f.git.statuses = []git.BranchStatus{{RepoID: "r1", HasConflicts: true}}
	f.attempts.running = true
	f.dialogs.merge = dialog.OutcomeConfirmed

	if err := mergeBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.dialogs.conflictsShown != 0 {
		t.Error("Expected no conflict dialog while an attempt runs")
	}
}

func TestMergeBehindTargetRebasesOnConfirm(t *testing.T) {
	f := newExecFixture()
	f.git.statuses = []git.BranchStatus{{RepoID: "r1", CommitsBehind: 3}}
	f.dialogs.rebase = dialog.OutcomeConfirmed
	f.dialogs.merge = dialog.OutcomeConfirmed

	if err := mergeBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.git.rebases != 1 {
		t.Errorf("Expected rebase, got %d", f.git.rebases)
	}
	// Rebase only; the merge itself is never reached in this invocation.
	if f.git.merges != 0 {
		t.Error("Expected no merge after rebase confirmation")
	}
}

func TestMergeBehindTargetCancelledDoesNothing(t *testing.T) {
	f := newExecFixture()
	f.git.statuses = []git.BranchStatus{{RepoID: "r1", CommitsBehind: 3}}
	f.dialogs.rebase = dialog.OutcomeCancelled

	if err := mergeBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.git.rebases != 0 || f.git.merges != 0 {
		t.Error("Expected neither rebase nor merge on cancel")
	}
}

func TestMergeCleanBranchMergesOnConfirm(t *testing.T) {
	f := newExecFixture()
	f.git.statuses = []git.BranchStatus{{RepoID: "r1", CommitsAhead: 2}}
	f.dialogs.merge = dialog.OutcomeConfirmed

	if err := mergeBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.git.merges != 1 {
		t.Errorf("Expected merge, got %d", f.git.merges)
	}
	if f.dialogs.mergesShown != 1 {
		t.Error("Expected final confirmation dialog")
	}
}

func TestToggleDevServerStopsWhenRunning(t *testing.T) {
	f := newExecFixture()
	f.dev.running = []devserver.Process{{WorkspaceID: "w1", PID: 42}}

	if err := toggleDevServer(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if f.dev.stops != 1 || f.dev.starts != 0 {
		t.Errorf("Expected stop only, got starts=%d stops=%d", f.dev.starts, f.dev.stops)
	}
}

func TestToggleDevServerStartsAndShowsPreview(t *testing.T) {
	f := newExecFixture()

	if err := toggleDevServer(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if f.dev.starts != 1 {
		t.Errorf("Expected start, got %d", f.dev.starts)
	}
	if f.ec.Panels.RightMode() != store.RightPanelPreview {
		t.Errorf("Expected preview mode, got %v", f.ec.Panels.RightMode())
	}
}

func TestToggleDevServerCompactSwitchesActivePanel(t *testing.T) {
	f := newExecFixture()
	f.ec.Compact.UpdateTerminalWidth(store.CompactWidthThreshold - 1)

	if err := toggleDevServer(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if f.ec.Compact.ActivePanel() != store.CompactPanelRight {
		t.Errorf("Expected right panel active in compact layout, got %v", f.ec.Compact.ActivePanel())
	}
}

func TestToggleDevServerStartErrorPropagates(t *testing.T) {
	f := newExecFixture()
	f.dev.startErr = errors.New("no dev server script configured")

	err := toggleDevServer(context.Background(), f.ec, "w1")
	if err == nil {
		t.Fatal("Expected start error to propagate")
	}
	if f.ec.Panels.RightMode() == store.RightPanelPreview {
		t.Error("Expected no preview switch on failed start")
	}
}

func TestOpenInEditorFallsBackToSelection(t *testing.T) {
	f := newExecFixture()
	var calls []string
	f.ec.OpenEditor = func(ctx context.Context, workspaceID, editor string) error {
		calls = append(calls, editor)
		if editor == "" {
			return errors.New("default editor missing")
		}
		return nil
	}
	f.ec.Editors = []dialog.SelectItem{{ID: "zed", Label: "Zed"}}
	f.dialogs.selection = dialog.SelectResult{Outcome: dialog.OutcomeConfirmed, ID: "zed"}

	if err := openInEditor(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[1] != "zed" {
		t.Errorf("Expected retry with selected editor, got %v", calls)
	}
	if f.dialogs.selectsShown != 1 {
		t.Error("Expected editor selection dialog")
	}
}

func TestOpenInEditorSelectionCancelled(t *testing.T) {
	f := newExecFixture()
	f.ec.OpenEditor = func(ctx context.Context, workspaceID, editor string) error {
		return errors.New("boom")
	}
	f.dialogs.selection = dialog.SelectResult{Outcome: dialog.OutcomeCancelled}

	// Cancel resolves to a no-op, not an error.
	if err := openInEditor(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
}

func TestCopyBranchName(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1", Branch: "feat/panels"})
	var copied string
	f.ec.CopyToClipboard = func(text string) error {
		copied = text
		return nil
	}

	if err := copyBranchName(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if copied != "feat/panels" {
		t.Errorf("Expected branch name copied, got %q", copied)
	}
}

func TestPushInvalidatesBranchStatus(t *testing.T) {
	f := newExecFixture()
	notified := 0
	f.ec.Cache.Subscribe(cache.BranchStatusKey("w1"), func() { notified++ })

	if err := pushBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.git.pushes != 1 || f.git.forced {
		t.Errorf("Expected one non-forced push, got pushes=%d forced=%v", f.git.pushes, f.git.forced)
	}
	if notified != 1 {
		t.Error("Expected branch status invalidation")
	}
}

func TestChangeTargetBranch(t *testing.T) {
	f := newExecFixture()
	f.git.branches = []string{"main", "develop"}
	f.dialogs.selection = dialog.SelectResult{Outcome: dialog.OutcomeConfirmed, ID: "develop"}

	if err := changeTargetBranch(context.Background(), f.ec, "w1", "r1"); err != nil {
		t.Fatal(err)
	}
	if f.git.target != "develop" {
		t.Errorf("Expected target develop, got %q", f.git.target)
	}
}

func TestRenameWorkspace(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1", Name: "old"})
	f.dialogs.input = dialog.InputResult{Outcome: dialog.OutcomeConfirmed, Value: "new"}

	if err := renameWorkspace(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if f.api.renamed["w1"] != "new" {
		t.Errorf("Expected rename to new, got %q", f.api.renamed["w1"])
	}
}

func TestRenameWorkspaceUnchangedNameIsNoOp(t *testing.T) {
	f := newExecFixture(workspace.Workspace{ID: "w1", Name: "same"})
	f.dialogs.input = dialog.InputResult{Outcome: dialog.OutcomeConfirmed, Value: "same"}

	if err := renameWorkspace(context.Background(), f.ec, "w1"); err != nil {
		t.Fatal(err)
	}
	if len(f.api.renamed) != 0 {
		t.Errorf("Expected no rename call, got %v", f.api.renamed)
	}
}
