package action

import (
	"context"
	"fmt"

	"github.com/quilthq/quilt/internal/cache"
	"github.com/quilthq/quilt/internal/dialog"
	"github.com/quilthq/quilt/internal/git"
	"github.com/quilthq/quilt/internal/issues"
	"github.com/quilthq/quilt/internal/logger"
	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

// Executors perform the side effects behind registry entries. They do not
// catch errors; the UI shell surfaces whatever propagates. Dialog
// cancellation is an outcome, not an error, and returns nil.

func archiveWorkspace(ctx context.Context, ec *ExecContext, workspaceID string) error {
	ws, err := ec.Workspaces.Get(ctx, workspaceID)
	if err != nil {
		return err
	}
	archiving := !ws.Archived

	// The next selection must be computed before the mutation changes the
	// active list.
	next := ""
	if archiving {
		next = ec.NextWorkspace(workspaceID)
	}

	if err := ec.Workspaces.SetArchived(ctx, workspaceID, archiving); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.KeyWorkspaces, cache.WorkspaceKey(workspaceID))

	if archiving && next != "" && ec.SelectWorkspace != nil {
		ec.SelectWorkspace(next)
	}
	logger.WithComponent("action").Info("workspace archive toggled", "workspaceID", workspaceID, "archived", archiving)
	return nil
}

func deleteWorkspace(ctx context.Context, ec *ExecContext, workspaceID string) error {
	ws, err := ec.Workspaces.Get(ctx, workspaceID)
	if err != nil {
		return err
	}
	remote := workspace.FindRemote(ec.Remotes, workspaceID)
	statuses, err := ec.Git.BranchStatuses(ctx, workspaceID)
	if err != nil {
		return err
	}

	res, err := ec.Dialogs.ConfirmDelete(ctx, dialog.ConfirmDeleteOptions{
		WorkspaceName:  ws.Name,
		BranchName:     ws.Branch,
		HasOpenPR:      git.AnyOpenPR(statuses),
		HasLinkedIssue: remote != nil,
	})
	if err != nil {
		return err
	}
	if !res.Outcome.Confirmed() {
		return nil
	}

	// Only deleting the currently open workspace changes the selection.
	isCurrent := workspaceID == ec.CurrentWorkspaceID
	next := ""
	if isCurrent {
		next = ec.NextWorkspace(workspaceID)
	}

	if err := ec.Workspaces.Delete(ctx, workspaceID, res.DeleteBranches); err != nil {
		return err
	}
	if res.UnlinkIssue && remote != nil && ec.RemoteLinks != nil {
		if err := ec.RemoteLinks.Unlink(ctx, workspaceID); err != nil {
			return err
		}
	}
	ec.Cache.Invalidate(
		cache.KeyWorkspaces,
		cache.KeyRemoteWorkspaces,
		cache.WorkspaceKey(workspaceID),
		cache.BranchStatusKey(workspaceID),
	)

	if isCurrent {
		if next != "" {
			if ec.SelectWorkspace != nil {
				ec.SelectWorkspace(next)
			}
			ec.Navigator.NavigateToWorkspace(next)
		} else {
			ec.Navigator.NavigateToCreateWorkspace()
		}
	}
	return nil
}

func renameWorkspace(ctx context.Context, ec *ExecContext, workspaceID string) error {
	ws, err := ec.Workspaces.Get(ctx, workspaceID)
	if err != nil {
		return err
	}
	res, err := ec.Dialogs.Input(ctx, dialog.InputOptions{
		Title:   "Rename workspace",
		Initial: ws.Name,
	})
	if err != nil {
		return err
	}
	if !res.Outcome.Confirmed() || res.Value == "" || res.Value == ws.Name {
		return nil
	}
	if err := ec.Workspaces.Rename(ctx, workspaceID, res.Value); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.KeyWorkspaces, cache.WorkspaceKey(workspaceID))
	return nil
}

// mergeBranch integrates the workspace branch into its target. Open PRs
// must be resolved through the PR flow, never a direct merge. Conflicts
// open the resolution dialog unless an attempt is still running and may
// fix them itself. A branch behind its target is rebased on confirmation
// instead of merged.
func mergeBranch(ctx context.Context, ec *ExecContext, workspaceID, repoID string) error {
	statuses, err := ec.Git.BranchStatuses(ctx, workspaceID)
	if err != nil {
		return err
	}

	if git.AnyOpenPR(statuses) {
		return ec.Dialogs.ShowInfo(ctx, dialog.InfoOptions{
			Title:   "Open pull request",
			Message: "This branch has an open pull request. Merge or close the PR instead of merging directly.",
		})
	}

	if git.AnyConflicts(statuses) && !ec.Attempts.IsRunning(workspaceID) {
		repos := conflictedRepos(statuses)
		_, err := ec.Dialogs.ShowConflicts(ctx, dialog.ConflictOptions{
			WorkspaceName: workspaceID,
			RepoNames:     repos,
		})
		return err
	}

	if git.AnyBehindTarget(statuses) {
		behind := maxBehind(statuses)
		res, err := ec.Dialogs.PromptRebase(ctx, dialog.RebaseOptions{
			Branch:        firstBranch(statuses),
			TargetBranch:  firstTarget(statuses),
			CommitsBehind: behind,
		})
		if err != nil {
			return err
		}
		if !res.Outcome.Confirmed() {
			return nil
		}
		// Rebase only; the user re-triggers the merge afterwards.
		if err := ec.Git.Rebase(ctx, workspaceID); err != nil {
			return err
		}
		ec.Cache.Invalidate(cache.BranchStatusKey(workspaceID))
		return nil
	}

	res, err := ec.Dialogs.ConfirmMerge(ctx, dialog.MergeOptions{
		Branch:       firstBranch(statuses),
		TargetBranch: firstTarget(statuses),
		CommitsAhead: totalAhead(statuses),
	})
	if err != nil {
		return err
	}
	if !res.Outcome.Confirmed() {
		return nil
	}
	if err := ec.Git.Merge(ctx, workspaceID); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.BranchStatusKey(workspaceID), cache.KeyWorkspaces)
	return nil
}

func rebaseBranch(ctx context.Context, ec *ExecContext, workspaceID, repoID string) error {
	statuses, err := ec.Git.BranchStatuses(ctx, workspaceID)
	if err != nil {
		return err
	}
	res, err := ec.Dialogs.PromptRebase(ctx, dialog.RebaseOptions{
		Branch:        firstBranch(statuses),
		TargetBranch:  firstTarget(statuses),
		CommitsBehind: maxBehind(statuses),
	})
	if err != nil {
		return err
	}
	if !res.Outcome.Confirmed() {
		return nil
	}
	if err := ec.Git.Rebase(ctx, workspaceID); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.BranchStatusKey(workspaceID))
	return nil
}

func pushBranch(ctx context.Context, ec *ExecContext, workspaceID, repoID string) error {
	if err := ec.Git.Push(ctx, workspaceID, false); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.BranchStatusKey(workspaceID))
	return nil
}

func createPR(ctx context.Context, ec *ExecContext, workspaceID, repoID string) error {
	url, err := ec.Git.CreatePR(ctx, workspaceID)
	if err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.BranchStatusKey(workspaceID))
	if ec.Notify != nil {
		ec.Notify("Pull request created", url)
	}
	return nil
}

func changeTargetBranch(ctx context.Context, ec *ExecContext, workspaceID, repoID string) error {
	branches, err := ec.Git.ListBranches(ctx, workspaceID)
	if err != nil {
		return err
	}
	items := make([]dialog.SelectItem, 0, len(branches))
	for _, b := range branches {
		items = append(items, dialog.SelectItem{ID: b, Label: b})
	}
	res, err := ec.Dialogs.Select(ctx, dialog.SelectOptions{Title: "Target branch", Items: items})
	if err != nil {
		return err
	}
	if !res.Outcome.Confirmed() || res.ID == "" {
		return nil
	}
	if err := ec.Git.SetTargetBranch(ctx, workspaceID, res.ID); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.BranchStatusKey(workspaceID))
	return nil
}

// toggleDevServer stops the server when one is running, otherwise starts it
// and brings the preview surface forward.
func toggleDevServer(ctx context.Context, ec *ExecContext, workspaceID string) error {
	if len(ec.DevServers.RunningFor(workspaceID)) > 0 {
		return ec.DevServers.Stop(workspaceID)
	}
	if err := ec.DevServers.Start(ctx, workspaceID); err != nil {
		return err
	}
	ec.ShowPreview()
	return nil
}

func restartDevServer(ctx context.Context, ec *ExecContext, workspaceID string) error {
	if err := ec.DevServers.Stop(workspaceID); err != nil {
		return err
	}
	return ec.DevServers.Start(ctx, workspaceID)
}

func startAttempt(ctx context.Context, ec *ExecContext, workspaceID string) error {
	return ec.Attempts.Start(ctx, workspaceID)
}

func stopAttempt(ctx context.Context, ec *ExecContext, workspaceID string) error {
	return ec.Attempts.Stop(workspaceID)
}

// openInEditor falls back to an editor-selection dialog when the default
// editor fails to open, instead of surfacing the failure.
func openInEditor(ctx context.Context, ec *ExecContext, workspaceID string) error {
	err := ec.OpenEditor(ctx, workspaceID, "")
	if err == nil {
		return nil
	}
	logger.WithComponent("action").Warn("default editor failed, offering selection", "error", err)
	res, derr := ec.Dialogs.Select(ctx, dialog.SelectOptions{Title: "Open in editor", Items: ec.Editors})
	if derr != nil {
		return derr
	}
	if !res.Outcome.Confirmed() || res.ID == "" {
		return nil
	}
	return ec.OpenEditor(ctx, workspaceID, res.ID)
}

func copyBranchName(ctx context.Context, ec *ExecContext, workspaceID string) error {
	ws, err := ec.Workspaces.Get(ctx, workspaceID)
	if err != nil {
		return err
	}
	return ec.CopyToClipboard(ws.Branch)
}

func copyWorkspaceID(ctx context.Context, ec *ExecContext, workspaceID string) error {
	return ec.CopyToClipboard(workspaceID)
}

func setIssueStatus(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	status, ok, err := ec.SelectStatus(ctx)
	if err != nil || !ok {
		return err
	}
	for _, id := range issueIDs {
		if err := ec.Issues.SetStatus(ctx, id, status); err != nil {
			return err
		}
	}
	ec.Cache.Invalidate(cache.IssuesKey(projectID))
	return nil
}

func setIssuePriority(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	priority, ok, err := ec.SelectPriority(ctx)
	if err != nil || !ok {
		return err
	}
	for _, id := range issueIDs {
		if err := ec.Issues.SetPriority(ctx, id, priority); err != nil {
			return err
		}
	}
	ec.Cache.Invalidate(cache.IssuesKey(projectID))
	return nil
}

func setIssueAssignee(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	assignee, ok, err := ec.SelectAssignee(ctx, projectID)
	if err != nil || !ok {
		return err
	}
	for _, id := range issueIDs {
		if err := ec.Issues.SetAssignee(ctx, id, assignee); err != nil {
			return err
		}
	}
	ec.Cache.Invalidate(cache.IssuesKey(projectID))
	return nil
}

// addSubIssue attaches an existing issue as a sub-issue of the single
// selected issue.
func addSubIssue(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	if len(issueIDs) != 1 {
		return nil
	}
	chosen, ok, err := ec.SelectSubIssue(ctx, projectID)
	if err != nil || !ok {
		return err
	}
	if err := ec.Issues.Link(ctx, chosen, issueIDs[0], issues.RelationSub); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.IssuesKey(projectID))
	return nil
}

func setIssueRelationship(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	if len(issueIDs) != 1 {
		return nil
	}
	otherID, rel, ok, err := ec.SelectRelationship(ctx, projectID)
	if err != nil || !ok {
		return err
	}
	if err := ec.Issues.Link(ctx, issueIDs[0], otherID, rel); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.IssuesKey(projectID))
	return nil
}

func linkWorkspaceToIssue(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	if len(issueIDs) != 1 || ec.RemoteLinks == nil {
		return nil
	}
	wsID, ok, err := ec.SelectWorkspaceFor(ctx)
	if err != nil || !ok {
		return err
	}
	if err := ec.RemoteLinks.Link(ctx, wsID, projectID, issueIDs[0]); err != nil {
		return err
	}
	ec.Cache.Invalidate(cache.KeyRemoteWorkspaces, cache.IssuesKey(projectID))
	return nil
}

func duplicateIssue(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	if ec.Projects == nil {
		return nil
	}
	for _, id := range issueIDs {
		if _, err := ec.Projects.Duplicate(ctx, id); err != nil {
			return err
		}
	}
	ec.Cache.Invalidate(cache.IssuesKey(projectID))
	return nil
}

func deleteIssue(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	if ec.Projects == nil || len(issueIDs) == 0 {
		return nil
	}
	res, err := ec.Dialogs.Confirm(ctx, dialog.ConfirmOptions{
		Title:       "Delete issue",
		Message:     fmt.Sprintf("Delete %d issue(s)? This cannot be undone.", len(issueIDs)),
		Destructive: true,
	})
	if err != nil {
		return err
	}
	if !res.Outcome.Confirmed() {
		return nil
	}
	for _, id := range issueIDs {
		if err := ec.Projects.Remove(ctx, id); err != nil {
			return err
		}
	}
	ec.Cache.Invalidate(cache.IssuesKey(projectID))
	return nil
}

func viewParentIssue(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error {
	if len(issueIDs) != 1 {
		return nil
	}
	issue, err := ec.Issues.Get(ctx, issueIDs[0])
	if err != nil {
		return err
	}
	if issue.ParentIssueID == "" {
		return nil
	}
	ec.Navigator.NavigateToIssue(projectID, issue.ParentIssueID)
	return nil
}

func openPR(ctx context.Context, ec *ExecContext, workspaceID, repoID string) error {
	statuses, err := ec.Git.BranchStatuses(ctx, workspaceID)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		if pr := s.OpenPR(); pr != nil && ec.OpenURL != nil {
			return ec.OpenURL(pr.URL)
		}
	}
	return nil
}

// toggleRightPanel flips the right-main-panel mode and, in compact layout,
// brings the right panel forward when the mode ends up active.
func toggleRightPanel(ec *ExecContext, mode store.RightPanelMode) {
	ec.Panels.ToggleRightMode(mode)
	if ec.Compact != nil && ec.Compact.IsCompact() && ec.Panels.RightMode() == mode {
		ec.Compact.SetActivePanel(store.CompactPanelRight)
	}
}

func changeWorkspaceSort(ctx context.Context, ec *ExecContext) error {
	res, err := ec.Dialogs.Select(ctx, dialog.SelectOptions{
		Title: "Sort workspaces",
		Items: []dialog.SelectItem{
			{ID: "activity", Label: "Recent activity"},
			{ID: "name", Label: "Name"},
			{ID: "created", Label: "Created"},
		},
		Current: ec.Prefs.Sort().String(),
	})
	if err != nil {
		return err
	}
	if !res.Outcome.Confirmed() {
		return nil
	}
	switch res.ID {
	case "name":
		ec.Prefs.SetSort(store.SortByName)
	case "created":
		ec.Prefs.SetSort(store.SortByCreated)
	default:
		ec.Prefs.SetSort(store.SortByActivity)
	}
	return nil
}

func conflictedRepos(statuses []git.BranchStatus) []string {
	var out []string
	for _, s := range statuses {
		if s.HasConflicts {
			out = append(out, s.RepoID)
		}
	}
	return out
}

func firstBranch(statuses []git.BranchStatus) string {
	if len(statuses) > 0 {
		return statuses[0].Branch
	}
	return ""
}

func firstTarget(statuses []git.BranchStatus) string {
	if len(statuses) > 0 {
		return statuses[0].TargetBranch
	}
	return ""
}

func maxBehind(statuses []git.BranchStatus) int {
	behind := 0
	for _, s := range statuses {
		if s.CommitsBehind > behind {
			behind = s.CommitsBehind
		}
	}
	return behind
}

func totalAhead(statuses []git.BranchStatus) int {
	ahead := 0
	for _, s := range statuses {
		ahead += s.CommitsAhead
	}
	return ahead
}

// workspaceLabel builds an action label that names the workspace when one
// is supplied.
func workspaceLabel(verb string) func(ws *workspace.Workspace) string {
	return func(ws *workspace.Workspace) string {
		if ws == nil || ws.Name == "" {
			return verb
		}
		return fmt.Sprintf("%s %q", verb, ws.Name)
	}
}
