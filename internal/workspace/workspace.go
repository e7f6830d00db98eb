// Package workspace defines the workspace data model and the API contracts
// the action layer executes against. The HTTP client implementing the API
// lives outside this repository; tests use fakes.
package workspace

import "time"

// Repo is one git repository attached to a workspace.
type Repo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	TargetBranch string `json:"target_branch"`
}

// Workspace is a unit of isolated work: a branch checked out across one or
// more repositories.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Branch    string    `json:"branch"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	Repos     []Repo    `json:"repos,omitempty"`
}

// HasMultipleRepos reports whether the workspace spans more than one repo.
func (w Workspace) HasMultipleRepos() bool {
	return len(w.Repos) > 1
}

// Active is a lightweight entry in the ordered active-workspace list shown
// in the sidebar.
type Active struct {
	ID        string
	IsRunning bool
}

// Remote links a local workspace to an issue on a remote project board.
type Remote struct {
	LocalWorkspaceID string `json:"local_workspace_id"`
	ProjectID        string `json:"project_id"`
	IssueID          string `json:"issue_id"`
}

// FindRemote returns the remote record for a local workspace, or nil.
func FindRemote(remotes []Remote, localWorkspaceID string) *Remote {
	for i := range remotes {
		if remotes[i].LocalWorkspaceID == localWorkspaceID {
			return &remotes[i]
		}
	}
	return nil
}

// NextToSelect computes which workspace to select after removing target
// from the active list: the entry immediately after it, falling back to
// the entry immediately before, or "" when the list has one entry or less.
func NextToSelect(active []Active, targetID string) string {
	if len(active) <= 1 {
		return ""
	}
	for i, a := range active {
		if a.ID != targetID {
			continue
		}
		if i+1 < len(active) {
			return active[i+1].ID
		}
		if i > 0 {
			return active[i-1].ID
		}
		return ""
	}
	return ""
}
