// Package git provides branch status inspection and branch operations for
// workspace repositories. Operations shell out to the git CLI through an
// Executor so tests can substitute a fake.
package git

// PRStatus is the lifecycle state of a pull request attached to a branch.
type PRStatus string

const (
	PRStatusOpen   PRStatus = "open"
	PRStatusClosed PRStatus = "closed"
	PRStatusMerged PRStatus = "merged"
)

// MergeType distinguishes how a branch was (or is being) integrated.
type MergeType string

const (
	MergeTypePR     MergeType = "pr"
	MergeTypeDirect MergeType = "direct"
)

// PRInfo describes a pull request referenced by a merge record.
type PRInfo struct {
	Number int      `json:"number"`
	URL    string   `json:"url"`
	Status PRStatus `json:"status"`
}

// MergeRecord is one integration event (or pending PR) for a branch.
type MergeRecord struct {
	Type MergeType `json:"type"`
	PR   *PRInfo   `json:"pr,omitempty"`
}

// BranchStatus is the per-repository git state consumed by the action layer.
type BranchStatus struct {
	RepoID             string        `json:"repo_id"`
	Branch             string        `json:"branch"`
	TargetBranch       string        `json:"target_branch"`
	CommitsAhead       int           `json:"commits_ahead"`        // local commits not on target
	CommitsBehind      int           `json:"commits_behind"`       // target commits not on branch
	RemoteCommitsAhead int           `json:"remote_commits_ahead"` // local commits not pushed to the remote branch
	HasConflicts       bool          `json:"has_conflicts"`
	HasUncommitted     bool          `json:"has_uncommitted"`
	Merges             []MergeRecord `json:"merges,omitempty"`
}

// OpenPR returns the open pull request for this branch, or nil.
func (s BranchStatus) OpenPR() *PRInfo {
	for _, m := range s.Merges {
		if m.Type == MergeTypePR && m.PR != nil && m.PR.Status == PRStatusOpen {
			return m.PR
		}
	}
	return nil
}

// HasOpenPR reports whether any merge record is an open pull request.
func (s BranchStatus) HasOpenPR() bool {
	return s.OpenPR() != nil
}

// HasUnpushedCommits reports whether the local branch is ahead of its remote.
func (s BranchStatus) HasUnpushedCommits() bool {
	return s.RemoteCommitsAhead > 0
}

// IsBehindTarget reports whether the target branch has commits this branch lacks.
func (s BranchStatus) IsBehindTarget() bool {
	return s.CommitsBehind > 0
}

// AnyOpenPR reports whether any of the given statuses has an open PR.
func AnyOpenPR(statuses []BranchStatus) bool {
	for _, s := range statuses {
		if s.HasOpenPR() {
			return true
		}
	}
	return false
}

// AnyUnpushedCommits reports whether any of the given statuses has commits
// not yet pushed to its remote.
func AnyUnpushedCommits(statuses []BranchStatus) bool {
	for _, s := range statuses {
		if s.HasUnpushedCommits() {
			return true
		}
	}
	return false
}

// AnyConflicts reports whether any of the given statuses has unresolved
// merge conflicts against its target.
func AnyConflicts(statuses []BranchStatus) bool {
	for _, s := range statuses {
		if s.HasConflicts {
			return true
		}
	}
	return false
}

// AnyBehindTarget reports whether any branch is behind its target.
func AnyBehindTarget(statuses []BranchStatus) bool {
	for _, s := range statuses {
		if s.IsBehindTarget() {
			return true
		}
	}
	return false
}
