package issues

import "context"

// API is the remote issue surface the action layer calls.
type API interface {
	// List returns the issues on a project board.
	List(ctx context.Context, projectID string) ([]Issue, error)
	// Get fetches a single issue.
	Get(ctx context.Context, id string) (Issue, error)
	// SetStatus moves an issue to another column.
	SetStatus(ctx context.Context, id string, status Status) error
	// SetPriority changes an issue's priority.
	SetPriority(ctx context.Context, id string, priority Priority) error
	// SetAssignee assigns an issue; empty assignee unassigns.
	SetAssignee(ctx context.Context, id, assignee string) error
	// Link records a relationship between two issues.
	Link(ctx context.Context, id, otherID string, rel Relationship) error
}

// ProjectMutations are the board-level operations issue actions dispatch
// through. Kept separate from API so read-only views depend on less.
type ProjectMutations interface {
	// Remove deletes an issue from its board.
	Remove(ctx context.Context, id string) error
	// Duplicate clones an issue onto the same board and returns the copy.
	Duplicate(ctx context.Context, id string) (Issue, error)
	// CreateSubIssue creates a child issue under parent.
	CreateSubIssue(ctx context.Context, parentID, title string) (Issue, error)
}
