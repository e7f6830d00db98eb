package workspace

import "context"

// API is the remote workspace surface the executors call. Implementations
// perform HTTP requests; they are out of scope for this repository.
type API interface {
	// Get fetches a workspace by id.
	Get(ctx context.Context, id string) (Workspace, error)
	// SetArchived persists the archived flag.
	SetArchived(ctx context.Context, id string, archived bool) error
	// Delete removes the workspace. When deleteBranches is true the
	// workspace branches are deleted in every attached repository.
	Delete(ctx context.Context, id string, deleteBranches bool) error
	// Rename changes the workspace display name.
	Rename(ctx context.Context, id, name string) error
}

// RemoteLinks resolves cross-links between local workspaces and remote
// project issues.
type RemoteLinks interface {
	// List returns all remote workspace records.
	List(ctx context.Context) ([]Remote, error)
	// Link records a link between a local workspace and a project issue.
	Link(ctx context.Context, localWorkspaceID, projectID, issueID string) error
	// Unlink removes the link between a local workspace and its issue.
	Unlink(ctx context.Context, localWorkspaceID string) error
}
