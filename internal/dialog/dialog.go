// Package dialog defines the typed prompts the action layer raises and the
// results it consumes. The terminal implementation lives in the ui package;
// executors only see the Service interface so tests can script answers.
package dialog

import "context"

// Outcome is how the user resolved a dialog.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeCancelled Outcome = "cancelled"
)

// Confirmed reports whether the outcome accepted the prompt.
func (o Outcome) Confirmed() bool {
	return o == OutcomeConfirmed
}

// ConfirmDeleteOptions parameterizes the workspace delete confirmation.
type ConfirmDeleteOptions struct {
	WorkspaceName  string
	BranchName     string
	HasOpenPR      bool
	HasLinkedIssue bool
}

// ConfirmDeleteResult carries the delete confirmation plus its checkboxes.
type ConfirmDeleteResult struct {
	Outcome        Outcome
	DeleteBranches bool
	UnlinkIssue    bool
}

// MergeOptions parameterizes the merge confirmation.
type MergeOptions struct {
	Branch       string
	TargetBranch string
	CommitsAhead int
}

// RebaseOptions parameterizes the rebase prompt shown when the branch is
// behind its target.
type RebaseOptions struct {
	Branch        string
	TargetBranch  string
	CommitsBehind int
}

// ConfirmOptions parameterizes a generic confirm/cancel dialog.
type ConfirmOptions struct {
	Title       string
	Message     string
	Destructive bool
}

// InfoOptions parameterizes a dismissable informational dialog.
type InfoOptions struct {
	Title   string
	Message string
}

// ConflictOptions parameterizes the merge-conflict dialog.
type ConflictOptions struct {
	WorkspaceName string
	RepoNames     []string
}

// ConfirmResult is the result of a plain confirm/cancel dialog.
type ConfirmResult struct {
	Outcome Outcome
}

// SelectItem is one choice in a selection dialog.
type SelectItem struct {
	ID    string
	Label string
}

// SelectOptions parameterizes a single-choice selection dialog.
type SelectOptions struct {
	Title string
	Items []SelectItem
	// Current preselects an item by id.
	Current string
}

// SelectResult carries the chosen item id; empty when cancelled.
type SelectResult struct {
	Outcome Outcome
	ID      string
}

// InputOptions parameterizes a single-line text input dialog.
type InputOptions struct {
	Title       string
	Placeholder string
	Initial     string
}

// InputResult carries the entered text; empty when cancelled.
type InputResult struct {
	Outcome Outcome
	Value   string
}

// Service raises dialogs and blocks until the user resolves them. Every
// method honors ctx cancellation by returning a cancelled result.
type Service interface {
	Confirm(ctx context.Context, opts ConfirmOptions) (ConfirmResult, error)
	ConfirmDelete(ctx context.Context, opts ConfirmDeleteOptions) (ConfirmDeleteResult, error)
	ConfirmMerge(ctx context.Context, opts MergeOptions) (ConfirmResult, error)
	PromptRebase(ctx context.Context, opts RebaseOptions) (ConfirmResult, error)
	ShowInfo(ctx context.Context, opts InfoOptions) error
	ShowConflicts(ctx context.Context, opts ConflictOptions) (ConfirmResult, error)
	Select(ctx context.Context, opts SelectOptions) (SelectResult, error)
	Input(ctx context.Context, opts InputOptions) (InputResult, error)
}
