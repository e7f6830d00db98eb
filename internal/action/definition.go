// Package action implements the declarative UI action system: a static
// registry of action definitions, pure resolution of their visibility and
// presentation from an immutable context snapshot, navbar composition, and
// dispatch against a capability bundle that performs the side effects.
package action

import (
	"context"

	"github.com/quilthq/quilt/internal/workspace"
)

// ID is a stable action identifier, unique across the registry.
type ID string

// Target selects the parameter shape of an action's executor.
type Target int

const (
	// TargetNone executors take only the execution context.
	TargetNone Target = iota
	// TargetWorkspace executors additionally take a workspace id.
	TargetWorkspace
	// TargetGit executors take a workspace id and a repository id.
	TargetGit
	// TargetIssue executors take a project id and an ordered issue-id set.
	TargetIssue
)

// Icon is a glyph handle rendered in the navbar, or one of the two reserved
// sentinel tags below.
type Icon string

// Sentinel icons mark actions whose rendering needs a bespoke widget (the
// dev-server state indicator and the attempt spinner). They are excluded
// from generic icon-strip rendering entirely.
const (
	IconDevServerIndicator Icon = "__dev_server__"
	IconAttemptSpinner     Icon = "__attempt__"
)

// Style selects the render variant for an action.
type Style int

const (
	StyleDefault Style = iota
	StyleDestructive
)

// Definition is one entry in the action registry. Target decides which Run
// field is set; exactly one must be non-nil. Omitted override functions
// fall back to the defaults applied in resolve.go.
type Definition struct {
	ID       ID
	Target   Target
	Label    string
	Icon     Icon
	Shortcut string
	Style    Style
	Keywords []string

	// AllowConcurrent permits a second dispatch of this action while one is
	// still in flight for the same workspace. Defaults to false.
	AllowConcurrent bool

	// LabelFunc, when set, computes the label from the optional workspace.
	LabelFunc func(ws *workspace.Workspace) string

	IsVisible  func(c Context) bool
	IsActive   func(c Context) bool
	IsEnabled  func(c Context) bool
	GetIcon    func(c Context) Icon
	GetTooltip func(c Context) string
	GetLabel   func(c Context, ws *workspace.Workspace) string

	Run          func(ctx context.Context, ec *ExecContext) error
	RunWorkspace func(ctx context.Context, ec *ExecContext, workspaceID string) error
	RunGit       func(ctx context.Context, ec *ExecContext, workspaceID, repoID string) error
	RunIssue     func(ctx context.Context, ec *ExecContext, projectID string, issueIDs []string) error
}

// Entry is one element of an ordered navbar sequence: either a Definition
// or a divider marker.
type Entry struct {
	Def     *Definition
	Divider bool
}

// Act wraps a definition as a navbar entry.
func Act(def *Definition) Entry { return Entry{Def: def} }

// Sep is a divider navbar entry.
func Sep() Entry { return Entry{Divider: true} }
