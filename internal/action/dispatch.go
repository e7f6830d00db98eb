package action

import (
	"context"
	"sync"

	"github.com/quilthq/quilt/internal/logger"
)

// Ref carries the target identifiers supplied by the caller at dispatch
// time. Which fields matter depends on the action's Target.
type Ref struct {
	WorkspaceID string
	RepoID      string
	ProjectID   string
	IssueIDs    []string
}

// Dispatcher invokes action executors with the parameter shape their Target
// implies. Unless a definition sets AllowConcurrent, a second dispatch of
// the same action on the same workspace while one is in flight is dropped.
type Dispatcher struct {
	mu       sync.Mutex
	inflight map[string]bool
}

// NewDispatcher creates a Dispatcher with no in-flight actions.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{inflight: make(map[string]bool)}
}

// Execute runs the action's executor. Errors from the executor propagate
// unchanged; the UI shell is the single point that surfaces them. A dropped
// duplicate invocation returns nil.
func (d *Dispatcher) Execute(ctx context.Context, def *Definition, ec *ExecContext, ref Ref) error {
	key := string(def.ID) + "\x00" + ref.WorkspaceID

	if !def.AllowConcurrent {
		d.mu.Lock()
		if d.inflight[key] {
			d.mu.Unlock()
			logger.WithComponent("action").Debug("dropped concurrent dispatch", "action", def.ID, "workspaceID", ref.WorkspaceID)
			return nil
		}
		d.inflight[key] = true
		d.mu.Unlock()
		defer func() {
			d.mu.Lock()
			delete(d.inflight, key)
			d.mu.Unlock()
		}()
	}

	switch {
	case def.Target == TargetWorkspace && ref.WorkspaceID != "" && def.RunWorkspace != nil:
		return def.RunWorkspace(ctx, ec, ref.WorkspaceID)
	case def.Target == TargetGit && ref.WorkspaceID != "" && def.RunGit != nil:
		return def.RunGit(ctx, ec, ref.WorkspaceID, ref.RepoID)
	case def.Target == TargetIssue && ref.ProjectID != "" && def.RunIssue != nil:
		return def.RunIssue(ctx, ec, ref.ProjectID, ref.IssueIDs)
	default:
		if def.Run != nil {
			return def.Run(ctx, ec)
		}
		return nil
	}
}
