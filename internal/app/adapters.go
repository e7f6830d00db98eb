package app

import (
	"context"
	"sync"

	"github.com/quilthq/quilt/internal/attempt"
	"github.com/quilthq/quilt/internal/devserver"
	"github.com/quilthq/quilt/internal/errors"
	"github.com/quilthq/quilt/internal/git"
	"github.com/quilthq/quilt/internal/workspace"
)

// resolveFunc looks up a workspace by id from the app's loaded data.
type resolveFunc func(workspaceID string) (workspace.Workspace, bool)

// gitControl adapts the git CLI service to the per-workspace branch
// operations executors need. A workspace operation fans out over every
// attached repo and stops at the first failure.
type gitControl struct {
	svc     *git.Service
	resolve resolveFunc

	// Target branch overrides set at runtime, keyed by repo id. The backing
	// workspace record is refreshed on the next data reload.
	mu        sync.Mutex
	overrides map[string]string
}

func newGitControl(svc *git.Service, resolve resolveFunc) *gitControl {
	return &gitControl{svc: svc, resolve: resolve, overrides: map[string]string{}}
}

func (g *gitControl) target(repo workspace.Repo) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok := g.overrides[repo.ID]; ok {
		return t
	}
	return repo.TargetBranch
}

func (g *gitControl) repos(workspaceID string) (workspace.Workspace, []workspace.Repo, error) {
	ws, ok := g.resolve(workspaceID)
	if !ok {
		return workspace.Workspace{}, nil, errors.E(errors.Op("git.repos"), errors.KindNotFound, "unknown workspace "+workspaceID)
	}
	if len(ws.Repos) == 0 {
		return ws, nil, errors.E(errors.Op("git.repos"), errors.KindInvalid, "workspace has no repos")
	}
	return ws, ws.Repos, nil
}

func (g *gitControl) BranchStatuses(ctx context.Context, workspaceID string) ([]git.BranchStatus, error) {
	ws, repos, err := g.repos(workspaceID)
	if err != nil {
		return nil, err
	}
	statuses := make([]git.BranchStatus, 0, len(repos))
	for _, repo := range repos {
		st, err := g.svc.BranchStatus(ctx, repo.ID, repo.Path, ws.Branch, g.target(repo))
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (g *gitControl) Merge(ctx context.Context, workspaceID string) error {
	ws, repos, err := g.repos(workspaceID)
	if err != nil {
		return err
	}
	for _, repo := range repos {
		if err := g.svc.Merge(ctx, repo.Path, ws.Branch, g.target(repo)); err != nil {
			return err
		}
	}
	return nil
}

func (g *gitControl) Rebase(ctx context.Context, workspaceID string) error {
	ws, repos, err := g.repos(workspaceID)
	if err != nil {
		return err
	}
	for _, repo := range repos {
		if err := g.svc.Rebase(ctx, repo.Path, ws.Branch, g.target(repo)); err != nil {
			return err
		}
	}
	return nil
}

func (g *gitControl) Push(ctx context.Context, workspaceID string, force bool) error {
	ws, repos, err := g.repos(workspaceID)
	if err != nil {
		return err
	}
	for _, repo := range repos {
		if err := g.svc.Push(ctx, repo.Path, ws.Branch, force); err != nil {
			return err
		}
	}
	return nil
}

func (g *gitControl) CreatePR(ctx context.Context, workspaceID string) (string, error) {
	ws, repos, err := g.repos(workspaceID)
	if err != nil {
		return "", err
	}
	repo := repos[0]
	return g.svc.CreatePR(ctx, repo.Path, ws.Branch, g.target(repo), ws.Name, "")
}

func (g *gitControl) SetTargetBranch(ctx context.Context, workspaceID, branch string) error {
	_, repos, err := g.repos(workspaceID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	for _, repo := range repos {
		g.overrides[repo.ID] = branch
	}
	g.mu.Unlock()
	return nil
}

func (g *gitControl) ListBranches(ctx context.Context, workspaceID string) ([]string, error) {
	_, repos, err := g.repos(workspaceID)
	if err != nil {
		return nil, err
	}
	return g.svc.Branches(ctx, repos[0].Path)
}

// devControl adapts the dev server manager: it resolves the workspace's
// primary repo and its .quilt.yaml scripts before delegating.
type devControl struct {
	mgr     *devserver.Manager
	resolve resolveFunc
}

func newDevControl(mgr *devserver.Manager, resolve resolveFunc) *devControl {
	return &devControl{mgr: mgr, resolve: resolve}
}

func (d *devControl) RunningFor(workspaceID string) []devserver.Process {
	return d.mgr.RunningFor(workspaceID)
}

func (d *devControl) Start(ctx context.Context, workspaceID string) error {
	ws, ok := d.resolve(workspaceID)
	if !ok || len(ws.Repos) == 0 {
		return errors.E(errors.Op("devserver.Start"), errors.KindNotFound, "no repo for workspace "+workspaceID)
	}
	path := ws.Repos[0].Path
	scripts, err := devserver.LoadProjectScripts(path)
	if err != nil {
		return err
	}
	return d.mgr.Start(ctx, workspaceID, path, scripts)
}

func (d *devControl) Stop(workspaceID string) error {
	return d.mgr.Stop(workspaceID)
}

// attemptControl adapts the attempt runner.
type attemptControl struct {
	runner  *attempt.Runner
	resolve resolveFunc
}

func newAttemptControl(runner *attempt.Runner, resolve resolveFunc) *attemptControl {
	return &attemptControl{runner: runner, resolve: resolve}
}

func (a *attemptControl) IsRunning(workspaceID string) bool {
	return a.runner.IsRunning(workspaceID)
}

func (a *attemptControl) Start(ctx context.Context, workspaceID string) error {
	ws, ok := a.resolve(workspaceID)
	if !ok || len(ws.Repos) == 0 {
		return errors.E(errors.Op("attempt.Start"), errors.KindNotFound, "no repo for workspace "+workspaceID)
	}
	return a.runner.Start(ctx, workspaceID, ws.Repos[0].Path)
}

func (a *attemptControl) Stop(workspaceID string) error {
	return a.runner.Stop(workspaceID)
}
