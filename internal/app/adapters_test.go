package app

import (
	"context"
	"strings"
	"testing"

	"github.com/quilthq/quilt/internal/errors"
	"github.com/quilthq/quilt/internal/git"
	"github.com/quilthq/quilt/internal/workspace"
)

type recordingExecutor struct {
	commands []string
	output   string
}

func (r *recordingExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	r.commands = append(r.commands, dir+": "+name+" "+strings.Join(args, " "))
	return []byte(r.output), nil
}

func (r *recordingExecutor) Run(ctx context.Context, dir, name string, args ...string) error {
	r.commands = append(r.commands, dir+": "+name+" "+strings.Join(args, " "))
	return nil
}

func multiRepoResolver(id string) (workspace.Workspace, bool) {
	if id != "w1" {
		return workspace.Workspace{}, false
	}
	return workspace.Workspace{
		ID:     "w1",
		Name:   "api",
		Branch: "feature",
		Repos: []workspace.Repo{
			{ID: "r1", Path: "/repos/api", TargetBranch: "main"},
			{ID: "r2", Path: "/repos/web", TargetBranch: "develop"},
		},
	}, true
}

func TestMergeFansOutOverRepos(t *testing.T) {
	rec := &recordingExecutor{}
	ctl := newGitControl(git.NewServiceWithExecutor(rec), multiRepoResolver)

	if err := ctl.Merge(context.Background(), "w1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var apiMerge, webMerge bool
	for _, c := range rec.commands {
		if strings.HasPrefix(c, "/repos/api:") && strings.Contains(c, "merge feature") {
			apiMerge = true
		}
		if strings.HasPrefix(c, "/repos/web:") && strings.Contains(c, "merge feature") {
			webMerge = true
		}
	}
	if !apiMerge || !webMerge {
		t.Errorf("Expected merge in both repos, got %v", rec.commands)
	}
}

func TestMergeUsesPerRepoTarget(t *testing.T) {
	rec := &recordingExecutor{}
	ctl := newGitControl(git.NewServiceWithExecutor(rec), multiRepoResolver)

	if err := ctl.Merge(context.Background(), "w1"); err != nil {
		t.Fatal(err)
	}

	var sawMain, sawDevelop bool
	for _, c := range rec.commands {
		if strings.Contains(c, "checkout main") {
			sawMain = true
		}
		if strings.Contains(c, "checkout develop") {
			sawDevelop = true
		}
	}
	if !sawMain || !sawDevelop {
		t.Errorf("Expected per-repo targets, got %v", rec.commands)
	}
}

func TestSetTargetBranchOverrides(t *testing.T) {
	rec := &recordingExecutor{}
	ctl := newGitControl(git.NewServiceWithExecutor(rec), multiRepoResolver)

	if err := ctl.SetTargetBranch(context.Background(), "w1", "release"); err != nil {
		t.Fatal(err)
	}
	if err := ctl.Merge(context.Background(), "w1"); err != nil {
		t.Fatal(err)
	}

	for _, c := range rec.commands {
		if strings.Contains(c, "checkout main") || strings.Contains(c, "checkout develop") {
			t.Errorf("Expected override to replace recorded targets, got %v", rec.commands)
		}
	}
}

func TestListBranchesUsesFirstRepo(t *testing.T) {
	rec := &recordingExecutor{output: "main\nfeature\nrelease\n"}
	ctl := newGitControl(git.NewServiceWithExecutor(rec), multiRepoResolver)

	branches, err := ctl.ListBranches(context.Background(), "w1")
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 3 || branches[1] != "feature" {
		t.Errorf("Expected parsed branch list, got %v", branches)
	}
	if !strings.HasPrefix(rec.commands[0], "/repos/api:") {
		t.Errorf("Expected first repo queried, got %v", rec.commands)
	}
}

func TestUnknownWorkspaceIsNotFound(t *testing.T) {
	ctl := newGitControl(git.NewServiceWithExecutor(&recordingExecutor{}), multiRepoResolver)

	err := ctl.Merge(context.Background(), "nope")
	if err == nil {
		t.Fatal("Expected error for unknown workspace")
	}
	if errors.GetKind(err) != errors.KindNotFound {
		t.Errorf("Expected not-found kind, got %v", errors.GetKind(err))
	}
}
