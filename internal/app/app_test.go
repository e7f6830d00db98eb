package app

import (
	"context"
	"testing"

	"github.com/quilthq/quilt/internal/config"
	"github.com/quilthq/quilt/internal/issues"
	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

func testModel() *Model {
	m := New(config.New(), "test", Deps{})
	m.workspaces = []workspace.Workspace{
		{ID: "w1", Name: "api", Repos: []workspace.Repo{{ID: "r1", Name: "api", Path: "/tmp/api", TargetBranch: "main"}}},
		{ID: "w2", Name: "web", Archived: true},
		{ID: "w3", Name: "cli"},
	}
	return m
}

func TestCurrentWorkspaceIDFromRoute(t *testing.T) {
	m := testModel()

	if got := m.currentWorkspaceID(); got != "" {
		t.Errorf("Expected no workspace at root, got %q", got)
	}
	m.navigator.NavigateToWorkspace("w1")
	if got := m.currentWorkspaceID(); got != "w1" {
		t.Errorf("Expected w1, got %q", got)
	}
	m.navigator.NavigateToProject("p1")
	if got := m.currentWorkspaceID(); got != "" {
		t.Errorf("Expected no workspace on a project route, got %q", got)
	}
}

func TestBuildContextTracksRoute(t *testing.T) {
	m := testModel()

	c := m.buildContext()
	if c.HasWorkspace {
		t.Error("Expected no workspace before navigation")
	}
	if c.LayoutMode != store.LayoutWorkspaces {
		t.Errorf("Expected workspaces layout, got %v", c.LayoutMode)
	}

	m.navigator.NavigateToWorkspace("w1")
	c = m.buildContext()
	if !c.HasWorkspace || !c.HasRepos {
		t.Errorf("Expected workspace with repos, got %+v", c)
	}

	m.navigator.NavigateToProject("p1")
	c = m.buildContext()
	if c.LayoutMode != store.LayoutKanban {
		t.Errorf("Expected kanban layout, got %v", c.LayoutMode)
	}
}

func TestActiveWorkspacesExcludeArchived(t *testing.T) {
	m := testModel()

	active := m.activeWorkspaces()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active entries, got %d", len(active))
	}
	for _, a := range active {
		if a.ID == "w2" {
			t.Error("Archived workspace listed as active")
		}
	}
}

func TestRestorePreferencesMapsSortNames(t *testing.T) {
	cfg := config.New()
	cfg.WorkspaceSort = "name"
	cfg.ShowArchived = true

	m := New(cfg, "test", Deps{})
	if m.prefs.Sort() != store.SortByName {
		t.Errorf("Expected name sort restored, got %v", m.prefs.Sort())
	}
	if !m.prefs.ShowArchived() {
		t.Error("Expected show-archived restored")
	}
}

func TestOpenSelectionNavigatesToCursor(t *testing.T) {
	m := testModel()

	m.moveSelection(1) // w1 -> w3 (w2 archived, hidden)
	m.openSelection()
	if got := m.currentWorkspaceID(); got != "w3" {
		t.Errorf("Expected navigation to w3, got %q", got)
	}
}

type fakeIssuesAPI struct {
	lists int
}

func (f *fakeIssuesAPI) List(ctx context.Context, projectID string) ([]issues.Issue, error) {
	f.lists++
	return []issues.Issue{{ID: "i1", ProjectID: projectID, Title: "First", Status: issues.StatusTodo}}, nil
}

func (f *fakeIssuesAPI) Get(ctx context.Context, id string) (issues.Issue, error) {
	return issues.Issue{}, nil
}

func (f *fakeIssuesAPI) SetStatus(ctx context.Context, id string, status issues.Status) error {
	return nil
}

func (f *fakeIssuesAPI) SetPriority(ctx context.Context, id string, priority issues.Priority) error {
	return nil
}

func (f *fakeIssuesAPI) SetAssignee(ctx context.Context, id, assignee string) error {
	return nil
}

func (f *fakeIssuesAPI) Link(ctx context.Context, id, otherID string, rel issues.Relationship) error {
	return nil
}

func TestIssuesReloadRequestRefetches(t *testing.T) {
	fake := &fakeIssuesAPI{}
	cfg := config.New()
	cfg.KanbanProjectID = "p1"
	m := New(cfg, "test", Deps{Issues: fake})

	_, cmd := m.Update(issuesReloadRequest{})
	if cmd == nil {
		t.Fatal("Expected a reload command for the issues family")
	}
	msg, ok := cmd().(issuesLoadedMsg)
	if !ok {
		t.Fatalf("Expected issuesLoadedMsg, got %T", cmd())
	}
	if msg.err != nil || len(msg.issues) != 1 {
		t.Errorf("Expected refetched issues, got %+v", msg)
	}
	if fake.lists == 0 {
		t.Error("Expected the issue API consulted on reload")
	}
}

func TestStatusReloadRequestRefetchesCurrentWorkspace(t *testing.T) {
	m := testModel()
	m.navigator.NavigateToWorkspace("w1")

	_, cmd := m.Update(statusReloadRequest{})
	if cmd == nil {
		t.Fatal("Expected a status reload command for the routed workspace")
	}

	m.navigator.NavigateToProject("p1")
	_, cmd = m.Update(statusReloadRequest{})
	if cmd != nil {
		t.Error("Expected no status reload without a routed workspace")
	}
}

func TestFindWorkspace(t *testing.T) {
	m := testModel()

	if _, ok := m.findWorkspace("w1"); !ok {
		t.Error("Expected to find w1")
	}
	if _, ok := m.findWorkspace("nope"); ok {
		t.Error("Expected miss for unknown id")
	}
}
