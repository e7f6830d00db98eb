package ui

import (
	"testing"
	"time"

	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/workspace"
)

func testWorkspaces() []workspace.Workspace {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []workspace.Workspace{
		{ID: "w1", Name: "zeta", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "w2", Name: "alpha", CreatedAt: base},
		{ID: "w3", Name: "mid", Archived: true, CreatedAt: base.Add(time.Hour)},
	}
}

func TestVisibleHidesArchivedByDefault(t *testing.T) {
	s := NewSidebar(NewStyles(ThemeByName("dark")), store.NewPreferencesStore())

	got := s.Visible(testWorkspaces())
	if len(got) != 2 {
		t.Fatalf("Expected archived hidden, got %d entries", len(got))
	}
	for _, w := range got {
		if w.Archived {
			t.Errorf("Archived workspace %s leaked through filter", w.ID)
		}
	}
}

func TestVisibleShowsArchivedWhenEnabled(t *testing.T) {
	prefs := store.NewPreferencesStore()
	prefs.SetShowArchived(true)
	s := NewSidebar(NewStyles(ThemeByName("dark")), prefs)

	if got := s.Visible(testWorkspaces()); len(got) != 3 {
		t.Errorf("Expected all 3 entries, got %d", len(got))
	}
}

func TestVisibleSortByName(t *testing.T) {
	prefs := store.NewPreferencesStore()
	prefs.SetSort(store.SortByName)
	s := NewSidebar(NewStyles(ThemeByName("dark")), prefs)

	got := s.Visible(testWorkspaces())
	if got[0].Name != "alpha" || got[1].Name != "zeta" {
		t.Errorf("Expected name order alpha,zeta got %s,%s", got[0].Name, got[1].Name)
	}
}

func TestVisibleSortByCreatedNewestFirst(t *testing.T) {
	prefs := store.NewPreferencesStore()
	prefs.SetSort(store.SortByCreated)
	s := NewSidebar(NewStyles(ThemeByName("dark")), prefs)

	got := s.Visible(testWorkspaces())
	if got[0].ID != "w1" {
		t.Errorf("Expected newest workspace first, got %s", got[0].ID)
	}
}

func TestVisibleActivityPreservesOrder(t *testing.T) {
	s := NewSidebar(NewStyles(ThemeByName("dark")), store.NewPreferencesStore())

	got := s.Visible(testWorkspaces())
	if got[0].ID != "w1" || got[1].ID != "w2" {
		t.Errorf("Expected caller order preserved, got %s,%s", got[0].ID, got[1].ID)
	}
}

func TestMoveCursorClamps(t *testing.T) {
	s := NewSidebar(NewStyles(ThemeByName("dark")), store.NewPreferencesStore())

	s.MoveCursor(-3, 2)
	if s.Cursor() != 0 {
		t.Errorf("Expected cursor clamped to 0, got %d", s.Cursor())
	}
	s.MoveCursor(10, 2)
	if s.Cursor() != 1 {
		t.Errorf("Expected cursor clamped to 1, got %d", s.Cursor())
	}
	s.MoveCursor(1, 0)
	if s.Cursor() != 0 {
		t.Errorf("Expected cursor reset on empty list, got %d", s.Cursor())
	}
}
