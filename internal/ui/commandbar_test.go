package ui

import (
	"testing"

	"github.com/quilthq/quilt/internal/action"
)

func openedBar(t *testing.T) (*CommandBar, action.Context) {
	t.Helper()
	b := NewCommandBar(NewStyles(ThemeByName("dark")))
	c := action.Context{HasWorkspace: true, HasRepos: true}
	b.Open(action.NewRegistry(), c, func(def *action.Definition) string {
		return action.ResolveLabel(def, nil)
	})
	return b, c
}

func TestOpenExcludesHiddenActions(t *testing.T) {
	b, c := openedBar(t)

	for _, e := range b.entries {
		if !action.Visible(e.def, c) {
			t.Errorf("Hidden action %s offered in palette", e.def.ID)
		}
		if !action.Enabled(e.def, c) {
			t.Errorf("Disabled action %s offered in palette", e.def.ID)
		}
	}
	if len(b.entries) == 0 {
		t.Fatal("Expected some candidates for a routed workspace")
	}
}

func TestFilterMatchesKeywords(t *testing.T) {
	b, _ := openedBar(t)

	b.query = "archive"
	b.refilter()
	if len(b.matches) == 0 {
		t.Fatal("Expected a match for archive")
	}
	found := false
	for _, m := range b.matches {
		if b.entries[m.Index].def.ID == action.ArchiveWorkspace {
			found = true
		}
	}
	if !found {
		t.Error("Expected archive-workspace among matches")
	}
	if b.Selected() == nil {
		t.Error("Expected a selected definition")
	}
}

func TestSelectedNilWhenNoMatches(t *testing.T) {
	b, _ := openedBar(t)

	b.query = "zzzzzzzz"
	b.refilter()
	if def := b.Selected(); def != nil {
		t.Errorf("Expected nil selection, got %s", def.ID)
	}
}
