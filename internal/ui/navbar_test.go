package ui

import (
	"strings"
	"testing"

	"github.com/quilthq/quilt/internal/action"
)

func TestGlyphFallsBackToBullet(t *testing.T) {
	if got := Glyph("no-such-icon"); got != "•" {
		t.Errorf("Expected bullet fallback, got %q", got)
	}
	if got := Glyph("merge"); got == "•" {
		t.Error("Expected a mapped glyph for merge")
	}
}

func TestNavbarViewRendersItemsAndDividers(t *testing.T) {
	n := NewNavbar(NewStyles(ThemeByName("dark")))
	n.SetWidth(80)

	row := n.View([]action.Item{
		{ID: "a", Icon: "merge", Shortcut: "m"},
		{IsDivider: true},
		{ID: "b", Icon: "trash", Disabled: true},
	})
	if !strings.Contains(row, "│") {
		t.Error("Expected a divider glyph in the row")
	}
	if !strings.Contains(row, "m") {
		t.Error("Expected the shortcut next to the icon")
	}
}

func TestTooltipForSkipsDividers(t *testing.T) {
	n := NewNavbar(NewStyles(ThemeByName("dark")))
	items := []action.Item{
		{ID: "a", Tooltip: "Merge branch"},
		{IsDivider: true},
		{ID: "b", Tooltip: "Delete workspace"},
	}

	if got := n.TooltipFor(items, 1); got != "Delete workspace" {
		t.Errorf("Expected second action tooltip, got %q", got)
	}
	if got := n.TooltipFor(items, 5); got != "" {
		t.Errorf("Expected empty tooltip out of range, got %q", got)
	}
}
