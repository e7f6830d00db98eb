package ui

import (
	"testing"

	"github.com/quilthq/quilt/internal/store"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,3 @@
 package main
-func old() {}
+func new() {}
diff --git a/util/str.go b/util/str.go
index 3333333..4444444 100644
--- a/util/str.go
+++ b/util/str.go
@@ -5,1 +5,2 @@
 // comment
+// more
`

func TestParseDiffSplitsFiles(t *testing.T) {
	files := ParseDiff(sampleDiff)
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	if files[0].Path != "main.go" {
		t.Errorf("Expected main.go, got %q", files[0].Path)
	}
	if files[1].Path != "util/str.go" {
		t.Errorf("Expected util/str.go, got %q", files[1].Path)
	}
	if len(files[0].Lines) == 0 || len(files[1].Lines) == 0 {
		t.Error("Expected hunk lines captured for each file")
	}
}

func TestParseDiffEmpty(t *testing.T) {
	if files := ParseDiff(""); files != nil {
		t.Errorf("Expected nil for empty diff, got %v", files)
	}
	if files := ParseDiff("   \n"); files != nil {
		t.Errorf("Expected nil for blank diff, got %v", files)
	}
}

func TestDiffPathFallsBackToHeader(t *testing.T) {
	if got := diffPath("diff --git"); got != "diff --git" {
		t.Errorf("Expected raw header fallback, got %q", got)
	}
}

func TestChangesCursorMovesAndClamps(t *testing.T) {
	p := NewChangesPanel(NewStyles(ThemeByName("dark")), store.NewDiffViewStore(), store.NewPreferencesStore())
	p.SetDiff(sampleDiff)

	if got := p.CursorPath(); got != "main.go" {
		t.Errorf("Expected cursor on first file, got %q", got)
	}
	p.MoveCursor(5)
	if got := p.CursorPath(); got != "util/str.go" {
		t.Errorf("Expected cursor clamped to last file, got %q", got)
	}
	p.MoveCursor(-10)
	if got := p.CursorPath(); got != "main.go" {
		t.Errorf("Expected cursor clamped to first file, got %q", got)
	}
}

func TestToggleCurrentFlipsExpansion(t *testing.T) {
	prefs := store.NewPreferencesStore()
	p := NewChangesPanel(NewStyles(ThemeByName("dark")), store.NewDiffViewStore(), prefs)
	p.SetDiff(sampleDiff)

	p.MoveCursor(1)
	p.ToggleCurrent()
	expanded, ok := prefs.Expansion("util/str.go")
	if !ok || expanded {
		t.Errorf("Expected util/str.go collapsed, got expanded=%v ok=%v", expanded, ok)
	}

	p.ToggleCurrent()
	expanded, _ = prefs.Expansion("util/str.go")
	if !expanded {
		t.Error("Expected second toggle to expand again")
	}
}

func TestToggleCurrentWithNoFilesIsNoOp(t *testing.T) {
	p := NewChangesPanel(NewStyles(ThemeByName("dark")), store.NewDiffViewStore(), store.NewPreferencesStore())
	p.ToggleCurrent()
	if got := p.CursorPath(); got != "" {
		t.Errorf("Expected empty cursor path with no diff, got %q", got)
	}
}
