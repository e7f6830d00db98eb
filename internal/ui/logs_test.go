package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogsWatchPicksUpFileCreatedLater(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dev.log")

	p := NewLogsPanel(NewStyles(ThemeByName("dark")), nil)
	if err := p.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer p.Close()

	// The file does not exist yet when the watch starts.
	if err := os.WriteFile(path, []byte("server listening\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(p.Content(), "server listening") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected content picked up after file creation, got %q", p.Content())
}

func TestLogsWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dev.log")
	if err := os.WriteFile(path, []byte("first\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewLogsPanel(NewStyles(ThemeByName("dark")), nil)
	if err := p.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer p.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.log"), []byte("noise\n"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	if strings.Contains(p.Content(), "noise") {
		t.Errorf("Expected sibling file ignored, got %q", p.Content())
	}
}
