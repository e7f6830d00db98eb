package workspace

import "testing"

func TestNextToSelect(t *testing.T) {
	three := []Active{{ID: "w1"}, {ID: "w2"}, {ID: "w3"}}

	tests := []struct {
		name   string
		active []Active
		target string
		want   string
	}{
		{"middle entry selects next", three, "w2", "w3"},
		{"last entry falls back to previous", three, "w3", "w2"},
		{"first entry selects next", three, "w1", "w2"},
		{"sole entry yields none", []Active{{ID: "w1"}}, "w1", ""},
		{"empty list yields none", nil, "w1", ""},
		{"target not in list yields none", three, "w9", ""},
		{"two entries, first", []Active{{ID: "a"}, {ID: "b"}}, "a", "b"},
		{"two entries, second", []Active{{ID: "a"}, {ID: "b"}}, "b", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextToSelect(tt.active, tt.target); got != tt.want {
				t.Errorf("NextToSelect(%v, %q) = %q, want %q", tt.active, tt.target, got, tt.want)
			}
		})
	}
}

func TestFindRemote(t *testing.T) {
	remotes := []Remote{
		{LocalWorkspaceID: "w1", ProjectID: "p1", IssueID: "i1"},
		{LocalWorkspaceID: "w2", ProjectID: "p1", IssueID: "i2"},
	}

	r := FindRemote(remotes, "w2")
	if r == nil {
		t.Fatal("Expected remote record for w2")
	}
	if r.IssueID != "i2" {
		t.Errorf("Expected issue i2, got %s", r.IssueID)
	}

	if FindRemote(remotes, "w9") != nil {
		t.Error("Expected nil for unknown workspace")
	}
	if FindRemote(nil, "w1") != nil {
		t.Error("Expected nil for empty records")
	}
}

func TestHasMultipleRepos(t *testing.T) {
	w := Workspace{Repos: []Repo{{ID: "r1"}}}
	if w.HasMultipleRepos() {
		t.Error("Expected single repo workspace")
	}
	w.Repos = append(w.Repos, Repo{ID: "r2"})
	if !w.HasMultipleRepos() {
		t.Error("Expected multi repo workspace")
	}
}
