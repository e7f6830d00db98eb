package git

import "testing"

func TestBranchStatus_OpenPR(t *testing.T) {
	status := BranchStatus{
		Merges: []MergeRecord{
			{Type: MergeTypeDirect},
			{Type: MergeTypePR, PR: &PRInfo{Number: 12, Status: PRStatusMerged}},
			{Type: MergeTypePR, PR: &PRInfo{Number: 14, Status: PRStatusOpen}},
		},
	}

	pr := status.OpenPR()
	if pr == nil {
		t.Fatal("Expected an open PR")
	}
	if pr.Number != 14 {
		t.Errorf("Expected PR 14, got %d", pr.Number)
	}
	if !status.HasOpenPR() {
		t.Error("Expected HasOpenPR true")
	}
}

func TestBranchStatus_NoOpenPR(t *testing.T) {
	tests := []struct {
		name   string
		status BranchStatus
	}{
		{"no merges", BranchStatus{}},
		{"direct only", BranchStatus{Merges: []MergeRecord{{Type: MergeTypeDirect}}}},
		{"closed pr", BranchStatus{Merges: []MergeRecord{
			{Type: MergeTypePR, PR: &PRInfo{Number: 3, Status: PRStatusClosed}},
		}}},
		{"merged pr", BranchStatus{Merges: []MergeRecord{
			{Type: MergeTypePR, PR: &PRInfo{Number: 4, Status: PRStatusMerged}},
		}}},
		{"pr record without pr info", BranchStatus{Merges: []MergeRecord{{Type: MergeTypePR}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status.HasOpenPR() {
				t.Error("Expected HasOpenPR false")
			}
		})
	}
}

func TestBranchStatus_HasUnpushedCommits(t *testing.T) {
	if (BranchStatus{}).HasUnpushedCommits() {
		t.Error("Expected no unpushed commits for zero status")
	}
	if !(BranchStatus{RemoteCommitsAhead: 2}).HasUnpushedCommits() {
		t.Error("Expected unpushed commits when RemoteCommitsAhead > 0")
	}
}

func TestAnyOpenPR(t *testing.T) {
	statuses := []BranchStatus{
		{},
		{Merges: []MergeRecord{{Type: MergeTypePR, PR: &PRInfo{Status: PRStatusOpen}}}},
	}
	if !AnyOpenPR(statuses) {
		t.Error("Expected AnyOpenPR true")
	}
	if AnyOpenPR(statuses[:1]) {
		t.Error("Expected AnyOpenPR false for statuses without PRs")
	}
	if AnyOpenPR(nil) {
		t.Error("Expected AnyOpenPR false for nil")
	}
}

func TestAnyUnpushedCommits(t *testing.T) {
	statuses := []BranchStatus{
		{RemoteCommitsAhead: 0},
		{RemoteCommitsAhead: 3},
	}
	if !AnyUnpushedCommits(statuses) {
		t.Error("Expected AnyUnpushedCommits true")
	}
	if AnyUnpushedCommits(statuses[:1]) {
		t.Error("Expected AnyUnpushedCommits false")
	}
}

func TestParseAheadBehind(t *testing.T) {
	tests := []struct {
		out         string
		ahead       int
		behind      int
		expectError bool
	}{
		{"2\t5\n", 2, 5, false},
		{"0\t0", 0, 0, false},
		{"  7\t1  ", 7, 1, false},
		{"garbage", 0, 0, true},
		{"", 0, 0, true},
		{"a\tb", 0, 0, true},
	}

	for _, tt := range tests {
		ahead, behind, err := parseAheadBehind(tt.out)
		if tt.expectError {
			if err == nil {
				t.Errorf("parseAheadBehind(%q): expected error", tt.out)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAheadBehind(%q): unexpected error %v", tt.out, err)
			continue
		}
		if ahead != tt.ahead || behind != tt.behind {
			t.Errorf("parseAheadBehind(%q) = (%d, %d), want (%d, %d)", tt.out, ahead, behind, tt.ahead, tt.behind)
		}
	}
}

func TestPRStatusFromState(t *testing.T) {
	tests := []struct {
		state string
		want  PRStatus
	}{
		{"OPEN", PRStatusOpen},
		{"open", PRStatusOpen},
		{"MERGED", PRStatusMerged},
		{"CLOSED", PRStatusClosed},
		{"anything", PRStatusClosed},
	}
	for _, tt := range tests {
		if got := prStatusFromState(tt.state); got != tt.want {
			t.Errorf("prStatusFromState(%q) = %v, want %v", tt.state, got, tt.want)
		}
	}
}
