package action

import (
	"reflect"
	"testing"
)

func visibleDef(id ID) *Definition {
	return &Definition{ID: id, Label: string(id), Icon: "dot"}
}

func hiddenDef(id ID) *Definition {
	return &Definition{ID: id, Label: string(id), Icon: "dot",
		IsVisible: func(Context) bool { return false }}
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.IsDivider {
			out = append(out, "|")
		} else {
			out = append(out, string(it.ID))
		}
	}
	return out
}

func TestComposeCollapsesDividersAroundHidden(t *testing.T) {
	seq := []Entry{
		Act(visibleDef("a")),
		Sep(),
		Act(hiddenDef("b")),
		Sep(),
		Act(visibleDef("c")),
	}

	got := ids(Compose(seq, Context{}, nil, nil))
	want := []string{"a", "|", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compose = %v, want %v", got, want)
	}
}

func TestComposeEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		seq  []Entry
		want []string
	}{
		{"empty input", nil, []string{}},
		{"all hidden", []Entry{Act(hiddenDef("a")), Act(hiddenDef("b"))}, []string{}},
		{"divider only", []Entry{Sep(), Sep()}, []string{}},
		{
			"single action flanked by dividers",
			[]Entry{Sep(), Act(visibleDef("a")), Sep()},
			[]string{"a"},
		},
		{
			"leading hidden leaves no leading divider",
			[]Entry{Act(hiddenDef("x")), Sep(), Act(visibleDef("a"))},
			[]string{"a"},
		},
		{
			"trailing hidden leaves no trailing divider",
			[]Entry{Act(visibleDef("a")), Sep(), Act(hiddenDef("x"))},
			[]string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Compose(tt.seq, Context{}, nil, nil))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compose = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	seq := []Entry{
		Sep(),
		Act(visibleDef("a")),
		Sep(),
		Sep(),
		Act(hiddenDef("b")),
		Act(visibleDef("c")),
		Sep(),
	}
	c := Context{}

	once := Normalize(seq, c)
	twice := Normalize(once, c)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize not idempotent: %v vs %v", once, twice)
	}
}

func TestComposeExcludesSpecialIcons(t *testing.T) {
	special := &Definition{ID: "dev", Label: "dev", Icon: IconDevServerIndicator}
	seq := []Entry{Act(visibleDef("a")), Act(special), Act(visibleDef("c"))}

	got := ids(Compose(seq, Context{}, nil, nil))
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compose = %v, want %v", got, want)
	}
}

func TestComposeSpecialIconViaOverride(t *testing.T) {
	// An action whose GetIcon resolves to a sentinel is excluded even when
	// its static icon is generic.
	def := &Definition{
		ID: "x", Label: "x", Icon: "dot",
		GetIcon: func(Context) Icon { return IconAttemptSpinner },
	}
	got := ids(Compose([]Entry{Act(def)}, Context{}, nil, nil))
	if len(got) != 0 {
		t.Errorf("Expected sentinel-resolving action excluded, got %v", got)
	}
}

func TestComposeItemFields(t *testing.T) {
	def := &Definition{
		ID:       "p",
		Label:    "Push",
		Icon:     "upload",
		Shortcut: "P",
		IsActive: func(Context) bool { return true },
		IsEnabled: func(c Context) bool {
			return c.HasUnpushedCommits
		},
	}

	invoked := false
	items := Compose([]Entry{Act(def)}, Context{}, nil, func(d *Definition) func() {
		return func() { invoked = true }
	})
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.ID != "p" || it.Icon != "upload" || it.Shortcut != "P" {
		t.Errorf("Unexpected item fields: %+v", it)
	}
	if !it.Active {
		t.Error("Expected active item")
	}
	if !it.Disabled {
		t.Error("Expected disabled when not enabled")
	}
	if it.Tooltip != "Push" {
		t.Errorf("Expected tooltip from label, got %q", it.Tooltip)
	}
	it.Invoke()
	if !invoked {
		t.Error("Expected bound handler to run")
	}
}

func TestWorkspaceNavbarHidesGitGroupWithoutRepos(t *testing.T) {
	r := NewRegistry()

	// No workspace at all: everything workspace-scoped is hidden.
	items := Compose(r.WorkspaceNavbar(), Context{}, nil, nil)
	for _, it := range items {
		if it.IsDivider {
			t.Errorf("Expected no dividers with all actions hidden, got %v", ids(items))
			break
		}
	}
}
