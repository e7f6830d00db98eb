package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/quilthq/quilt/internal/action"
	"github.com/quilthq/quilt/internal/keys"
)

// maxCommandResults bounds the visible result list.
const maxCommandResults = 8

// commandEntry is one searchable candidate: an action plus its haystack of
// label and keywords.
type commandEntry struct {
	def      *action.Definition
	label    string
	haystack string
}

type commandSource []commandEntry

func (s commandSource) String(i int) string { return s[i].haystack }
func (s commandSource) Len() int            { return len(s) }

// CommandBar is the fuzzy action palette. Open rebuilds candidates from the
// registry against the current context so hidden and disabled actions never
// match.
type CommandBar struct {
	styles Styles

	open    bool
	query   string
	cursor  int
	entries commandSource
	matches []fuzzy.Match
}

// NewCommandBar creates the palette.
func NewCommandBar(styles Styles) *CommandBar {
	return &CommandBar{styles: styles}
}

// IsOpen reports whether the palette is showing.
func (b *CommandBar) IsOpen() bool { return b.open }

// Open shows the palette with candidates resolved against c. labelFor
// resolves each action's display label, usually against the routed workspace.
func (b *CommandBar) Open(reg *action.Registry, c action.Context, labelFor func(*action.Definition) string) {
	b.open = true
	b.query = ""
	b.cursor = 0
	b.entries = b.entries[:0]
	for _, def := range reg.All() {
		if !action.Visible(def, c) || !action.Enabled(def, c) {
			continue
		}
		label := labelFor(def)
		hay := label
		if len(def.Keywords) > 0 {
			hay += " " + strings.Join(def.Keywords, " ")
		}
		b.entries = append(b.entries, commandEntry{def: def, label: label, haystack: strings.ToLower(hay)})
	}
	b.refilter()
}

// Close hides the palette.
func (b *CommandBar) Close() {
	b.open = false
	b.query = ""
	b.matches = nil
}

// Update handles keys while open. It returns the chosen definition when the
// user confirms a result.
func (b *CommandBar) Update(msg tea.KeyPressMsg) (chosen *action.Definition, handled bool) {
	if !b.open {
		return nil, false
	}
	switch msg.String() {
	case keys.Escape:
		b.Close()
		return nil, true
	case keys.Enter:
		def := b.Selected()
		b.Close()
		return def, true
	case keys.Up, keys.CtrlP:
		if b.cursor > 0 {
			b.cursor--
		}
		return nil, true
	case keys.Down, keys.CtrlJ:
		if b.cursor < b.resultCount()-1 {
			b.cursor++
		}
		return nil, true
	case keys.Backspace:
		if b.query != "" {
			b.query = b.query[:len(b.query)-1]
			b.refilter()
		}
		return nil, true
	default:
		if text := msg.String(); len(text) == 1 {
			b.query += text
			b.refilter()
		}
		return nil, true
	}
}

// Selected returns the definition under the cursor, or nil.
func (b *CommandBar) Selected() *action.Definition {
	if b.cursor < 0 || b.cursor >= b.resultCount() {
		return nil
	}
	if b.query == "" {
		return b.entries[b.cursor].def
	}
	return b.entries[b.matches[b.cursor].Index].def
}

func (b *CommandBar) resultCount() int {
	if b.query == "" {
		if len(b.entries) > maxCommandResults {
			return maxCommandResults
		}
		return len(b.entries)
	}
	if len(b.matches) > maxCommandResults {
		return maxCommandResults
	}
	return len(b.matches)
}

func (b *CommandBar) refilter() {
	b.cursor = 0
	if b.query == "" {
		b.matches = nil
		return
	}
	b.matches = fuzzy.FindFrom(strings.ToLower(b.query), b.entries)
}

// View renders the prompt and result list.
func (b *CommandBar) View() string {
	if !b.open {
		return ""
	}
	var out strings.Builder
	out.WriteString(b.styles.ModalTitle.Render("> " + b.query))
	out.WriteString("\n")
	n := b.resultCount()
	for i := 0; i < n; i++ {
		var e commandEntry
		if b.query == "" {
			e = b.entries[i]
		} else {
			e = b.entries[b.matches[i].Index]
		}
		line := "  " + e.label
		if e.def.Shortcut != "" {
			line += "  " + b.styles.Help.Render(e.def.Shortcut)
		}
		if i == b.cursor {
			line = b.styles.SidebarSelected.Render(line)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	if n == 0 {
		out.WriteString(b.styles.Help.Render("  No matching actions"))
	}
	return b.styles.ModalBox.Render(strings.TrimRight(out.String(), "\n"))
}
