package ui

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/quilthq/quilt/internal/store"
)

// FileDiff is one file's section of a unified diff.
type FileDiff struct {
	Path  string
	Lines []string
}

// ParseDiff splits unified diff output into per-file sections.
func ParseDiff(diff string) []FileDiff {
	if strings.TrimSpace(diff) == "" {
		return nil
	}
	var files []FileDiff
	var current *FileDiff
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			files = append(files, FileDiff{Path: diffPath(line)})
			current = &files[len(files)-1]
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}
	return files
}

// diffPath extracts the b-side path from a "diff --git a/x b/x" header.
func diffPath(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 4 {
		return header
	}
	return strings.TrimPrefix(parts[3], "b/")
}

// ChangesPanel renders the workspace diff with per-file expansion and a
// unified or split view.
type ChangesPanel struct {
	styles   Styles
	viewport viewport.Model
	diffView *store.DiffViewStore
	prefs    *store.PreferencesStore

	files  []FileDiff
	cursor int
	width  int
}

// NewChangesPanel creates the panel bound to its stores.
func NewChangesPanel(styles Styles, diffView *store.DiffViewStore, prefs *store.PreferencesStore) *ChangesPanel {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.SoftWrap = false
	return &ChangesPanel{
		styles:   styles,
		viewport: vp,
		diffView: diffView,
		prefs:    prefs,
	}
}

// SetSize resizes the panel viewport.
func (p *ChangesPanel) SetSize(width, height int) {
	p.width = width
	p.viewport.SetWidth(width)
	p.viewport.SetHeight(height)
	p.refresh()
}

// SetDiff loads new diff content and publishes the file paths to the store.
func (p *ChangesPanel) SetDiff(diff string) {
	p.files = ParseDiff(diff)
	paths := make([]string, 0, len(p.files))
	for _, f := range p.files {
		paths = append(paths, f.Path)
	}
	p.diffView.SetPaths(paths)
	p.cursor = 0
	p.refresh()
	p.viewport.GotoTop()
}

// MoveCursor shifts the file cursor, clamped to the file list.
func (p *ChangesPanel) MoveCursor(delta int) {
	p.cursor += delta
	if p.cursor >= len(p.files) {
		p.cursor = len(p.files) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.refresh()
}

// CursorPath returns the path under the file cursor, or "".
func (p *ChangesPanel) CursorPath() string {
	if p.cursor < 0 || p.cursor >= len(p.files) {
		return ""
	}
	return p.files[p.cursor].Path
}

// ToggleCurrent flips the expansion of the file under the cursor.
func (p *ChangesPanel) ToggleCurrent() {
	if path := p.CursorPath(); path != "" {
		p.ToggleFile(path)
	}
}

// ToggleFile flips the expansion override for one file.
func (p *ChangesPanel) ToggleFile(path string) {
	expanded, ok := p.prefs.Expansion(path)
	if !ok {
		expanded = true
	}
	p.prefs.SetExpansion(path, !expanded)
	p.refresh()
}

// Update forwards scroll events to the viewport.
func (p *ChangesPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// Refresh re-renders after a store change, e.g. expand/collapse all.
func (p *ChangesPanel) Refresh() { p.refresh() }

func (p *ChangesPanel) refresh() {
	if len(p.files) == 0 {
		p.viewport.SetContent(p.styles.Help.Render("No changes"))
		return
	}
	var b strings.Builder
	split := p.diffView.Mode() == store.DiffViewSplit
	for i, f := range p.files {
		if i > 0 {
			b.WriteString("\n")
		}
		expanded, ok := p.prefs.Expansion(f.Path)
		if !ok {
			expanded = true
		}
		marker := "▾"
		if !expanded {
			marker = "▸"
		}
		header := p.styles.DiffHeader
		if i == p.cursor {
			header = header.Bold(true).Underline(true)
		}
		b.WriteString(header.Render(fmt.Sprintf("%s %s", marker, f.Path)))
		b.WriteString("\n")
		if !expanded {
			continue
		}
		if split {
			b.WriteString(p.renderSplit(f))
		} else {
			b.WriteString(p.renderUnified(f))
		}
	}
	p.viewport.SetContent(b.String())
}

// renderUnified colors a file section line by line.
func (p *ChangesPanel) renderUnified(f FileDiff) string {
	var b strings.Builder
	for _, line := range f.Lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"),
			strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "new file mode"), strings.HasPrefix(line, "deleted file mode"):
			b.WriteString(p.styles.DiffContext.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(p.styles.DiffHeader.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(p.styles.DiffAdd.Render(highlightLine(line[1:], f.Path)))
		case strings.HasPrefix(line, "-"):
			b.WriteString(p.styles.DiffRemove.Render(highlightLine(line[1:], f.Path)))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderSplit lays removed and added lines out in two columns. Changed line
// pairs are compared at the character level so small edits stand out.
func (p *ChangesPanel) renderSplit(f FileDiff) string {
	colWidth := p.width/2 - 2
	if colWidth < 10 {
		return p.renderUnified(f)
	}
	left := lipgloss.NewStyle().Width(colWidth)
	var b strings.Builder
	dmp := diffmatchpatch.New()

	lines := f.Lines
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "@@"):
			b.WriteString(p.styles.DiffHeader.Render(line))
			b.WriteString("\n")
		case strings.HasPrefix(line, "-"):
			// Pair a removal with an immediately following addition.
			if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+") {
				before, after := line[1:], lines[i+1][1:]
				diffs := dmp.DiffMain(before, after, false)
				b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
					left.Render(p.styles.DiffRemove.Render(renderSide(diffs, diffmatchpatch.DiffDelete))),
					" ",
					left.Render(p.styles.DiffAdd.Render(renderSide(diffs, diffmatchpatch.DiffInsert))),
				))
				i++
			} else {
				b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
					left.Render(p.styles.DiffRemove.Render(line[1:])), " ", left.Render("")))
			}
			b.WriteString("\n")
		case strings.HasPrefix(line, "+"):
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				left.Render(""), " ", left.Render(p.styles.DiffAdd.Render(line[1:]))))
			b.WriteString("\n")
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "index "):
			// header noise, skip in split view
		default:
			ctx := strings.TrimPrefix(line, " ")
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				left.Render(ctx), " ", left.Render(ctx)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderSide flattens a diff to the text visible on one side.
func renderSide(diffs []diffmatchpatch.Diff, keep diffmatchpatch.Operation) string {
	var b strings.Builder
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual || d.Type == keep {
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// highlightLine syntax-highlights one diff line by the file's extension.
func highlightLine(code, path string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// View renders the panel.
func (p *ChangesPanel) View() string {
	return p.viewport.View()
}
