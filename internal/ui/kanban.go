package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"github.com/quilthq/quilt/internal/issues"
)

// boardColumns is the fixed column order of the kanban board.
var boardColumns = []issues.Status{
	issues.StatusTodo,
	issues.StatusInProgress,
	issues.StatusInReview,
	issues.StatusDone,
}

// columnTitles maps statuses to their display names.
var columnTitles = map[issues.Status]string{
	issues.StatusTodo:       "Todo",
	issues.StatusInProgress: "In Progress",
	issues.StatusInReview:   "In Review",
	issues.StatusDone:       "Done",
}

// KanbanBoard renders issues grouped by status with a movable cursor and a
// multi-select set. The issue detail pane renders markdown through glamour.
type KanbanBoard struct {
	styles   Styles
	renderer *glamour.TermRenderer

	width  int
	height int

	list     []issues.Issue
	byColumn map[issues.Status][]issues.Issue
	col      int
	row      int
	selected map[string]bool
}

// NewKanbanBoard creates the board.
func NewKanbanBoard(styles Styles) *KanbanBoard {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(0),
	)
	return &KanbanBoard{
		styles:   styles,
		renderer: renderer,
		byColumn: map[issues.Status][]issues.Issue{},
		selected: map[string]bool{},
	}
}

// SetSize sets the render box.
func (k *KanbanBoard) SetSize(width, height int) {
	k.width = width
	k.height = height
}

// SetIssues replaces the board content. Selections for issues that no
// longer exist are dropped; the cursor is clamped.
func (k *KanbanBoard) SetIssues(list []issues.Issue) {
	k.list = list
	k.byColumn = map[issues.Status][]issues.Issue{}
	known := map[string]bool{}
	for _, is := range list {
		status := is.Status
		if status == issues.StatusCancelled {
			continue
		}
		k.byColumn[status] = append(k.byColumn[status], is)
		known[is.ID] = true
	}
	for id := range k.selected {
		if !known[id] {
			delete(k.selected, id)
		}
	}
	k.clamp()
}

// MoveCursor shifts the cursor by columns and rows.
func (k *KanbanBoard) MoveCursor(dcol, drow int) {
	k.col += dcol
	k.row += drow
	k.clamp()
}

func (k *KanbanBoard) clamp() {
	if k.col < 0 {
		k.col = 0
	}
	if k.col >= len(boardColumns) {
		k.col = len(boardColumns) - 1
	}
	n := len(k.byColumn[boardColumns[k.col]])
	if k.row >= n {
		k.row = n - 1
	}
	if k.row < 0 {
		k.row = 0
	}
}

// Current returns the issue under the cursor, or nil on an empty column.
func (k *KanbanBoard) Current() *issues.Issue {
	col := k.byColumn[boardColumns[k.col]]
	if k.row < 0 || k.row >= len(col) {
		return nil
	}
	return &col[k.row]
}

// ToggleSelect flips the selection of the issue under the cursor.
func (k *KanbanBoard) ToggleSelect() {
	cur := k.Current()
	if cur == nil {
		return
	}
	if k.selected[cur.ID] {
		delete(k.selected, cur.ID)
	} else {
		k.selected[cur.ID] = true
	}
}

// ClearSelection empties the multi-select set.
func (k *KanbanBoard) ClearSelection() {
	k.selected = map[string]bool{}
}

// SelectedIDs returns the selected issue ids. When nothing is explicitly
// selected, the cursor issue counts as the selection.
func (k *KanbanBoard) SelectedIDs() []string {
	if len(k.selected) > 0 {
		ids := make([]string, 0, len(k.selected))
		for _, is := range k.list {
			if k.selected[is.ID] {
				ids = append(ids, is.ID)
			}
		}
		return ids
	}
	if cur := k.Current(); cur != nil {
		return []string{cur.ID}
	}
	return nil
}

// View renders the columns side by side.
func (k *KanbanBoard) View() string {
	colWidth := k.width/len(boardColumns) - 1
	if colWidth < 12 {
		colWidth = 12
	}
	cols := make([]string, 0, len(boardColumns))
	for ci, status := range boardColumns {
		var b strings.Builder
		title := fmt.Sprintf("%s (%d)", columnTitles[status], len(k.byColumn[status]))
		if ci == k.col {
			b.WriteString(k.styles.Title.Render(title))
		} else {
			b.WriteString(k.styles.Help.Render(title))
		}
		b.WriteString("\n")
		for ri, is := range k.byColumn[status] {
			label := runewidth.Truncate(is.Title, colWidth-4, "…")
			mark := "  "
			if k.selected[is.ID] {
				mark = "▪ "
			}
			line := mark + label
			switch {
			case ci == k.col && ri == k.row:
				line = k.styles.SidebarSelected.Render(line)
			case is.Priority == issues.PriorityUrgent:
				line = k.styles.FlashError.Render(line)
			default:
				line = k.styles.SidebarItem.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		cols = append(cols, lipgloss.NewStyle().Width(colWidth).Render(strings.TrimRight(b.String(), "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// DetailView renders one issue's description as markdown.
func (k *KanbanBoard) DetailView(is issues.Issue) string {
	var b strings.Builder
	b.WriteString(k.styles.Title.Render(is.Title))
	b.WriteString("\n")
	meta := fmt.Sprintf("%s · %s", is.Status, is.Priority)
	if is.Assignee != "" {
		meta += " · " + is.Assignee
	}
	b.WriteString(k.styles.Help.Render(meta))
	b.WriteString("\n\n")
	if is.Description != "" && k.renderer != nil {
		if out, err := k.renderer.Render(is.Description); err == nil {
			b.WriteString(strings.TrimSpace(out))
		} else {
			b.WriteString(is.Description)
		}
	}
	return b.String()
}
