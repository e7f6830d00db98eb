package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/quilthq/quilt/internal/action"
)

// iconGlyphs maps icon handles to their terminal glyphs. Unknown handles
// render as a bullet so a missing mapping is visible, not invisible.
var iconGlyphs = map[action.Icon]string{
	"plus":             "+",
	"panel-left":       "▐",
	"panel-right":      "▌",
	"panel-bottom":     "▄",
	"diff":             "±",
	"scroll":           "≡",
	"globe":            "◉",
	"columns":          "⊟",
	"unfold":           "⊞",
	"fold":             "⊟",
	"sort":             "↕",
	"archive":          "□",
	"layers":           "≣",
	"kanban":           "▦",
	"truck":            "⇒",
	"arrow-left":       "←",
	"arrow-up":         "↑",
	"user":             "@",
	"folder-open":      "▸",
	"trash":            "✕",
	"pencil":           "✎",
	"code":             "</>",
	"copy":             "⧉",
	"refresh":          "↻",
	"merge":            "⤵",
	"rebase":           "⤴",
	"upload":           "↑",
	"git-pull-request": "⇄",
	"external-link":    "↗",
	"git-branch":       "⑂",
	"circle-dot":       "◎",
	"flag":             "⚑",
	"link":             "∞",
	"network":          "☍",
	"rocket":           "▲",
}

// Glyph returns the terminal glyph for an icon handle.
func Glyph(icon action.Icon) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return "•"
}

// Navbar renders the action items produced by the composition layer.
type Navbar struct {
	styles Styles
	width  int
}

// NewNavbar creates a navbar with the given styles.
func NewNavbar(styles Styles) *Navbar {
	return &Navbar{styles: styles}
}

// SetWidth sets the render width in cells.
func (n *Navbar) SetWidth(width int) { n.width = width }

// SetStyles swaps the style set, e.g. after a theme change.
func (n *Navbar) SetStyles(styles Styles) { n.styles = styles }

// View renders the items in one row, truncated to the navbar width.
func (n *Navbar) View(items []action.Item) string {
	var parts []string
	for _, it := range items {
		if it.IsDivider {
			parts = append(parts, n.styles.NavbarDivider.Render("│"))
			continue
		}
		label := Glyph(it.Icon)
		if it.Shortcut != "" {
			label += " " + it.Shortcut
		}
		switch {
		case it.Disabled:
			parts = append(parts, n.styles.NavbarDisabled.Render(label))
		case it.Active:
			parts = append(parts, n.styles.NavbarActive.Render(label))
		default:
			parts = append(parts, n.styles.NavbarItem.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if n.width > 0 && lipgloss.Width(row) > n.width {
		row = truncate(row, n.width)
	}
	return row
}

// TooltipFor returns the tooltip of the item under the given index, used by
// the footer when navbar focus moves.
func (n *Navbar) TooltipFor(items []action.Item, idx int) string {
	count := 0
	for _, it := range items {
		if it.IsDivider {
			continue
		}
		if count == idx {
			return it.Tooltip
		}
		count++
	}
	return ""
}

// truncate cuts a rendered row to width cells, appending an ellipsis marker.
func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}
