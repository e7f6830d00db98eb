// Package ui renders the quilt terminal interface: the multi-panel layout,
// the navbar driven by the action system, the changes/logs/preview panels,
// the kanban board, the command bar, and the modal dialog layer.
package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme is the color palette the styles are built from.
type Theme struct {
	Primary   color.Color
	Secondary color.Color
	Text      color.Color
	TextMuted color.Color
	Inverse   color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Border    color.Color
}

// ThemeByName returns a named theme, falling back to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return Theme{
			Primary:   lipgloss.Color("#5A56E0"),
			Secondary: lipgloss.Color("#008787"),
			Text:      lipgloss.Color("#1A1A1A"),
			TextMuted: lipgloss.Color("#6B6B6B"),
			Inverse:   lipgloss.Color("#FAFAFA"),
			Success:   lipgloss.Color("#2E7D32"),
			Warning:   lipgloss.Color("#B26A00"),
			Error:     lipgloss.Color("#C62828"),
			Border:    lipgloss.Color("#C0C0C0"),
		}
	default:
		return Theme{
			Primary:   lipgloss.Color("#7C78F2"),
			Secondary: lipgloss.Color("#00BCBC"),
			Text:      lipgloss.Color("#E6E6E6"),
			TextMuted: lipgloss.Color("#8A8A8A"),
			Inverse:   lipgloss.Color("#1A1A1A"),
			Success:   lipgloss.Color("#66BB6A"),
			Warning:   lipgloss.Color("#FFB74D"),
			Error:     lipgloss.Color("#EF5350"),
			Border:    lipgloss.Color("#3A3A3A"),
		}
	}
}

// Styles holds the pre-built lipgloss styles shared by the components.
type Styles struct {
	Theme Theme

	Title       lipgloss.Style
	PanelBorder lipgloss.Style
	FocusBorder lipgloss.Style

	NavbarItem     lipgloss.Style
	NavbarActive   lipgloss.Style
	NavbarDisabled lipgloss.Style
	NavbarDivider  lipgloss.Style

	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarArchived lipgloss.Style
	SidebarRunning  lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	Flash      lipgloss.Style
	FlashError lipgloss.Style
	Help       lipgloss.Style

	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		Title:       lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		PanelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border),
		FocusBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary),

		NavbarItem:     lipgloss.NewStyle().Foreground(t.Text).Padding(0, 1),
		NavbarActive:   lipgloss.NewStyle().Foreground(t.Inverse).Background(t.Primary).Padding(0, 1),
		NavbarDisabled: lipgloss.NewStyle().Foreground(t.TextMuted).Padding(0, 1),
		NavbarDivider:  lipgloss.NewStyle().Foreground(t.Border),

		SidebarItem:     lipgloss.NewStyle().Foreground(t.Text),
		SidebarSelected: lipgloss.NewStyle().Foreground(t.Inverse).Background(t.Primary).Bold(true),
		SidebarArchived: lipgloss.NewStyle().Foreground(t.TextMuted).Strikethrough(true),
		SidebarRunning:  lipgloss.NewStyle().Foreground(t.Success),

		DiffHeader:  lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		DiffAdd:     lipgloss.NewStyle().Foreground(t.Success),
		DiffRemove:  lipgloss.NewStyle().Foreground(t.Error),
		DiffContext: lipgloss.NewStyle().Foreground(t.TextMuted),

		Flash:      lipgloss.NewStyle().Foreground(t.Success),
		FlashError: lipgloss.NewStyle().Foreground(t.Error),
		Help:       lipgloss.NewStyle().Foreground(t.TextMuted),

		ModalBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
	}
}
