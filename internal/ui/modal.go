package ui

import (
	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// initHuhForm initializes a huh form eagerly so it renders correctly
// immediately. Call this right after creating the form.
func initHuhForm(form *huh.Form) {
	form.Init()
}

// huhFormUpdate delegates a message to a huh form. Escape is intercepted by
// the modal layer before this runs.
func huhFormUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	m, cmd := form.Update(msg)
	form = m.(*huh.Form)
	return form, cmd
}

// ModalTheme returns a huh theme matching the active palette.
func ModalTheme(theme Theme) huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(theme.TextMuted).Italic(true)
		t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(theme.Warning).SetString(" *")
		t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(theme.Warning)

		t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(theme.Primary).SetString("> ")
		t.Focused.Option = lipgloss.NewStyle().Foreground(theme.Text)

		t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(theme.Primary).SetString("> ")
		t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(theme.Secondary)
		t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(theme.Secondary).SetString("[x] ")
		t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(theme.Text)
		t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(theme.TextMuted).SetString("[ ] ")

		t.Focused.FocusedButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(theme.Inverse).
			Background(theme.Primary)
		t.Focused.BlurredButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(theme.TextMuted)

		t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(theme.Primary)
		t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(theme.TextMuted)
		t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(theme.Primary)
		t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(theme.Text)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.Group.Title = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		t.Group.Description = lipgloss.NewStyle().Foreground(theme.TextMuted)

		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles

		return t
	})
}
