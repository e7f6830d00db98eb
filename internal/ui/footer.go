package ui

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// flashDuration is how long a flash message stays visible.
const flashDuration = 4 * time.Second

// Footer renders the bottom status line: a flash message when one is live,
// otherwise the contextual help or tooltip text.
type Footer struct {
	styles Styles
	width  int

	flash      string
	flashError bool
	flashUntil time.Time

	help string
}

// NewFooter creates the footer.
func NewFooter(styles Styles) *Footer {
	return &Footer{styles: styles}
}

// SetWidth sets the render width.
func (f *Footer) SetWidth(width int) { f.width = width }

// SetHelp sets the idle help text.
func (f *Footer) SetHelp(help string) { f.help = help }

// Flash shows a transient message.
func (f *Footer) Flash(msg string, isError bool) {
	f.flash = msg
	f.flashError = isError
	f.flashUntil = time.Now().Add(flashDuration)
}

// ClearFlash drops the flash immediately.
func (f *Footer) ClearFlash() {
	f.flash = ""
}

// View renders the line.
func (f *Footer) View() string {
	if f.flash != "" && time.Now().Before(f.flashUntil) {
		style := f.styles.Flash
		if f.flashError {
			style = f.styles.FlashError
		}
		return style.Render(runewidth.Truncate(f.flash, f.width, "…"))
	}
	return f.styles.Help.Render(runewidth.Truncate(f.help, f.width, "…"))
}
