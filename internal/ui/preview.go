package ui

import (
	"fmt"
	"strings"

	"github.com/quilthq/quilt/internal/devserver"
)

// PreviewPanel shows the dev server state for the routed workspace: the
// running processes with their ports, or the lifecycle state while one is
// starting or stopping.
type PreviewPanel struct {
	styles Styles
	width  int
	height int
}

// NewPreviewPanel creates the panel.
func NewPreviewPanel(styles Styles) *PreviewPanel {
	return &PreviewPanel{styles: styles}
}

// SetSize sets the render box.
func (p *PreviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel for the given state and process list.
func (p *PreviewPanel) View(state devserver.State, procs []devserver.Process) string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Preview"))
	b.WriteString("\n\n")
	switch state {
	case devserver.StateStarting:
		b.WriteString(p.styles.Help.Render("Starting dev server…"))
	case devserver.StateStopping:
		b.WriteString(p.styles.Help.Render("Stopping dev server…"))
	case devserver.StateStopped:
		b.WriteString(p.styles.Help.Render("Dev server stopped. Press g to start it."))
	case devserver.StateRunning:
		for _, proc := range procs {
			line := fmt.Sprintf("%s %s", p.styles.SidebarRunning.Render("●"), proc.Script)
			if proc.Port > 0 {
				line += p.styles.Help.Render(fmt.Sprintf("  http://localhost:%d", proc.Port))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
