package ui

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
)

// maxLogBytes bounds how much of a log file is read back on each refresh.
const maxLogBytes = 256 * 1024

// LogsPanel tails a log file into a viewport. A watcher refreshes the
// content when the file grows; Follow keeps the viewport pinned to the
// bottom until the user scrolls up.
type LogsPanel struct {
	styles   Styles
	viewport viewport.Model

	mu      sync.Mutex
	path    string
	content string
	follow  bool

	watcher  *fsnotify.Watcher
	onChange func()
}

// NewLogsPanel creates the panel. onChange is called from the watcher
// goroutine when content updates and should wake the program loop.
func NewLogsPanel(styles Styles, onChange func()) *LogsPanel {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	return &LogsPanel{
		styles:   styles,
		viewport: vp,
		follow:   true,
		onChange: onChange,
	}
}

// SetSize resizes the panel viewport.
func (p *LogsPanel) SetSize(width, height int) {
	p.viewport.SetWidth(width)
	p.viewport.SetHeight(height)
}

// Watch switches the panel to a new log file, replacing any prior watch.
func (p *LogsPanel) Watch(path string) error {
	p.Close()

	p.mu.Lock()
	p.path = path
	p.follow = true
	p.mu.Unlock()
	p.reload()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the containing directory. Adding the file itself registers
	// nothing while it does not exist yet, and the log file usually appears
	// only after the process writes its first line.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return err
	}
	p.mu.Lock()
	p.watcher = w
	p.mu.Unlock()

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					p.reload()
					if p.onChange != nil {
						p.onChange()
					}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

// Close stops the active watcher.
func (p *LogsPanel) Close() {
	p.mu.Lock()
	w := p.watcher
	p.watcher = nil
	p.mu.Unlock()
	if w != nil {
		w.Close()
	}
}

// Content returns the current log text.
func (p *LogsPanel) Content() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

// reload reads the tail of the file into the viewport.
func (p *LogsPanel) reload() {
	p.mu.Lock()
	path := p.path
	p.mu.Unlock()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		p.mu.Lock()
		p.content = ""
		p.mu.Unlock()
		return
	}
	if len(data) > maxLogBytes {
		data = data[len(data)-maxLogBytes:]
		if i := strings.IndexByte(string(data), '\n'); i >= 0 {
			data = data[i+1:]
		}
	}

	p.mu.Lock()
	p.content = string(data)
	follow := p.follow
	p.mu.Unlock()

	p.viewport.SetContent(p.content)
	if follow {
		p.viewport.GotoBottom()
	}
}

// Update forwards scroll events; scrolling up disengages follow mode and
// returning to the bottom re-engages it.
func (p *LogsPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	p.mu.Lock()
	p.follow = p.viewport.AtBottom()
	p.mu.Unlock()
	return cmd
}

// View renders the panel.
func (p *LogsPanel) View() string {
	p.mu.Lock()
	empty := p.content == ""
	p.mu.Unlock()
	if empty {
		return p.styles.Help.Render("No log output")
	}
	return p.viewport.View()
}
