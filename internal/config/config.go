// Package config manages the persistent application configuration stored
// as JSON under the user's home directory. All accessors are safe for
// concurrent use.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/quilthq/quilt/internal/errors"
	"github.com/quilthq/quilt/internal/logger"
)

const (
	configDirName  = ".quilt"
	configFileName = "config.json"
)

// PanelFlags mirrors the per-workspace panel visibility persisted between
// sessions.
type PanelFlags struct {
	Sidebar      bool `json:"sidebar"`
	RightSidebar bool `json:"right_sidebar"`
	BottomBar    bool `json:"bottom_bar"`
}

// Config is the persisted application state.
type Config struct {
	mu sync.RWMutex

	Theme         string `json:"theme"`
	DefaultEditor string `json:"default_editor,omitempty"`
	AgentCommand  string `json:"agent_command,omitempty"`
	APIBaseURL    string `json:"api_base_url,omitempty"`
	Container     string `json:"container,omitempty"`

	KanbanOrgID     string `json:"kanban_org_id,omitempty"`
	KanbanProjectID string `json:"kanban_project_id,omitempty"`

	WorkspaceSort string `json:"workspace_sort,omitempty"`
	ShowArchived  bool   `json:"show_archived,omitempty"`

	PaneSizes     map[string]int        `json:"pane_sizes,omitempty"`
	DiffExpansion map[string]bool       `json:"diff_expansion,omitempty"`
	SectionOpen   map[string]bool       `json:"section_open,omitempty"`
	Panels        map[string]PanelFlags `json:"panels,omitempty"`

	path string
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.E(errors.Op("config.DefaultPath"), errors.KindIO, "cannot resolve home directory", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// New returns a config with defaults applied, not yet backed by a file.
func New() *Config {
	return &Config{
		Theme:         "dark",
		PaneSizes:     make(map[string]int),
		DiffExpansion: make(map[string]bool),
		SectionOpen:   make(map[string]bool),
		Panels:        make(map[string]PanelFlags),
	}
}

// Load reads the config from path. A missing file yields the defaults with
// the path recorded for later Save calls.
func Load(path string) (*Config, error) {
	cfg := New()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}
	if cfg.PaneSizes == nil {
		cfg.PaneSizes = make(map[string]int)
	}
	if cfg.DiffExpansion == nil {
		cfg.DiffExpansion = make(map[string]bool)
	}
	if cfg.SectionOpen == nil {
		cfg.SectionOpen = make(map[string]bool)
	}
	if cfg.Panels == nil {
		cfg.Panels = make(map[string]PanelFlags)
	}
	return cfg, nil
}

// Save writes the config back to its file, creating the directory as needed.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.path == "" {
		return errors.ConfigSaveFailed("", errors.E(errors.KindInvalid, "no config path set"))
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return errors.ConfigSaveFailed(c.path, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(c.path, err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return errors.ConfigSaveFailed(c.path, err)
	}
	logger.WithComponent("config").Debug("config saved", "path", c.path)
	return nil
}

// Update applies fn under the write lock.
func (c *Config) Update(fn func(*Config)) {
	c.mu.Lock()
	fn(c)
	c.mu.Unlock()
}

// Snapshot returns copies of the mutable preference maps for seeding the
// preference store at startup.
func (c *Config) Snapshot() (expansion map[string]bool, paneSizes map[string]int, sectionOpen map[string]bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	expansion = make(map[string]bool, len(c.DiffExpansion))
	for k, v := range c.DiffExpansion {
		expansion[k] = v
	}
	paneSizes = make(map[string]int, len(c.PaneSizes))
	for k, v := range c.PaneSizes {
		paneSizes[k] = v
	}
	sectionOpen = make(map[string]bool, len(c.SectionOpen))
	for k, v := range c.SectionOpen {
		sectionOpen[k] = v
	}
	return expansion, paneSizes, sectionOpen
}

// GetTheme returns the theme name.
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// GetEditor returns the configured default editor.
func (c *Config) GetEditor() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DefaultEditor
}

// PanelFlagsFor returns the persisted flags for a workspace.
func (c *Config) PanelFlagsFor(workspaceID string) (PanelFlags, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.Panels[workspaceID]
	return f, ok
}
