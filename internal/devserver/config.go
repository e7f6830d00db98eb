package devserver

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfigName is the per-repository config file holding script
// definitions for quilt.
const ProjectConfigName = ".quilt.yaml"

// ProjectScripts holds the scripts a repository declares for quilt to run.
type ProjectScripts struct {
	// DevServer is the command used to start the workspace dev server.
	DevServer string `yaml:"dev_server"`
	// Setup runs once after a workspace worktree is created.
	Setup string `yaml:"setup,omitempty"`
	// Cleanup runs before a workspace worktree is removed.
	Cleanup string `yaml:"cleanup,omitempty"`
	// Port is the port the dev server listens on, used for the preview link.
	Port int `yaml:"port,omitempty"`
}

// LoadProjectScripts reads the repository's script config. A missing file is
// not an error; it yields empty scripts.
func LoadProjectScripts(repoPath string) (ProjectScripts, error) {
	var scripts ProjectScripts

	data, err := os.ReadFile(filepath.Join(repoPath, ProjectConfigName))
	if os.IsNotExist(err) {
		return scripts, nil
	}
	if err != nil {
		return scripts, err
	}

	if err := yaml.Unmarshal(data, &scripts); err != nil {
		return scripts, err
	}
	return scripts, nil
}
