// Package cmd holds the quilt CLI entry points.
package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/quilthq/quilt/internal/app"
	"github.com/quilthq/quilt/internal/config"
	"github.com/quilthq/quilt/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "quilt",
	Short: "TUI for managing parallel workspaces",
	Long: `Quilt is a terminal UI for managing parallel development workspaces.
Each workspace is a branch checked out across one or more repositories,
with agent attempts, dev servers, diffs, and a kanban board in one place.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var clearCmd = &cobra.Command{
	Use:   "clear-logs",
	Short: "Remove quilt log files and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := logger.ClearLogs()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d log file(s).\n", n)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.AddCommand(clearCmd)
}

func initLogging() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("quilt %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("quilt %s\n", version)
}

func runTUI(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return fmt.Errorf("error resolving config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	defer logger.Close()

	m := app.New(cfg, version, app.Deps{})
	defer m.Close()
	p := tea.NewProgram(m)
	m.SetProgram(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
