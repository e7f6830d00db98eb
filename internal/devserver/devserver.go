// Package devserver manages per-workspace dev server processes: starting
// them from the project's configured script, tracking which are running,
// and exposing the aggregate lifecycle state consumed by the action layer.
package devserver

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/quilthq/quilt/internal/errors"
	"github.com/quilthq/quilt/internal/logger"
)

// State is the aggregate dev-server lifecycle state for a workspace.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// DeriveState computes the aggregate state. Precedence: an in-flight start
// wins, then an in-flight stop, then running processes, then stopped.
func DeriveState(startInFlight, stopInFlight bool, runningProcesses int) State {
	switch {
	case startInFlight:
		return StateStarting
	case stopInFlight:
		return StateStopping
	case runningProcesses > 0:
		return StateRunning
	default:
		return StateStopped
	}
}

// Process describes one running dev server.
type Process struct {
	WorkspaceID string
	PID         int
	Script      string
	Port        int
	StartedAt   time.Time
}

// Manager tracks dev-server processes across workspaces. All methods are
// safe for concurrent use; onChange fires after every state transition so
// the UI can rebuild its context snapshot.
type Manager struct {
	mu            sync.Mutex
	running       map[string]*managedProcess // workspace id -> process
	startInFlight map[string]bool
	stopInFlight  map[string]bool
	onChange      func()
	// onExit fires when a dev server exits without a stop being requested.
	onExit func(workspaceID string)

	// launch is swapped in tests to avoid spawning real processes
	launch func(ctx context.Context, dir, script, logPath string) (*exec.Cmd, error)
}

type managedProcess struct {
	info Process
	cmd  *exec.Cmd
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		running:       make(map[string]*managedProcess),
		startInFlight: make(map[string]bool),
		stopInFlight:  make(map[string]bool),
		launch:        launchScript,
	}
}

// SetOnChange registers the callback invoked after every state transition.
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// SetOnExit registers the callback invoked when a dev server stops on its
// own, i.e. without Stop having been called for its workspace.
func (m *Manager) SetOnExit(fn func(workspaceID string)) {
	m.mu.Lock()
	m.onExit = fn
	m.mu.Unlock()
}

func (m *Manager) fireChange() {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// StateFor returns the aggregate state for a workspace.
func (m *Manager) StateFor(workspaceID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	if _, ok := m.running[workspaceID]; ok {
		count = 1
	}
	return DeriveState(m.startInFlight[workspaceID], m.stopInFlight[workspaceID], count)
}

// Running returns a snapshot of all running dev-server processes.
func (m *Manager) Running() []Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Process, 0, len(m.running))
	for _, p := range m.running {
		out = append(out, p.info)
	}
	return out
}

// RunningFor returns the running processes belonging to one workspace.
func (m *Manager) RunningFor(workspaceID string) []Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.running[workspaceID]; ok {
		return []Process{p.info}
	}
	return nil
}

// InFlight reports whether a start or stop is currently in flight for the
// workspace.
func (m *Manager) InFlight(workspaceID string) (starting, stopping bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startInFlight[workspaceID], m.stopInFlight[workspaceID]
}

// Start launches the workspace's dev server from its project script.
// Returns a config error when no script is declared and a process error
// when a server is already running for the workspace.
func (m *Manager) Start(ctx context.Context, workspaceID, workTree string, scripts ProjectScripts) error {
	log := logger.WithComponent("devserver")

	if scripts.DevServer == "" {
		return errors.DevServerNoScript(workspaceID)
	}

	m.mu.Lock()
	if _, ok := m.running[workspaceID]; ok {
		m.mu.Unlock()
		return errors.DevServerAlreadyRunning(workspaceID)
	}
	if m.startInFlight[workspaceID] {
		m.mu.Unlock()
		return errors.DevServerAlreadyRunning(workspaceID)
	}
	m.startInFlight[workspaceID] = true
	m.mu.Unlock()
	m.fireChange()

	logPath := logger.DevServerLogPath(workspaceID)
	cmd, err := m.launch(ctx, workTree, scripts.DevServer, logPath)

	m.mu.Lock()
	delete(m.startInFlight, workspaceID)
	if err != nil {
		m.mu.Unlock()
		m.fireChange()
		return errors.E(errors.Op("devserver.Start"), errors.KindProcess, "failed to launch dev server", err)
	}
	m.running[workspaceID] = &managedProcess{
		info: Process{
			WorkspaceID: workspaceID,
			PID:         cmd.Process.Pid,
			Script:      scripts.DevServer,
			Port:        scripts.Port,
			StartedAt:   time.Now(),
		},
		cmd: cmd,
	}
	m.mu.Unlock()
	m.fireChange()

	log.Info("dev server started", "workspaceID", workspaceID, "pid", cmd.Process.Pid)

	// Reap the process so a crash transitions the state back to stopped.
	go func() {
		waitErr := cmd.Wait()
		m.mu.Lock()
		if p, ok := m.running[workspaceID]; ok && p.cmd == cmd {
			delete(m.running, workspaceID)
		}
		requested := m.stopInFlight[workspaceID]
		delete(m.stopInFlight, workspaceID)
		onExit := m.onExit
		m.mu.Unlock()
		m.fireChange()
		if waitErr != nil {
			log.Warn("dev server exited", "workspaceID", workspaceID, "error", waitErr)
		}
		if !requested && onExit != nil {
			onExit(workspaceID)
		}
	}()

	return nil
}

// Stop terminates the workspace's dev server. Stopping a workspace with no
// running server is a no-op.
func (m *Manager) Stop(workspaceID string) error {
	log := logger.WithComponent("devserver")

	m.mu.Lock()
	p, ok := m.running[workspaceID]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	m.stopInFlight[workspaceID] = true
	m.mu.Unlock()
	m.fireChange()

	log.Info("stopping dev server", "workspaceID", workspaceID, "pid", p.info.PID)

	// Signal the whole process group; the reaper goroutine clears the maps.
	if err := syscall.Kill(-p.info.PID, syscall.SIGTERM); err != nil {
		// Fall back to the single process if the group signal fails
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Signal(syscall.SIGTERM)
		}
	}
	return nil
}

// StopAll terminates every running dev server. Used at shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.running))
	for id := range m.running {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		_ = m.Stop(id)
	}
}

// launchScript starts the script in its own process group with output
// appended to logPath.
func launchScript(ctx context.Context, dir, script, logPath string) (*exec.Cmd, error) {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	cmd.Dir = dir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, err
	}
	// The child holds its own descriptor after Start.
	logFile.Close()
	return cmd, nil
}
