// Package attempt tracks agent attempts running against workspaces. An
// attempt is one agent process working a workspace branch; the action layer
// consults the registry to decide what is safe to run alongside it.
package attempt

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

// Attempt describes one running agent process.
type Attempt struct {
	WorkspaceID string
	PID         int
	StartedAt   time.Time
}

// Runner launches and tracks attempts, one per workspace at a time.
type Runner struct {
	mu       sync.Mutex
	running  map[string]*running
	command  string
	onChange func()
	// onDone fires after an attempt exits; ok is false when it failed.
	onDone func(workspaceID string, ok bool)

	launch func(ctx context.Context, dir, command, logPath string) (*exec.Cmd, error)
}

type running struct {
	info Attempt
	cmd  *exec.Cmd
}

// NewRunner creates a Runner that launches the given agent command.
func NewRunner(command string) *Runner {
	return &Runner{
		running: make(map[string]*running),
		command: command,
		launch:  launchCommand,
	}
}

// SetOnChange registers the callback fired after every registry change.
func (r *Runner) SetOnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// SetOnDone registers the callback fired when an attempt finishes.
func (r *Runner) SetOnDone(fn func(workspaceID string, ok bool)) {
	r.mu.Lock()
	r.onDone = fn
	r.mu.Unlock()
}

func (r *Runner) fireChange() {
	r.mu.Lock()
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// IsRunning reports whether an attempt is running for the workspace.
func (r *Runner) IsRunning(workspaceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.running[workspaceID]
	return ok
}

// Running returns a snapshot of all running attempts.
func (r *Runner) Running() []Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Attempt, 0, len(r.running))
	for _, a := range r.running {
		out = append(out, a.info)
	}
	return out
}

// Start launches an attempt in the workspace work tree. A second attempt on
// the same workspace is a process error.
func (r *Runner) Start(ctx context.Context, workspaceID, workTree string) error {
	if r.command == "" {
		return errors.E(errors.Op("attempt.Start"), errors.KindConfig, "no agent command configured")
	}

	r.mu.Lock()
	if _, ok := r.running[workspaceID]; ok {
		r.mu.Unlock()
		return errors.E(errors.Op("attempt.Start"), errors.KindProcess, "attempt already running for workspace "+workspaceID)
	}
	r.mu.Unlock()

	logPath := logger.AttemptLogPath(workspaceID)
	cmd, err := r.launch(ctx, workTree, r.command, logPath)
	if err != nil {
		return errors.E(errors.Op("attempt.Start"), errors.KindProcess, "failed to launch agent", err)
	}

	r.mu.Lock()
	r.running[workspaceID] = &running{
		info: Attempt{WorkspaceID: workspaceID, PID: cmd.Process.Pid, StartedAt: time.Now()},
		cmd:  cmd,
	}
	onDone := r.onDone
	r.mu.Unlock()
	r.fireChange()

	logger.WithComponent("attempt").Info("attempt started", "workspaceID", workspaceID, "pid", cmd.Process.Pid)

	go func() {
		waitErr := cmd.Wait()
		r.mu.Lock()
		if a, ok := r.running[workspaceID]; ok && a.cmd == cmd {
			delete(r.running, workspaceID)
		}
		r.mu.Unlock()
		r.fireChange()
		if onDone != nil {
			onDone(workspaceID, waitErr == nil)
		}
	}()
	return nil
}

// Stop terminates the workspace's attempt. A missing attempt is a no-op.
func (r *Runner) Stop(workspaceID string) error {
	r.mu.Lock()
	a, ok := r.running[workspaceID]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	if err := syscall.Kill(-a.info.PID, syscall.SIGTERM); err != nil {
		if a.cmd.Process != nil {
			_ = a.cmd.Process.Signal(syscall.SIGTERM)
		}
	}
	return nil
}

// StopAll terminates every running attempt. Used at shutdown.
func (r *Runner) StopAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.running))
	for id := range r.running {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		_ = r.Stop(id)
	}
}

func launchCommand(ctx context.Context, dir, command, logPath string) (*exec.Cmd, error) {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
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
