// Package errors provides structured error types for the Quilt application.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindPermission
	KindIO
	KindAPI
	KindConfig
	KindGit
	KindProcess
	KindTimeout
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindPermission:
		return "permission denied"
	case KindIO:
		return "I/O error"
	case KindAPI:
		return "api error"
	case KindConfig:
		return "configuration error"
	case KindGit:
		return "git error"
	case KindProcess:
		return "process error"
	case KindTimeout:
		return "timeout"
	case KindConflict:
		return "conflict"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for Quilt.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Workspace errors
func WorkspaceNotFound(id string) error {
	return E(Op("workspace.Get"), KindNotFound, fmt.Sprintf("workspace %s not found", id))
}

func WorkspaceArchived(id string) error {
	return E(Op("workspace.Check"), KindInvalid, fmt.Sprintf("workspace %s is archived", id))
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Git errors
func GitNotRepo(path string) error {
	return E(Op("git.ValidateRepo"), KindInvalid, fmt.Sprintf("%s is not a git repository", path))
}

func GitMergeFailed(branch string, err error) error {
	return E(Op("git.Merge"), KindGit, fmt.Sprintf("failed to merge branch %s", branch), err)
}

func GitForcePushRequired(branch string) error {
	return E(Op("git.Push"), KindConflict, fmt.Sprintf("force push required for branch %s", branch))
}

// Dev server errors
func DevServerNoScript(workspaceID string) error {
	return E(Op("devserver.Start"), KindConfig, fmt.Sprintf("no dev server script configured for workspace %s", workspaceID))
}

func DevServerAlreadyRunning(workspaceID string) error {
	return E(Op("devserver.Start"), KindProcess, fmt.Sprintf("dev server already running for workspace %s", workspaceID))
}

// Issue errors
func IssueNotFound(id string) error {
	return E(Op("issues.Get"), KindNotFound, fmt.Sprintf("issue %s not found", id))
}
