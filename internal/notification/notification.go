// Package notification sends desktop notifications for events that finish
// while the user is looking elsewhere: attempt completion and dev server
// crashes. Failures are logged, never surfaced.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/quilthq/quilt/internal/logger"
)

const appTitle = "Quilt"

// Notify sends a desktop notification.
func Notify(title, message string) {
	if title == "" {
		title = appTitle
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		logger.WithComponent("notification").Warn("notification failed", "error", err)
	}
}

// AttemptFinished announces a completed attempt.
func AttemptFinished(workspaceName string, ok bool) {
	if ok {
		Notify("Attempt finished", workspaceName+" is ready for review")
		return
	}
	Notify("Attempt failed", workspaceName+" needs attention")
}

// DevServerExited announces a dev server that stopped on its own.
func DevServerExited(workspaceName string) {
	Notify("Dev server stopped", workspaceName+"'s dev server exited")
}
