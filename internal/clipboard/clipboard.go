// Package clipboard wraps the system clipboard behind a small interface so
// copy actions degrade gracefully on headless environments.
package clipboard

import (
	"sync"

	xclipboard "golang.design/x/clipboard"

	"github.com/quilthq/quilt/internal/errors"
	"github.com/quilthq/quilt/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error
)

// Copy writes text to the system clipboard.
func Copy(text string) error {
	initOnce.Do(func() {
		initErr = xclipboard.Init()
		if initErr != nil {
			logger.WithComponent("clipboard").Warn("clipboard unavailable", "error", initErr)
		}
	})
	if initErr != nil {
		return errors.E(errors.Op("clipboard.Copy"), errors.KindIO, "clipboard unavailable", initErr)
	}
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}
