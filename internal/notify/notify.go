// Package notify raises optional desktop notifications.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Beeep sends notifications through the system tray. Failures are logged
// at debug level; notifications are never load-bearing.
type Beeep struct {
	log *slog.Logger
}

// NewBeeep creates the notifier.
func NewBeeep(log *slog.Logger) *Beeep {
	return &Beeep{log: log}
}

// Notify shows one notification.
func (b *Beeep) Notify(title, body string) {
	if err := beeep.Notify(title, body, ""); err != nil {
		b.log.Debug("notification failed", "error", err)
	}
}

// Noop discards notifications; used when NOTIFICATION is off.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(string, string) {}
