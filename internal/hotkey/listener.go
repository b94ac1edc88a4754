// Package hotkey adapts the global keyboard hook into the KeySource port.
package hotkey

import (
	"context"
	"unicode"

	hook "github.com/robotn/gohook"

	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

// Listener taps system-wide keyboard events through gohook. Only one
// listener may run per process.
type Listener struct{}

// NewListener creates the global keyboard listener.
func NewListener() *Listener {
	return &Listener{}
}

// Events starts the hook and forwards key edges until ctx is done.
// KeyHold events are forwarded as presses too; the push-to-talk controller
// is edge-triggered and ignores the repeats.
func (l *Listener) Events(ctx context.Context) (<-chan ports.KeyEvent, error) {
	raw := hook.Start()
	out := make(chan ports.KeyEvent, 64)

	go func() {
		defer close(out)
		defer hook.End()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				keyEvent, relevant := translate(ev)
				if !relevant {
					continue
				}
				select {
				case out <- keyEvent:
				default:
					// The controller only flips state; if it ever lags,
					// dropping an edge beats blocking the hook.
				}
			}
		}
	}()

	return out, nil
}

func translate(ev hook.Event) (ports.KeyEvent, bool) {
	switch ev.Kind {
	case hook.KeyDown, hook.KeyHold:
		return ports.KeyEvent{Char: unicode.ToLower(ev.Keychar), Down: true}, true
	case hook.KeyUp:
		return ports.KeyEvent{Char: unicode.ToLower(ev.Keychar), Down: false}, true
	default:
		return ports.KeyEvent{}, false
	}
}
