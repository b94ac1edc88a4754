// Package osc sends chatbox updates to VRChat over its OSC/UDP interface.
package osc

import (
	"fmt"
	"log/slog"

	goosc "github.com/hypebeast/go-osc/osc"
)

// ChatboxAddress is the VRChat chatbox input endpoint.
const ChatboxAddress = "/chatbox/input"

// Dispatcher sends composed messages as single OSC datagrams. Per the
// chatbox wire contract each payload carries the text plus two flags:
// immediate display (true) and SFX loop (false).
type Dispatcher struct {
	client *goosc.Client
	log    *slog.Logger
}

// NewDispatcher creates a dispatcher targeting host:port.
func NewDispatcher(host string, port int, log *slog.Logger) *Dispatcher {
	return &Dispatcher{client: goosc.NewClient(host, port), log: log}
}

// Dispatch delivers one message. Empty messages are dropped with a
// warning; send failures are logged and never propagated as fatal.
func (d *Dispatcher) Dispatch(message string) error {
	if message == "" {
		d.log.Warn("no text to dispatch")
		return nil
	}

	msg := goosc.NewMessage(ChatboxAddress)
	msg.Append(message)
	msg.Append(true)
	msg.Append(false)

	if err := d.client.Send(msg); err != nil {
		return fmt.Errorf("chatbox send failed: %w", err)
	}
	d.log.Info("dispatched to chatbox", "chars", len([]rune(message)))
	return nil
}
