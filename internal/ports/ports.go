package ports

import (
	"context"

	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	ChunkFrames int
	DeviceIndex int
}

// Recorder owns the input device. Begin opens the stream and starts the
// capture loop; End stops it and returns the frozen session. Probe is run
// once at startup so a missing device fails the process before the first
// hotkey press.
type Recorder interface {
	Probe() error
	Begin(ctx context.Context) (*domain.Session, error)
	End() (*domain.Session, error)
	Release()
}

// KeyEvent is one system-wide key edge seen by the hotkey listener.
type KeyEvent struct {
	Char rune
	Down bool
}

// KeySource delivers global key press/release events until ctx is done.
type KeySource interface {
	Events(ctx context.Context) (<-chan KeyEvent, error)
}

// Transcriber converts a normalized mono waveform into text, constrained
// to the configured source language. Empty text means nothing was heard.
type Transcriber interface {
	Transcribe(ctx context.Context, waveform []float32, sourceLang string) (string, error)
}

// Completer issues one chat completion from a system instruction and a
// user prompt. Used for both refinement and translation; calls are
// stateless.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Dispatcher delivers the composed message to the remote chatbox.
type Dispatcher interface {
	Dispatch(message string) error
}

// Notifier raises best-effort desktop notifications.
type Notifier interface {
	Notify(title, body string)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(text string) error
}
