package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

// sessionQueue is where closed recordings are handed off.
type sessionQueue interface {
	Enqueue(session *domain.Session)
}

// PushToTalk drives the recording state machine from global key edges.
// Press of the trigger key starts a recording only from the Idle phase;
// release closes the session and hands it to the pipeline queue. The
// controller never blocks on model work; it only flips state.
type PushToTalk struct {
	recorder ports.Recorder
	queue    sessionQueue
	notifier ports.Notifier
	trigger  rune
	log      *slog.Logger

	mu      sync.Mutex
	phase   domain.Phase
	pressed bool
}

// NewPushToTalk creates the controller in the Idle phase.
func NewPushToTalk(
	recorder ports.Recorder,
	queue sessionQueue,
	notifier ports.Notifier,
	trigger rune,
	log *slog.Logger,
) *PushToTalk {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &PushToTalk{
		recorder: recorder,
		queue:    queue,
		notifier: notifier,
		trigger:  trigger,
		phase:    domain.PhaseIdle,
		log:      log,
	}
}

// Phase returns the current pipeline phase.
func (p *PushToTalk) Phase() domain.Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// HandleKey processes one system-wide key edge. Non-trigger keys are
// ignored.
func (p *PushToTalk) HandleKey(ctx context.Context, ev ports.KeyEvent) {
	if ev.Char != p.trigger {
		return
	}
	if ev.Down {
		p.handlePress(ctx)
	} else {
		p.handleRelease()
	}
}

// handlePress is edge-triggered: key-repeat events while the key is held
// never start a second session, and no recording starts while a pipeline
// job is queued or processing.
func (p *PushToTalk) handlePress(ctx context.Context) {
	p.mu.Lock()
	if p.pressed {
		p.mu.Unlock()
		return
	}
	p.pressed = true
	if p.phase != domain.PhaseIdle {
		p.mu.Unlock()
		return
	}
	p.phase = domain.PhaseRecording
	p.mu.Unlock()

	if _, err := p.recorder.Begin(ctx); err != nil {
		p.log.Error("failed to start recording", "error", err)
		p.setPhase(domain.PhaseRecording, domain.PhaseIdle)
		return
	}
	p.log.Info("recording started")
	p.notifier.Notify("VRChat Translator", "Recording...")
}

func (p *PushToTalk) handleRelease() {
	p.mu.Lock()
	p.pressed = false
	if p.phase != domain.PhaseRecording {
		p.mu.Unlock()
		return
	}
	p.phase = domain.PhaseQueued
	p.mu.Unlock()

	session, err := p.recorder.End()
	if err != nil {
		p.log.Error("failed to stop recording", "error", err)
		p.setPhase(domain.PhaseQueued, domain.PhaseIdle)
		return
	}

	p.log.Info("recording stopped", "session", session.ID)
	p.notifier.Notify("VRChat Translator", "Translating...")
	p.queue.Enqueue(session)
}

// JobStarted is called by the worker when it dequeues a session.
func (p *PushToTalk) JobStarted(string) {
	p.setPhase(domain.PhaseQueued, domain.PhaseProcessing)
}

// JobFinished is called by the worker after a job reaches a terminal
// state; the next hotkey press may start a new recording.
func (p *PushToTalk) JobFinished(string) {
	p.setPhase(domain.PhaseProcessing, domain.PhaseIdle)
}

// setPhase applies a transition only when the current phase matches the
// expected source state.
func (p *PushToTalk) setPhase(from, to domain.Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == from {
		p.phase = to
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string) {}
