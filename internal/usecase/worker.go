package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/CodeInLemonDD/LemonVRCT/internal/audio"
	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

// MinRecordingDuration is the shortest capture worth transcribing.
const MinRecordingDuration = 500 * time.Millisecond

// textRefiner is the correction pass applied between transcription and
// translation.
type textRefiner interface {
	Refine(ctx context.Context, text string) string
}

// translator fans a source text out to the target languages.
type translator interface {
	TranslateAll(ctx context.Context, text string, targets []string) domain.TranslationSet
}

// phaseSink receives worker progress so the push-to-talk controller can
// gate new recordings while a job is in flight.
type phaseSink interface {
	JobStarted(sessionID string)
	JobFinished(sessionID string)
}

// WorkerConfig fixes the stream format and language settings for the
// lifetime of the worker.
type WorkerConfig struct {
	SampleRate      int
	Channels        int
	SourceLanguage  string
	TargetLanguages []string
}

// Worker is the single consumer of finished recording sessions. It drains
// a FIFO queue one job at a time, so transcription and translation calls
// for different recordings never overlap and output messages never
// interleave. A nil session is the shutdown sentinel.
type Worker struct {
	transcriber ports.Transcriber
	refiner     textRefiner
	translate   translator
	dispatcher  ports.Dispatcher
	clip        ports.Clipboard
	phases      phaseSink
	cfg         WorkerConfig
	log         *slog.Logger

	jobs chan *domain.Session
	done chan struct{}
}

// NewWorker builds the pipeline worker. clip may be nil when clipboard
// copy is disabled.
func NewWorker(
	transcriber ports.Transcriber,
	refiner textRefiner,
	translate translator,
	dispatcher ports.Dispatcher,
	clip ports.Clipboard,
	cfg WorkerConfig,
	log *slog.Logger,
) *Worker {
	return &Worker{
		transcriber: transcriber,
		refiner:     refiner,
		translate:   translate,
		dispatcher:  dispatcher,
		clip:        clip,
		cfg:         cfg,
		log:         log,
		jobs:        make(chan *domain.Session, 16),
		done:        make(chan struct{}),
	}
}

// SetPhaseSink attaches the controller callback; must be called before
// Run.
func (w *Worker) SetPhaseSink(sink phaseSink) {
	w.phases = sink
}

// Enqueue hands a closed session to the worker. Safe to call from the
// capture-completion path while a previous job is still processing.
func (w *Worker) Enqueue(session *domain.Session) {
	w.jobs <- session
}

// Shutdown enqueues the sentinel and waits for the loop to drain and
// exit.
func (w *Worker) Shutdown() {
	w.jobs <- nil
	<-w.done
}

// Run consumes jobs until the sentinel arrives. It never exits otherwise;
// every per-job error is terminal for that job only.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	for session := range w.jobs {
		if session == nil {
			w.log.Info("pipeline worker stopping")
			return
		}
		if w.phases != nil {
			w.phases.JobStarted(session.ID)
		}
		w.process(ctx, session)
		if w.phases != nil {
			w.phases.JobFinished(session.ID)
		}
	}
}

func (w *Worker) process(ctx context.Context, session *domain.Session) {
	log := w.log.With("session", session.ID)

	duration := session.Duration(w.cfg.SampleRate, w.cfg.Channels)
	if duration < MinRecordingDuration {
		log.Warn("recording too short to transcribe", "duration", duration)
		return
	}

	waveform := audio.Waveform(session.PCM())
	log.Info("transcribing audio", "samples", len(waveform))

	text, err := w.transcriber.Transcribe(ctx, waveform, w.cfg.SourceLanguage)
	if err != nil {
		log.Error("transcription failed", "error", err)
		return
	}
	if text == "" {
		log.Info("transcription produced no text, discarding job")
		return
	}
	log.Info("transcription result", "text", text)

	refined := w.refiner.Refine(ctx, text)
	translations := w.translate.TranslateAll(ctx, refined, w.cfg.TargetLanguages)

	message := domain.ComposeMessage(translations, refined)
	if err := w.dispatcher.Dispatch(message); err != nil {
		log.Error("dispatch failed", "error", err)
		return
	}

	if w.clip != nil && message != "" {
		if err := w.clip.SetText(message); err != nil {
			log.Warn("clipboard copy failed", "error", err)
		}
	}
}
