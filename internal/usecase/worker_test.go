package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
	"github.com/CodeInLemonDD/LemonVRCT/internal/logger"
)

// stageLog collects stage events across fakes so ordering is observable.
type stageLog struct {
	mu     sync.Mutex
	events []string
}

func (s *stageLog) add(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stageLog) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

type fakeTranscriber struct {
	stages *stageLog
	fn     func(waveform []float32) (string, error)
	delay  time.Duration
}

func (f *fakeTranscriber) Transcribe(_ context.Context, waveform []float32, _ string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	text, err := f.fn(waveform)
	if f.stages != nil {
		f.stages.add("transcribe:" + text)
	}
	return text, err
}

type passRefiner struct {
	stages *stageLog
}

func (p *passRefiner) Refine(_ context.Context, text string) string {
	if p.stages != nil {
		p.stages.add("refine:" + text)
	}
	return text
}

type echoTranslator struct {
	stages *stageLog
}

func (e *echoTranslator) TranslateAll(_ context.Context, text string, targets []string) domain.TranslationSet {
	set := domain.NewTranslationSet(targets)
	for _, lang := range targets {
		set.Put(lang, lang+":"+text)
	}
	if e.stages != nil {
		e.stages.add("translate:" + text)
	}
	return set
}

type fakeDispatcher struct {
	mu       sync.Mutex
	stages   *stageLog
	err      error
	messages []string
}

func (f *fakeDispatcher) Dispatch(message string) error {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	if f.stages != nil {
		f.stages.add("dispatch")
	}
	return f.err
}

func (f *fakeDispatcher) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	copy(out, f.messages)
	return out
}

type fakeClip struct {
	mu   sync.Mutex
	last string
}

func (f *fakeClip) SetText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = text
	return nil
}

type fakeSink struct {
	stages *stageLog
}

func (f *fakeSink) JobStarted(id string)  { f.stages.add("job_started:" + id) }
func (f *fakeSink) JobFinished(id string) { f.stages.add("job_finished:" + id) }

// makeSession builds a closed session holding the given amount of 16 kHz
// mono audio.
func makeSession(id string, d time.Duration) *domain.Session {
	session := domain.NewSession(id, time.Now())
	samples := int(d.Seconds() * 16000)
	session.Append(make([]byte, samples*2))
	session.Close()
	return session
}

func testWorkerConfig() WorkerConfig {
	return WorkerConfig{
		SampleRate:      16000,
		Channels:        1,
		SourceLanguage:  "zh",
		TargetLanguages: []string{"en", "ja"},
	}
}

func TestWorkerDiscardsShortRecordings(t *testing.T) {
	t.Parallel()

	stages := &stageLog{}
	transcriber := &fakeTranscriber{stages: stages, fn: func([]float32) (string, error) { return "text", nil }}
	dispatcher := &fakeDispatcher{stages: stages}
	worker := NewWorker(transcriber, &passRefiner{}, &echoTranslator{}, dispatcher, nil, testWorkerConfig(), logger.Discard())

	go worker.Run(context.Background())
	worker.Enqueue(makeSession("short", 250*time.Millisecond))
	worker.Shutdown()

	if len(stages.snapshot()) != 0 {
		t.Fatalf("short recording must not reach any stage: %v", stages.snapshot())
	}
	if len(dispatcher.sent()) != 0 {
		t.Fatalf("no output may be dispatched for a short recording")
	}
}

func TestWorkerDiscardsEmptyTranscription(t *testing.T) {
	t.Parallel()

	stages := &stageLog{}
	transcriber := &fakeTranscriber{stages: stages, fn: func([]float32) (string, error) { return "", nil }}
	refiner := &passRefiner{stages: stages}
	translator := &echoTranslator{stages: stages}
	dispatcher := &fakeDispatcher{stages: stages}
	worker := NewWorker(transcriber, refiner, translator, dispatcher, nil, testWorkerConfig(), logger.Discard())

	go worker.Run(context.Background())
	worker.Enqueue(makeSession("silent", time.Second))
	worker.Shutdown()

	for _, event := range stages.snapshot() {
		if strings.HasPrefix(event, "refine:") || strings.HasPrefix(event, "translate:") || event == "dispatch" {
			t.Fatalf("empty transcription must stop the job, saw %v", stages.snapshot())
		}
	}
}

func TestWorkerDiscardsFailedTranscription(t *testing.T) {
	t.Parallel()

	transcriber := &fakeTranscriber{fn: func([]float32) (string, error) { return "", errors.New("model error") }}
	dispatcher := &fakeDispatcher{}
	worker := NewWorker(transcriber, &passRefiner{}, &echoTranslator{}, dispatcher, nil, testWorkerConfig(), logger.Discard())

	go worker.Run(context.Background())
	worker.Enqueue(makeSession("bad", time.Second))
	worker.Shutdown()

	if len(dispatcher.sent()) != 0 {
		t.Fatalf("failed transcription must not dispatch")
	}
}

func TestWorkerDispatchesComposedMessage(t *testing.T) {
	t.Parallel()

	transcriber := &fakeTranscriber{fn: func([]float32) (string, error) { return "你好世界", nil }}
	dispatcher := &fakeDispatcher{}
	clip := &fakeClip{}
	worker := NewWorker(transcriber, &passRefiner{}, &echoTranslator{}, dispatcher, clip, testWorkerConfig(), logger.Discard())

	go worker.Run(context.Background())
	worker.Enqueue(makeSession("ok", time.Second))
	worker.Shutdown()

	want := "en:你好世界\nja:你好世界\n你好世界"
	sent := dispatcher.sent()
	if len(sent) != 1 || sent[0] != want {
		t.Fatalf("unexpected dispatch: %v, want %q", sent, want)
	}
	if clip.last != want {
		t.Fatalf("expected clipboard copy of the dispatched message")
	}
}

// Refinement failing inside the completer must not stop translation: the
// fan-out runs on the unrefined text.
func TestWorkerRefinementFailureStillTranslates(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(system, user string) (string, error) {
		if system == refineSystemPrompt {
			return "", errors.New("refine down")
		}
		return translationsByTarget(map[string]string{
			"en": "Hello world",
			"ja": "こんにちは世界",
		}, nil)(system, user)
	}}

	transcriber := &fakeTranscriber{fn: func([]float32) (string, error) { return "你好世界", nil }}
	dispatcher := &fakeDispatcher{}
	worker := NewWorker(
		transcriber,
		NewRefiner(completer, logger.Discard()),
		NewFanout(completer, "zh", logger.Discard()),
		dispatcher,
		nil,
		testWorkerConfig(),
		logger.Discard(),
	)

	go worker.Run(context.Background())
	worker.Enqueue(makeSession("e2e", time.Second))
	worker.Shutdown()

	want := "Hello world\nこんにちは世界\n你好世界"
	sent := dispatcher.sent()
	if len(sent) != 1 || sent[0] != want {
		t.Fatalf("unexpected dispatch: %v, want %q", sent, want)
	}
}

func TestWorkerProcessesJobsStrictlyFIFO(t *testing.T) {
	t.Parallel()

	stages := &stageLog{}
	calls := 0
	transcriber := &fakeTranscriber{
		stages: stages,
		delay:  20 * time.Millisecond,
		fn: func([]float32) (string, error) {
			calls++
			return fmt.Sprintf("text-%d", calls), nil
		},
	}
	dispatcher := &fakeDispatcher{stages: stages}
	worker := NewWorker(transcriber, &passRefiner{}, &echoTranslator{}, dispatcher, nil, testWorkerConfig(), logger.Discard())
	worker.SetPhaseSink(&fakeSink{stages: stages})

	worker.Enqueue(makeSession("s1", time.Second))
	worker.Enqueue(makeSession("s2", time.Second))
	go worker.Run(context.Background())
	worker.Shutdown()

	want := []string{
		"job_started:s1", "transcribe:text-1", "dispatch", "job_finished:s1",
		"job_started:s2", "transcribe:text-2", "dispatch", "job_finished:s2",
	}
	got := stages.snapshot()
	if len(got) != len(want) {
		t.Fatalf("unexpected event count: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestWorkerSurvivesDispatchFailure(t *testing.T) {
	t.Parallel()

	transcriber := &fakeTranscriber{fn: func([]float32) (string, error) { return "text", nil }}
	dispatcher := &fakeDispatcher{err: errors.New("network unreachable")}
	worker := NewWorker(transcriber, &passRefiner{}, &echoTranslator{}, dispatcher, nil, testWorkerConfig(), logger.Discard())

	go worker.Run(context.Background())
	worker.Enqueue(makeSession("j1", time.Second))
	worker.Enqueue(makeSession("j2", time.Second))
	worker.Shutdown()

	if len(dispatcher.sent()) != 2 {
		t.Fatalf("dispatch failure must not stop later jobs, got %d dispatches", len(dispatcher.sent()))
	}
}
