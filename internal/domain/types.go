package domain

import "time"

// Phase models the push-to-talk pipeline lifecycle. Transitions are owned
// by the push-to-talk controller; the worker reports job start and finish.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRecording  Phase = "recording"
	PhaseQueued     Phase = "queued"
	PhaseProcessing Phase = "processing"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup       ErrorCode = "startup"
	ErrorCodeAudioStream   ErrorCode = "audio_stream"
	ErrorCodeTranscription ErrorCode = "transcription"
	ErrorCodeRefinement    ErrorCode = "refinement"
	ErrorCodeTranslation   ErrorCode = "translation"
	ErrorCodeDispatch      ErrorCode = "dispatch"
)

// Session is one push-to-talk recording: raw PCM frames captured between a
// hotkey press and release. It is owned by the capture loop until Close,
// after which it is immutable and ownership passes to the pipeline queue.
type Session struct {
	ID        string
	StartedAt time.Time

	frames [][]byte
	bytes  int
	closed bool
}

// NewSession creates an open recording session.
func NewSession(id string, startedAt time.Time) *Session {
	return &Session{ID: id, StartedAt: startedAt}
}

// Append adds one captured PCM frame. Frames arriving after Close are
// dropped; the capture loop may still be flushing when the hotkey releases.
func (s *Session) Append(frame []byte) {
	if s.closed || len(frame) == 0 {
		return
	}
	buf := make([]byte, len(frame))
	copy(buf, frame)
	s.frames = append(s.frames, buf)
	s.bytes += len(buf)
}

// Close freezes the session.
func (s *Session) Close() {
	s.closed = true
}

// Closed reports whether the session has been frozen.
func (s *Session) Closed() bool {
	return s.closed
}

// PCM returns the concatenated little-endian 16-bit PCM bytes.
func (s *Session) PCM() []byte {
	out := make([]byte, 0, s.bytes)
	for _, frame := range s.frames {
		out = append(out, frame...)
	}
	return out
}

// Duration computes the captured audio length for the given stream format.
func (s *Session) Duration(sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	samples := s.bytes / 2 / channels
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

// Transcription is the speech-to-text result for one session. Empty text
// means the model produced nothing usable; the job is then discarded.
type Transcription struct {
	SessionID string
	Text      string
}

// TranslationSet maps target-language codes to translated text. Languages
// whose translation failed are simply absent. Order keeps the configured
// target-language list so output composition is deterministic.
type TranslationSet struct {
	Order []string
	Texts map[string]string
}

// NewTranslationSet creates an empty set preserving the configured order.
func NewTranslationSet(order []string) TranslationSet {
	return TranslationSet{
		Order: append([]string(nil), order...),
		Texts: make(map[string]string, len(order)),
	}
}

// Put records a successful translation. Empty text is ignored.
func (t TranslationSet) Put(lang, text string) {
	if text == "" {
		return
	}
	t.Texts[lang] = text
}

// Len returns the number of successful translations.
func (t TranslationSet) Len() int {
	return len(t.Texts)
}
