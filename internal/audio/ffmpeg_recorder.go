package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

// FFmpegRecorder captures microphone PCM by spawning ffmpeg and reading
// s16le frames from its stdout. It is the fallback backend for hosts
// without a PortAudio install.
type FFmpegRecorder struct {
	command string
	input   string
	cfg     ports.AudioConfig
	log     *slog.Logger

	mu      sync.Mutex
	session *domain.Session
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	done    chan struct{}
}

// NewFFmpegRecorder creates an ffmpeg-backed recorder. input names the
// capture source for the platform's input format (a pulse source, an alsa
// device, or a dshow device string).
func NewFFmpegRecorder(command, input string, cfg ports.AudioConfig, log *slog.Logger) *FFmpegRecorder {
	if command == "" {
		command = "ffmpeg"
	}
	if input == "" {
		input = "default"
	}
	if cfg.ChunkFrames <= 0 {
		cfg.ChunkFrames = 1024
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &FFmpegRecorder{command: command, input: input, cfg: cfg, log: log}
}

// Probe verifies the ffmpeg binary is reachable.
func (r *FFmpegRecorder) Probe() error {
	if _, err := exec.LookPath(r.command); err != nil {
		return fmt.Errorf("ffmpeg not found (%q): %w", r.command, err)
	}
	return nil
}

// Release stops any in-flight capture process.
func (r *FFmpegRecorder) Release() {
	r.mu.Lock()
	cmd := r.cmd
	r.cmd = nil
	r.session = nil
	r.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// Begin spawns ffmpeg and starts appending stdout chunks to a fresh
// session.
func (r *FFmpegRecorder) Begin(ctx context.Context) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		return nil, errors.New("recording already active")
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", inputFormat(),
		"-i", r.input,
		"-ac", strconv.Itoa(r.cfg.Channels),
		"-ar", strconv.Itoa(r.cfg.SampleRate),
		"-f", "s16le",
		"-",
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	session := domain.NewSession(uuid.NewString(), time.Now())
	r.session = session
	r.cmd = cmd
	r.stdout = stdout
	r.done = make(chan struct{})

	go r.captureLoop(session, stdout, &stderr, r.done)
	return session, nil
}

// End interrupts ffmpeg, drains the capture loop, and returns the frozen
// session.
func (r *FFmpegRecorder) End() (*domain.Session, error) {
	r.mu.Lock()
	session := r.session
	cmd := r.cmd
	done := r.done
	r.session = nil
	r.cmd = nil
	r.mu.Unlock()

	if session == nil {
		return nil, ErrNotRecording
	}

	if cmd.Process != nil {
		_ = cmd.Process.Signal(os.Interrupt)
	}
	select {
	case <-done:
	case <-time.After(1200 * time.Millisecond):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
	}
	_ = cmd.Wait()

	session.Close()
	return session, nil
}

func (r *FFmpegRecorder) captureLoop(session *domain.Session, stdout io.ReadCloser, stderr *bytes.Buffer, done chan<- struct{}) {
	defer close(done)
	defer stdout.Close()

	chunk := make([]byte, r.cfg.ChunkFrames*r.cfg.Channels*2)
	for {
		n, err := io.ReadFull(stdout, chunk)
		if n > 0 {
			session.Append(chunk[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				r.log.Warn("ffmpeg capture ended", "error", err, "stderr", stderr.String())
			}
			return
		}
	}
}

func inputFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "pulse"
	}
}
