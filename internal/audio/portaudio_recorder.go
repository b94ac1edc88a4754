package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"

	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

// ErrNotRecording is returned by End when no capture is active.
var ErrNotRecording = errors.New("no active recording")

// PortAudioRecorder captures microphone PCM through PortAudio. One capture
// loop runs per active session; the session buffer is owned by that loop
// until End hands it off.
type PortAudioRecorder struct {
	cfg ports.AudioConfig
	log *slog.Logger

	mu      sync.Mutex
	session *domain.Session
	stream  *portaudio.Stream
	in      []int16
	stop    chan struct{}
	done    chan struct{}
}

// NewPortAudioRecorder creates a recorder for the given stream format.
func NewPortAudioRecorder(cfg ports.AudioConfig, log *slog.Logger) *PortAudioRecorder {
	if cfg.ChunkFrames <= 0 {
		cfg.ChunkFrames = 1024
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &PortAudioRecorder{cfg: cfg, log: log}
}

// Probe initializes PortAudio and verifies an input device is available.
// The library stays initialized until Release.
func (r *PortAudioRecorder) Probe() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init failed: %w", err)
	}
	if _, err := r.inputDevice(); err != nil {
		return err
	}
	return nil
}

// Release terminates PortAudio. Safe to call once at shutdown regardless
// of in-flight state.
func (r *PortAudioRecorder) Release() {
	r.mu.Lock()
	stream := r.stream
	r.stream = nil
	r.mu.Unlock()
	if stream != nil {
		_ = stream.Stop()
		_ = stream.Close()
	}
	_ = portaudio.Terminate()
}

// Begin opens the input stream and starts the capture loop for a fresh
// session.
func (r *PortAudioRecorder) Begin(ctx context.Context) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		return nil, errors.New("recording already active")
	}

	stream, in, err := r.openStream()
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	session := domain.NewSession(uuid.NewString(), time.Now())
	r.session = session
	r.stream = stream
	r.in = in
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.captureLoop(ctx, session, stream, in, r.stop, r.done)
	return session, nil
}

// End stops the capture loop, closes the stream, and returns the frozen
// session.
func (r *PortAudioRecorder) End() (*domain.Session, error) {
	r.mu.Lock()
	session := r.session
	stream := r.stream
	stop := r.stop
	done := r.done
	r.session = nil
	r.stream = nil
	r.mu.Unlock()

	if session == nil {
		return nil, ErrNotRecording
	}

	close(stop)
	<-done

	_ = stream.Stop()
	_ = stream.Close()
	session.Close()
	return session, nil
}

func (r *PortAudioRecorder) captureLoop(
	ctx context.Context,
	session *domain.Session,
	stream *portaudio.Stream,
	in []int16,
	stop <-chan struct{},
	done chan<- struct{},
) {
	defer close(done)

	frame := make([]byte, len(in)*2)
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := stream.Read(); err != nil {
			// Overflows and transient read errors drop the frame and
			// keep capturing.
			r.log.Warn("audio read error", "error", err)
			continue
		}
		for i, v := range in {
			binary.LittleEndian.PutUint16(frame[i*2:], uint16(v))
		}
		session.Append(frame)
	}
}

func (r *PortAudioRecorder) openStream() (*portaudio.Stream, []int16, error) {
	in := make([]int16, r.cfg.ChunkFrames*r.cfg.Channels)

	if r.cfg.DeviceIndex < 0 {
		stream, err := portaudio.OpenDefaultStream(
			r.cfg.Channels, 0, float64(r.cfg.SampleRate), r.cfg.ChunkFrames, in,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open default input stream: %w", err)
		}
		return stream, in, nil
	}

	device, err := r.inputDevice()
	if err != nil {
		return nil, nil, err
	}
	params := portaudio.HighLatencyParameters(device, nil)
	params.Input.Channels = r.cfg.Channels
	params.SampleRate = float64(r.cfg.SampleRate)
	params.FramesPerBuffer = r.cfg.ChunkFrames

	stream, err := portaudio.OpenStream(params, in)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input stream on device %d: %w", r.cfg.DeviceIndex, err)
	}
	return stream, in, nil
}

func (r *PortAudioRecorder) inputDevice() (*portaudio.DeviceInfo, error) {
	if r.cfg.DeviceIndex < 0 {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("no default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}
	if r.cfg.DeviceIndex >= len(devices) {
		return nil, fmt.Errorf("audio device index %d out of range (%d devices)", r.cfg.DeviceIndex, len(devices))
	}
	device := devices[r.cfg.DeviceIndex]
	if device.MaxInputChannels < r.cfg.Channels {
		return nil, fmt.Errorf("device %q has no usable input channels", device.Name)
	}
	return device, nil
}
