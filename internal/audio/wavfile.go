package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// WriteWAV encodes a normalized mono waveform as a 16-bit WAV file at
// path. The transcription upload and the keep-recordings debug option both
// go through here.
func WriteWAV(path string, waveform []float32, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	data := make([]int, len(waveform))
	for i, sample := range waveform {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		data[i] = int(sample * 32767)
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return f.Close()
}

// TempWAVPath produces a RecordTemp_<id>.wav path in dir, or the system
// temp directory when dir is empty.
func TempWAVPath(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return filepath.Join(dir, fmt.Sprintf("RecordTemp_%s.wav", id))
}
