// Package whisper adapts an OpenAI-compatible audio transcription endpoint
// to the pipeline's Transcriber port.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/CodeInLemonDD/LemonVRCT/internal/audio"
)

// Config controls the speech-to-text client.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	SampleRate    int
	KeepRecording bool
	RecordingsDir string
}

// Engine uploads captured audio and returns the recognized text.
type Engine struct {
	client *openai.Client
	cfg    Config
}

// New builds the transcription engine. A missing API key is a startup
// error; the pipeline cannot run without the model.
func New(cfg Config) (*Engine, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("speech-to-text API key is not configured")
	}
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Engine{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}, nil
}

// Transcribe encodes the normalized waveform as a temporary 16-bit WAV and
// runs it through the transcription endpoint constrained to sourceLang.
// The temp file is removed unless recordings are kept for debugging.
func (e *Engine) Transcribe(ctx context.Context, waveform []float32, sourceLang string) (string, error) {
	if len(waveform) == 0 {
		return "", nil
	}

	path := audio.TempWAVPath(e.cfg.RecordingsDir)
	if err := audio.WriteWAV(path, waveform, e.cfg.SampleRate, 1); err != nil {
		return "", fmt.Errorf("failed to stage audio for upload: %w", err)
	}
	if !e.cfg.KeepRecording {
		defer os.Remove(path)
	}

	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    e.cfg.Model,
		FilePath: path,
		Language: sourceLang,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
