// Package bootstrap assembles the runtime graph from configuration.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/CodeInLemonDD/LemonVRCT/internal/audio"
	"github.com/CodeInLemonDD/LemonVRCT/internal/clipboard"
	"github.com/CodeInLemonDD/LemonVRCT/internal/config"
	"github.com/CodeInLemonDD/LemonVRCT/internal/hotkey"
	"github.com/CodeInLemonDD/LemonVRCT/internal/notify"
	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
	"github.com/CodeInLemonDD/LemonVRCT/internal/providers/deepseek"
	"github.com/CodeInLemonDD/LemonVRCT/internal/providers/osc"
	"github.com/CodeInLemonDD/LemonVRCT/internal/providers/whisper"
	"github.com/CodeInLemonDD/LemonVRCT/internal/usecase"
)

// Services is the assembled runtime graph. Model and client handles are
// constructed once here and reused for the process lifetime.
type Services struct {
	Controller *usecase.PushToTalk
	Worker     *usecase.Worker
	Recorder   ports.Recorder
	Keys       ports.KeySource
}

// Build wires every dependency. Any error here is fatal at startup: the
// process must not run without an input device or the model clients.
func Build(cfg config.Config, log *slog.Logger) (Services, error) {
	if err := cfg.Validate(); err != nil {
		return Services{}, err
	}

	recorder, err := buildRecorder(cfg, log)
	if err != nil {
		return Services{}, err
	}
	if err := recorder.Probe(); err != nil {
		return Services{}, fmt.Errorf("audio device unavailable: %w", err)
	}

	transcriber, err := whisper.New(whisper.Config{
		APIKey:        cfg.Whisper.APIKey,
		BaseURL:       cfg.Whisper.BaseURL,
		Model:         cfg.Whisper.Model,
		SampleRate:    cfg.Audio.SampleRate,
		KeepRecording: cfg.Extras.KeepRecordings,
		RecordingsDir: cfg.Extras.RecordingsDir,
	})
	if err != nil {
		recorder.Release()
		return Services{}, fmt.Errorf("speech-to-text setup failed: %w", err)
	}

	completer, err := deepseek.New(deepseek.Config{
		APIKey:      cfg.DeepSeek.APIKey,
		BaseURL:     cfg.DeepSeek.BaseURL,
		Model:       cfg.DeepSeek.Model,
		Temperature: 0.3,
	})
	if err != nil {
		recorder.Release()
		return Services{}, fmt.Errorf("chat client setup failed: %w", err)
	}

	var clip ports.Clipboard
	if cfg.Extras.CopyToClip {
		clip = clipboard.System{}
	}
	var notifier ports.Notifier = notify.Noop{}
	if cfg.Extras.Notifications {
		notifier = notify.NewBeeep(log)
	}

	worker := usecase.NewWorker(
		transcriber,
		usecase.NewRefiner(completer, log),
		usecase.NewFanout(completer, cfg.Translate.SourceLanguage, log),
		osc.NewDispatcher(cfg.OSC.Host, cfg.OSC.Port, log),
		clip,
		usecase.WorkerConfig{
			SampleRate:      cfg.Audio.SampleRate,
			Channels:        cfg.Audio.Channels,
			SourceLanguage:  cfg.Translate.SourceLanguage,
			TargetLanguages: cfg.TargetLanguageList(),
		},
		log,
	)

	controller := usecase.NewPushToTalk(recorder, worker, notifier, cfg.TriggerKey(), log)
	worker.SetPhaseSink(controller)

	return Services{
		Controller: controller,
		Worker:     worker,
		Recorder:   recorder,
		Keys:       hotkey.NewListener(),
	}, nil
}

func buildRecorder(cfg config.Config, log *slog.Logger) (ports.Recorder, error) {
	audioCfg := ports.AudioConfig{
		SampleRate:  cfg.Audio.SampleRate,
		Channels:    cfg.Audio.Channels,
		ChunkFrames: cfg.Audio.Chunk,
		DeviceIndex: cfg.Audio.DeviceIndex,
	}
	switch cfg.Audio.Backend {
	case "", "portaudio":
		return audio.NewPortAudioRecorder(audioCfg, log), nil
	case "ffmpeg":
		return audio.NewFFmpegRecorder("ffmpeg", cfg.Audio.FFmpegInput, audioCfg, log), nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", cfg.Audio.Backend)
	}
}
