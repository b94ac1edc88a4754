package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/CodeInLemonDD/LemonVRCT/internal/bootstrap"
	"github.com/CodeInLemonDD/LemonVRCT/internal/config"
)

// App owns the translator lifecycle: wiring at startup, the three
// long-lived goroutine contexts (hotkey listener, capture loop, pipeline
// worker), and orderly shutdown.
type App struct {
	cfg config.Config
	log *slog.Logger

	mu       sync.Mutex
	services bootstrap.Services
	cancel   context.CancelFunc
	running  bool
}

// NewApp creates an app for the loaded configuration.
func NewApp(cfg config.Config, log *slog.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Running reports whether the translator is active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Start wires the dependency graph and launches the background contexts.
// Wiring errors are fatal: without an input device or model clients the
// translator cannot run.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return fmt.Errorf("translator already running")
	}

	services, err := bootstrap.Build(a.cfg, a.log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	keys, err := services.Keys.Events(ctx)
	if err != nil {
		cancel()
		services.Recorder.Release()
		return fmt.Errorf("failed to install keyboard hook: %w", err)
	}

	a.services = services
	a.cancel = cancel
	a.running = true

	go services.Worker.Run(ctx)
	go func() {
		for ev := range keys {
			services.Controller.HandleKey(ctx, ev)
		}
	}()

	a.logBanner()
	return nil
}

// Stop drains the pipeline via the shutdown sentinel and releases the
// audio device regardless of in-flight state.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.cancel()
	a.services.Worker.Shutdown()
	a.services.Recorder.Release()
	a.running = false
	a.log.Info("translator stopped")
}

func (a *App) logBanner() {
	key := strings.ToUpper(string(a.cfg.TriggerKey()))
	a.log.Info("VRChat voice translator started",
		"source_language", a.cfg.Translate.SourceLanguage,
		"target_languages", strings.Join(a.cfg.TargetLanguageList(), ", "),
		"whisper_model", a.cfg.Whisper.Model,
		"chat_model", a.cfg.DeepSeek.Model,
		"osc_target", fmt.Sprintf("%s:%d", a.cfg.OSC.Host, a.cfg.OSC.Port),
		"hotkey", key,
	)
	a.log.Info(fmt.Sprintf("hold %s to record, release to translate", key))
}
