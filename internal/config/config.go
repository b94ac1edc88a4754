package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultPath is the settings file next to the executable, matching the
// original distribution layout.
const DefaultPath = ".env"

// Config is the full runtime configuration, loaded once at startup from a
// dotenv file plus the process environment. The pipeline never hot-reloads.
type Config struct {
	Audio     AudioConfig
	Whisper   WhisperConfig
	DeepSeek  DeepSeekConfig
	Translate TranslateConfig
	OSC       OSCConfig
	Hotkey    HotkeyConfig
	Log       LogConfig
	Extras    ExtrasConfig
}

type AudioConfig struct {
	Chunk       int    `env:"AUDIO_CHUNK" env-default:"1024"`
	Channels    int    `env:"AUDIO_CHANNELS" env-default:"1"`
	SampleRate  int    `env:"AUDIO_RATE" env-default:"16000"`
	DeviceIndex int    `env:"AUDIO_DEVICE_INDEX" env-default:"-1"`
	Backend     string `env:"AUDIO_BACKEND" env-default:"portaudio"`
	FFmpegInput string `env:"AUDIO_FFMPEG_INPUT" env-default:"default"`
}

type WhisperConfig struct {
	Model   string `env:"WHISPER_MODEL" env-default:"whisper-1"`
	BaseURL string `env:"WHISPER_BASE_URL"`
	APIKey  string `env:"WHISPER_API_KEY"`
}

type DeepSeekConfig struct {
	APIKey  string `env:"DEEPSEEK_API_KEY"`
	Model   string `env:"DEEPSEEK_MODEL" env-default:"deepseek-chat"`
	BaseURL string `env:"DEEPSEEK_BASE_URL" env-default:"https://api.deepseek.com"`
}

type TranslateConfig struct {
	SourceLanguage  string `env:"SOURCE_LANGUAGE" env-default:"zh"`
	TargetLanguages string `env:"TARGET_LANGUAGES" env-default:"en,ja,ko"`
}

type OSCConfig struct {
	Host string `env:"OSC_IP" env-default:"127.0.0.1"`
	Port int    `env:"OSC_PORT" env-default:"9000"`
}

type HotkeyConfig struct {
	Key string `env:"HOTKEY" env-default:"k"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"INFO"`
	File  string `env:"LOG_FILE" env-default:"vrchat_translator.log"`
}

type ExtrasConfig struct {
	Notifications  bool   `env:"NOTIFICATION" env-default:"false"`
	CopyToClip     bool   `env:"CLIPBOARD" env-default:"false"`
	KeepRecordings bool   `env:"KEEP_RECORDINGS" env-default:"false"`
	RecordingsDir  string `env:"RECORDINGS_DIR"`
}

// Load reads the dotenv file (when present) into the process environment
// and resolves the configuration. A missing file is not an error; missing
// required credentials are reported by Validate, not here.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Audio.Chunk <= 0 {
		cfg.Audio.Chunk = 1024
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Whisper.APIKey == "" {
		cfg.Whisper.APIKey = cfg.DeepSeek.APIKey
	}

	return cfg, nil
}

// Validate enforces the fatal-at-startup requirements.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DeepSeek.APIKey) == "" {
		return errors.New("DEEPSEEK_API_KEY is not configured")
	}
	if len(c.TargetLanguageList()) == 0 {
		return errors.New("TARGET_LANGUAGES is empty")
	}
	if c.OSC.Port <= 0 || c.OSC.Port > 65535 {
		return fmt.Errorf("OSC_PORT %d is out of range", c.OSC.Port)
	}
	return nil
}

// TargetLanguageList splits the configured comma-separated target list,
// preserving order and dropping empty entries.
func (c Config) TargetLanguageList() []string {
	parts := strings.Split(c.Translate.TargetLanguages, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// TriggerKey returns the lower-cased single trigger character.
func (c Config) TriggerKey() rune {
	key := strings.TrimSpace(strings.ToLower(c.Hotkey.Key))
	if key == "" {
		return 'k'
	}
	return []rune(key)[0]
}

// LogLevel maps the configured verbosity onto slog levels.
func (c Config) LogLevel() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(c.Log.Level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
