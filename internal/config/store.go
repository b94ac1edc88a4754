package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SettingKeys lists every editable key in presentation order. The settings
// editor iterates this slice; Save writes keys back in the same order.
var SettingKeys = []string{
	"SOURCE_LANGUAGE",
	"TARGET_LANGUAGES",
	"HOTKEY",
	"WHISPER_MODEL",
	"WHISPER_BASE_URL",
	"WHISPER_API_KEY",
	"DEEPSEEK_API_KEY",
	"DEEPSEEK_MODEL",
	"DEEPSEEK_BASE_URL",
	"OSC_IP",
	"OSC_PORT",
	"AUDIO_DEVICE_INDEX",
	"AUDIO_CHUNK",
	"AUDIO_RATE",
	"AUDIO_CHANNELS",
	"AUDIO_BACKEND",
	"LOG_LEVEL",
	"NOTIFICATION",
	"CLIPBOARD",
	"KEEP_RECORDINGS",
}

// defaultSettings mirrors the defaults baked into the Config env tags.
var defaultSettings = map[string]string{
	"SOURCE_LANGUAGE":    "zh",
	"TARGET_LANGUAGES":   "en,ja,ko",
	"HOTKEY":             "k",
	"WHISPER_MODEL":      "whisper-1",
	"WHISPER_BASE_URL":   "",
	"WHISPER_API_KEY":    "",
	"DEEPSEEK_API_KEY":   "",
	"DEEPSEEK_MODEL":     "deepseek-chat",
	"DEEPSEEK_BASE_URL":  "https://api.deepseek.com",
	"OSC_IP":             "127.0.0.1",
	"OSC_PORT":           "9000",
	"AUDIO_DEVICE_INDEX": "-1",
	"AUDIO_CHUNK":        "1024",
	"AUDIO_RATE":         "16000",
	"AUDIO_CHANNELS":     "1",
	"AUDIO_BACKEND":      "portaudio",
	"LOG_LEVEL":          "INFO",
	"NOTIFICATION":       "false",
	"CLIPBOARD":          "false",
	"KEEP_RECORDINGS":    "false",
}

// Store reads and writes the dotenv settings file consumed at startup.
// The settings editor is the only writer; the core only reads.
type Store struct {
	path string
}

// NewStore creates a store bound to a dotenv file path.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file into a key/value map. A missing file yields
// the defaults so the editor can create it on first save.
func (s *Store) Load() (map[string]string, error) {
	values := make(map[string]string, len(SettingKeys))
	for k, v := range defaultSettings {
		values[k] = v
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read %q: %w", s.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return values, nil
}

// Save writes the settings back as KEY=value lines in SettingKeys order,
// keeping unknown keys the user added by hand at the end.
func (s *Store) Save(values map[string]string) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	var b strings.Builder
	written := make(map[string]bool, len(values))
	for _, key := range SettingKeys {
		if value, ok := values[key]; ok {
			fmt.Fprintf(&b, "%s=%s\n", key, value)
			written[key] = true
		}
	}
	for key, value := range values {
		if !written[key] {
			fmt.Fprintf(&b, "%s=%s\n", key, value)
		}
	}

	return os.WriteFile(s.path, []byte(b.String()), 0o644)
}

// EnsureExists writes the default settings file when none is present.
func (s *Store) EnsureExists() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.Save(defaultSettings)
}
