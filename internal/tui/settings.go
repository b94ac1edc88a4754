// Package tui is the terminal settings editor. It reads and writes the
// dotenv settings file; the translator core picks changes up on its next
// start.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CodeInLemonDD/LemonVRCT/internal/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFF00"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))
)

// secretKeys are masked in the list view.
var secretKeys = map[string]bool{
	"DEEPSEEK_API_KEY": true,
	"WHISPER_API_KEY":  true,
}

// Model is the root bubbletea model for the settings form.
type Model struct {
	store  *config.Store
	values map[string]string

	cursor  int
	editing bool
	buffer  string
	status  string
	saved   bool
	err     error
}

// NewModel loads current settings into the form.
func NewModel(store *config.Store) (Model, error) {
	values, err := store.Load()
	if err != nil {
		return Model{}, err
	}
	return Model{store: store, values: values}, nil
}

// Run opens the settings editor and blocks until it exits.
func Run(store *config.Store) error {
	model, err := NewModel(store)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateEditing(key)
	}
	return m.updateBrowsing(key)
}

func (m Model) updateBrowsing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(config.SettingKeys)-1 {
			m.cursor++
		}
	case "enter":
		m.editing = true
		m.buffer = m.values[config.SettingKeys[m.cursor]]
		m.status = ""
	case "s":
		if err := m.store.Save(m.values); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.saved = true
		m.status = fmt.Sprintf("Configuration saved to %s", m.store.Path())
	}
	return m, nil
}

func (m Model) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		m.values[config.SettingKeys[m.cursor]] = m.buffer
		m.editing = false
		m.saved = false
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyBackspace:
		if m.buffer != "" {
			runes := []rune(m.buffer)
			m.buffer = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.buffer += string(key.Runes)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("VRChat Translator Configuration"))
	b.WriteString("\n\n")

	for i, settingKey := range config.SettingKeys {
		value := m.values[settingKey]
		if secretKeys[settingKey] && value != "" && !(m.editing && i == m.cursor) {
			value = strings.Repeat("*", 8)
		}

		line := fmt.Sprintf("%-20s %s", settingKey, valueStyle.Render(value))
		if i == m.cursor {
			if m.editing {
				line = fmt.Sprintf("%-20s %s█", settingKey, m.buffer)
			}
			line = selectedStyle.Render("> " + line)
		} else {
			line = keyStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.editing {
		b.WriteString(helpStyle.Render("enter: apply  esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓: select  enter: edit  s: save  q: quit"))
	}
	return b.String()
}
