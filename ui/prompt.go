package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type InputData struct {
	Question     string
	DefaultValue string

	// Parse validates the answer, or the default when the answer is empty.
	Parse func(string) error
}

// Prompt is a single line text question.
type Prompt struct {
	Input textinput.Model
	Data  InputData
}

func NewPrompt(inputData InputData) Prompt {
	input := textinput.New()
	input.Prompt = fmt.Sprintf("%s: ", inputData.Question)
	input.Placeholder = inputData.DefaultValue
	return Prompt{Data: inputData, Input: input}
}

// Focus starts accepting key input and returns the cursor blink command.
func (m *Prompt) Focus() tea.Cmd {
	return m.Input.Focus()
}

func (m Prompt) Focused() bool {
	return m.Input.Focused()
}

func (m *Prompt) SetValue(value string) {
	m.Input.SetValue(value)
}

func (m Prompt) GetValue() string {
	if m.Input.Value() != "" {
		return m.Input.Value()
	}
	return m.Data.DefaultValue
}

func (m Prompt) ParseValue() error {
	if m.Data.Parse == nil {
		return nil
	}
	return m.Data.Parse(m.GetValue())
}

func (m Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Prompt) View() string {
	return m.Input.View()
}
