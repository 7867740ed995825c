package ui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nydauron/regattascore/rotation"
)

// ErrCanceled is returned when the form is left without answering.
var ErrCanceled = errors.New("rotation form canceled")

// RotationChoice holds the answers of a RotationForm.
type RotationChoice struct {
	Type    rotation.Type
	Style   rotation.Style
	SetSize int
}

const (
	stepType = iota
	stepStyle
	stepSetSize
	stepDone
)

// RotationForm asks for rotation type, style and set size in turn. Enter
// accepts the current answer.
type RotationForm struct {
	typeInput  Selection
	styleInput Selection
	setSize    Prompt

	step     int
	err      error
	canceled bool
}

func NewRotationForm(defaults RotationChoice) RotationForm {
	types := []SelectionOption{
		{Key: rotation.TypeStandard.String(), DisplayText: "Standard"},
		{Key: rotation.TypeSwap.String(), DisplayText: "Swap"},
		{Key: rotation.TypeStatic.String(), DisplayText: "Static"},
	}
	styles := []SelectionOption{
		{Key: rotation.StyleNavy.String(), DisplayText: "Navy (collated sets)"},
		{Key: rotation.StyleFranny.String(), DisplayText: "Franny (offset divisions)"},
		{Key: rotation.StyleNone.String(), DisplayText: "Individual divisions"},
	}
	return RotationForm{
		typeInput:  NewSelection("Rotation type", types, optionIndex(types, defaults.Type.String()), false),
		styleInput: NewSelection("Rotation style", styles, optionIndex(styles, defaults.Style.String()), false),
		setSize: NewPrompt(InputData{
			Question:     "Races per set",
			DefaultValue: strconv.Itoa(max(defaults.SetSize, 1)),
			Parse: func(s string) error {
				n, err := strconv.Atoi(s)
				if err != nil || n < 1 {
					return fmt.Errorf("set size must be a positive number, got %q", s)
				}
				return nil
			},
		}),
	}
}

func optionIndex(options []SelectionOption, key string) int {
	for i, o := range options {
		if o.Key == key {
			return i
		}
	}
	return 0
}

func (m RotationForm) Init() tea.Cmd {
	return nil
}

func (m RotationForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			return m.advance()
		}
	}

	var cmd tea.Cmd
	switch m.step {
	case stepType:
		m.typeInput, cmd = m.typeInput.Update(msg)
	case stepStyle:
		m.styleInput, cmd = m.styleInput.Update(msg)
	case stepSetSize:
		m.setSize, cmd = m.setSize.Update(msg)
	}
	return m, cmd
}

func (m RotationForm) advance() (tea.Model, tea.Cmd) {
	if m.step == stepSetSize {
		if err := m.setSize.ParseValue(); err != nil {
			m.err = err
			return m, nil
		}
	}
	m.err = nil
	m.step++
	switch m.step {
	case stepSetSize:
		return m, m.setSize.Focus()
	case stepDone:
		return m, tea.Quit
	}
	return m, nil
}

func (m RotationForm) View() string {
	var b strings.Builder
	switch m.step {
	case stepType:
		b.WriteString(m.typeInput.View())
	case stepStyle:
		b.WriteString(m.styleInput.View())
	case stepSetSize:
		b.WriteString(m.setSize.View())
	default:
		return ""
	}
	if m.err != nil {
		b.WriteString("\n" + m.err.Error())
	}
	b.WriteString("\n\n(enter to accept, esc to cancel)\n")
	return b.String()
}

// Choice returns the answers once the form has finished.
func (m RotationForm) Choice() (RotationChoice, error) {
	if m.canceled || m.step != stepDone {
		return RotationChoice{}, ErrCanceled
	}
	t, err := rotation.ParseType(m.typeInput.Key())
	if err != nil {
		return RotationChoice{}, err
	}
	s, err := rotation.ParseStyle(m.styleInput.Key())
	if err != nil {
		return RotationChoice{}, err
	}
	n, err := strconv.Atoi(m.setSize.GetValue())
	if err != nil {
		return RotationChoice{}, err
	}
	return RotationChoice{Type: t, Style: s, SetSize: n}, nil
}

// RunRotationForm shows the form on out, reading keys from in.
func RunRotationForm(in io.Reader, out io.Writer, defaults RotationChoice) (RotationChoice, error) {
	p := tea.NewProgram(NewRotationForm(defaults), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return RotationChoice{}, err
	}
	return final.(RotationForm).Choice()
}
