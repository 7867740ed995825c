package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type UpdateSelection struct {
	Idx int
}

type SelectionOption struct {
	Key         string
	DisplayText string
}

// Selection is a list of options with one marked. Number keys pick an
// option directly; arrow keys move the mark.
type Selection struct {
	Question string

	options       []SelectionOption
	selected      int
	displayInline bool
}

func NewSelection(question string, options []SelectionOption, selected int, inline bool) Selection {
	return Selection{Question: question, options: options, selected: selected, displayInline: inline}
}

// Key returns the key of the marked option, or "" when nothing is marked.
func (m Selection) Key() string {
	if m.selected < 0 || m.selected >= len(m.options) {
		return ""
	}
	return m.options[m.selected].Key
}

func (m Selection) Init() tea.Cmd {
	return nil
}

func (m Selection) Update(msg tea.Msg) (Selection, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateSelection:
		if msg.Idx >= 0 && msg.Idx < len(m.options) {
			m.selected = msg.Idx
		}
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "up", "left", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "right", "j", "tab":
			if m.selected < len(m.options)-1 {
				m.selected++
			}
		default:
			if idx, err := strconv.Atoi(key); err == nil {
				return m.Update(UpdateSelection{Idx: idx - 1})
			}
		}
	}
	return m, nil
}

func (m Selection) View() string {
	selectionStrArr := make([]string, len(m.options))
	for i, option := range m.options {
		marker := " "
		if i == m.selected {
			marker = "x"
		}
		selectionStrArr[i] = fmt.Sprintf("%d [%s] %s", i+1, marker, option.DisplayText)
	}
	sep := "\n"
	if m.displayInline {
		sep = " "
	}
	return m.Question + sep + strings.Join(selectionStrArr, sep)
}
