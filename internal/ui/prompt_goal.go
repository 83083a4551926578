package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptGoal interactively asks the user to describe a planning goal.
// Returns the entered description or an error when the prompt is cancelled.
func PromptGoal() (string, error) {
	ti := textinput.New()
	ti.Placeholder = "Describe what you want to build..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 60

	p := tea.NewProgram(goalPromptModel{textInput: ti})
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running prompt: %w", err)
	}

	result := finalModel.(goalPromptModel)
	if result.quit {
		return "", fmt.Errorf("goal input cancelled")
	}
	return result.value, nil
}

type goalPromptModel struct {
	textInput textinput.Model
	value     string
	quit      bool
}

func (m goalPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m goalPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.value = m.textInput.Value()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m goalPromptModel) View() string {
	s := "\n" + StyleTitle.Render("🎯 What are you planning?") + "\n"
	s += StyleSubtle.Render("A short description of the goal to plan for") + "\n\n"
	s += StyleInputBox.Render(m.textInput.View()) + "\n\n"
	s += StyleSubtle.Render("Press Enter to confirm • Esc to cancel") + "\n"
	return s
}
