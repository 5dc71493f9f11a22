package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GoalSubmittedMsg is sent when the user submits a goal.
type GoalSubmittedMsg struct {
	Goal string
	// Plan requests full plan-mode execution instead of the iterative loop.
	Plan bool
}

// ParseGoal checks for an explicit mode prefix (!plan, !do) and returns the
// goal text with the prefix stripped plus whether plan mode was requested.
func ParseGoal(text string) (string, bool) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "!plan ") {
		return strings.TrimSpace(strings.TrimPrefix(text, "!plan ")), true
	}
	if strings.HasPrefix(text, "!do ") {
		return strings.TrimSpace(strings.TrimPrefix(text, "!do ")), false
	}
	return text, false
}

// InputField is a text input component for entering goals.
type InputField struct {
	input textinput.Model
	width int
}

// NewInputField creates a new InputField.
func NewInputField() *InputField {
	ti := textinput.New()
	ti.Placeholder = "Tell me what to do and press Enter..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return &InputField{
		input: ti,
		width: 80,
	}
}

// SetWidth sets the width of the input field.
func (f *InputField) SetWidth(width int) {
	f.width = width
	f.input.Width = width - 4 // Account for prompt and padding
}

// Update handles messages for the input field.
func (f *InputField) Update(msg tea.Msg) (*InputField, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := f.input.Value()
			if strings.TrimSpace(text) != "" {
				goal, plan := ParseGoal(text)
				f.input.Reset()
				return f, func() tea.Msg {
					return GoalSubmittedMsg{
						Goal: goal,
						Plan: plan,
					}
				}
			}
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the input field.
func (f *InputField) View() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(f.width - 2)

	prompt := promptStyle.Render("> ")
	return boxStyle.Render(prompt + f.input.View())
}

// Focus sets focus on the input field.
func (f *InputField) Focus() tea.Cmd {
	return f.input.Focus()
}

// Blur removes focus from the input field.
func (f *InputField) Blur() {
	f.input.Blur()
}
