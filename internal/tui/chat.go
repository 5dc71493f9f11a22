package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AssistantReplyMsg carries the assistant's final answer for one goal. It is
// sent into the program from the goroutine running the orchestrator.
type AssistantReplyMsg struct {
	Text string
}

// chatLine is one entry in the transcript.
type chatLine struct {
	role string // "you" or "glow"
	text string
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// ChatApp is the main model for interactive mode: a transcript viewport over
// an input field, with a spinner while a goal is executing.
type ChatApp struct {
	viewport viewport.Model
	input    *InputField
	spinner  spinner.Model

	lines    []chatLine
	width    int
	height   int
	busy     bool
	quitting bool
	ready    bool

	// Callback for when a goal is submitted.
	onGoal func(goal string, plan bool)
}

// NewChatApp creates a new ChatApp.
func NewChatApp() *ChatApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))

	return &ChatApp{
		input:   NewInputField(),
		spinner: sp,
	}
}

// SetGoalHandler sets the callback for goal submissions.
func (a *ChatApp) SetGoalHandler(handler func(goal string, plan bool)) {
	a.onGoal = handler
}

// Init implements tea.Model.
func (a *ChatApp) Init() tea.Cmd {
	return a.input.Focus()
}

// Update implements tea.Model.
func (a *ChatApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd

		default:
			// Ignore typing while a goal is running; the input stays
			// focused but submissions would interleave runs.
			if a.busy && msg.String() == "enter" {
				return a, nil
			}
			var cmd tea.Cmd
			a.input, cmd = a.input.Update(msg)
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		a.refreshTranscript()
		a.ready = true
		return a, nil

	case GoalSubmittedMsg:
		a.append("you", msg.Goal)
		a.busy = true
		if a.onGoal != nil {
			a.onGoal(msg.Goal, msg.Plan)
		}
		return a, a.spinner.Tick

	case AssistantReplyMsg:
		a.append("glow", msg.Text)
		a.busy = false
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// append adds a transcript line and scrolls to the bottom.
func (a *ChatApp) append(role, text string) {
	a.lines = append(a.lines, chatLine{role: role, text: text})
	a.refreshTranscript()
	a.viewport.GotoBottom()
}

// Busy reports whether a goal is currently executing.
func (a *ChatApp) Busy() bool {
	return a.busy
}

// Transcript returns the rendered conversation text.
func (a *ChatApp) Transcript() string {
	var b strings.Builder
	for i, line := range a.lines {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := userLabelStyle.Render("you")
		if line.role == "glow" {
			label = assistantLabelStyle.Render("glow")
		}
		b.WriteString(label + "  " + line.text)
	}
	return b.String()
}

// updateSizes updates the sizes of child components based on terminal size.
func (a *ChatApp) updateSizes() {
	// Header and footer take one line each, the input box three.
	transcriptHeight := a.height - 5
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	if !a.ready {
		a.viewport = viewport.New(a.width, transcriptHeight)
	} else {
		a.viewport.Width = a.width
		a.viewport.Height = transcriptHeight
	}
	a.input.SetWidth(a.width)
}

func (a *ChatApp) refreshTranscript() {
	wrap := lipgloss.NewStyle().Width(a.viewport.Width)
	a.viewport.SetContent(wrap.Render(a.Transcript()))
}

// View implements tea.Model.
func (a *ChatApp) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}
	if !a.ready {
		return "Starting up..."
	}

	header := titleStyle.Render("GLOW") + footerStyle.Render("  desktop assistant")

	status := "Enter to send · !plan for multi-step plans · Esc to quit"
	if a.busy {
		status = a.spinner.View() + " working..."
	}
	footer := footerStyle.Render(status)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.viewport.View(),
		footer,
		a.input.View(),
	)
}

// NewChatProgram creates a new Bubbletea program for interactive mode.
func NewChatProgram() (*tea.Program, *ChatApp) {
	app := NewChatApp()
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
