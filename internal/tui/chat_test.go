package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParseGoal(t *testing.T) {
	tests := []struct {
		input    string
		wantGoal string
		wantPlan bool
	}{
		{"open calculator", "open calculator", false},
		{"!plan make a folder and put a note in it", "make a folder and put a note in it", true},
		{"!do open firefox", "open firefox", false},
		{"  !plan tidy the desktop  ", "tidy the desktop", true},
		{"!planless prefix is not a mode", "!planless prefix is not a mode", false},
	}

	for _, tt := range tests {
		goal, plan := ParseGoal(tt.input)
		if goal != tt.wantGoal || plan != tt.wantPlan {
			t.Errorf("ParseGoal(%q) = (%q, %v), want (%q, %v)",
				tt.input, goal, plan, tt.wantGoal, tt.wantPlan)
		}
	}
}

func TestGoalSubmissionInvokesHandler(t *testing.T) {
	app := NewChatApp()
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	var gotGoal string
	var gotPlan bool
	app.SetGoalHandler(func(goal string, plan bool) {
		gotGoal = goal
		gotPlan = plan
	})

	app.Update(GoalSubmittedMsg{Goal: "open gedit", Plan: true})

	if gotGoal != "open gedit" || !gotPlan {
		t.Errorf("handler got (%q, %v), want (%q, true)", gotGoal, gotPlan, "open gedit")
	}
	if !app.Busy() {
		t.Error("app should be busy after a goal is submitted")
	}
	if !strings.Contains(app.Transcript(), "open gedit") {
		t.Error("transcript should contain the submitted goal")
	}
}

func TestAssistantReplyClearsBusy(t *testing.T) {
	app := NewChatApp()
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app.Update(GoalSubmittedMsg{Goal: "open gedit"})

	app.Update(AssistantReplyMsg{Text: "Done! gedit is open."})

	if app.Busy() {
		t.Error("app should not be busy after the assistant replies")
	}
	if !strings.Contains(app.Transcript(), "Done! gedit is open.") {
		t.Error("transcript should contain the assistant reply")
	}
}

func TestInputFieldEmitsGoalSubmitted(t *testing.T) {
	f := NewInputField()
	for _, r := range "!plan open calculator" {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on non-empty input should produce a command")
	}

	msg, ok := cmd().(GoalSubmittedMsg)
	if !ok {
		t.Fatalf("expected GoalSubmittedMsg, got %T", cmd())
	}
	if msg.Goal != "open calculator" || !msg.Plan {
		t.Errorf("got (%q, %v), want (%q, true)", msg.Goal, msg.Plan, "open calculator")
	}
	if f.input.Value() != "" {
		t.Error("input should reset after submission")
	}
}

func TestEmptyInputDoesNotSubmit(t *testing.T) {
	f := NewInputField()
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter on empty input should not produce a command")
	}
}
