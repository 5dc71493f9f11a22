package memory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glowdesk/glow/pkg/models"
)

func TestConversationRoundTrip(t *testing.T) {
	c := NewConversation(10)
	c.AddUser("open notepad")
	c.AddAssistant("Opening notepad now.")
	c.AddTool("launch_application", "Launched gedit")

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, tool entries should be excluded", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[1].Role != models.RoleAssistant {
		t.Errorf("roles = %s, %s", msgs[0].Role, msgs[1].Role)
	}
}

func TestConversationBounded(t *testing.T) {
	c := NewConversation(2)
	for i := 0; i < 10; i++ {
		c.AddUser(fmt.Sprintf("request %d", i))
		c.AddAssistant(fmt.Sprintf("reply %d", i))
	}

	msgs := c.Messages()
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want 4", len(msgs))
	}
	if msgs[0].Content != "request 8" {
		t.Errorf("oldest kept = %q", msgs[0].Content)
	}
}

func TestRecentContextFormat(t *testing.T) {
	c := NewConversation(10)
	c.AddUser("what's the weather")
	c.AddAssistant("I can open a weather site for you.")

	ctx := c.RecentContext(3)
	if !strings.Contains(ctx, "User: what's the weather") {
		t.Errorf("context = %q", ctx)
	}
	if !strings.Contains(ctx, "Assistant: I can open a weather site for you.") {
		t.Errorf("context = %q", ctx)
	}
}

func TestConversationClear(t *testing.T) {
	c := NewConversation(10)
	c.AddUser("hi")
	c.Clear()
	if len(c.Messages()) != 0 {
		t.Error("history not cleared")
	}
}
