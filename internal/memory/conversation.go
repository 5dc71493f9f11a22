// Package memory provides conversational context for the planner: a
// bounded in-process history of the current session plus a SQLite-backed
// long-term store for facts and past interactions.
package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glowdesk/glow/pkg/models"
)

// Conversation is a bounded ring of session messages. A turn is one user
// message plus one assistant message, so the ring holds max_turns*2 entries.
type Conversation struct {
	mu       sync.Mutex
	maxTurns int
	history  []models.Message
}

// NewConversation creates a conversation memory keeping maxTurns turns.
func NewConversation(maxTurns int) *Conversation {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Conversation{maxTurns: maxTurns}
}

// AddUser records a user message.
func (c *Conversation) AddUser(content string) {
	c.add(models.Message{Role: models.RoleUser, Content: content, Timestamp: time.Now()})
}

// AddAssistant records an assistant message.
func (c *Conversation) AddAssistant(content string) {
	c.add(models.Message{Role: models.RoleAssistant, Content: content, Timestamp: time.Now()})
}

// AddTool records a tool execution.
func (c *Conversation) AddTool(tool, result string) {
	c.add(models.Message{Role: models.RoleTool, Tool: tool, Content: result, Timestamp: time.Now()})
}

func (c *Conversation) add(m models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, m)
	if max := c.maxTurns * 2; len(c.history) > max {
		c.history = c.history[len(c.history)-max:]
	}
}

// Messages returns the user and assistant messages, oldest first. Tool
// entries are kept out: they are execution detail, not dialogue.
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, 0, len(c.history))
	for _, m := range c.history {
		if m.Role == models.RoleUser || m.Role == models.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

// RecentContext renders the last numTurns turns as plain text for prompt
// injection.
func (c *Conversation) RecentContext(numTurns int) string {
	msgs := c.Messages()
	if n := numTurns * 2; len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	var lines []string
	for _, m := range msgs {
		switch m.Role {
		case models.RoleUser:
			lines = append(lines, fmt.Sprintf("User: %s", m.Content))
		case models.RoleAssistant:
			lines = append(lines, fmt.Sprintf("Assistant: %s", m.Content))
		}
	}
	return strings.Join(lines, "\n")
}

// Clear empties the history.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}
