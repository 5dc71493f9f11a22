package models

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn in a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Tool is set when Role is RoleTool and names the tool that ran.
	Tool      string    `json:"tool,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
