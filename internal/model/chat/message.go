package chat

import "time"

// Role tags who produced a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Turn is one user message or one assistant reply.
// Example exchanges reuse the type and leave ID and CreatedAt empty.
type Turn struct {
	ID        string    `json:"id,omitempty" toml:"-"`
	Role      Role      `json:"role" toml:"role"`
	Content   string    `json:"content" toml:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty" toml:"-"`
}

// UserTurn builds an unstamped user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an unstamped assistant turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}
