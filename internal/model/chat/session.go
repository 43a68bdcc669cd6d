package chat

import "time"

// Transcript is an exported snapshot of a session's retained history.
type Transcript struct {
	SessionID string    `json:"sessionId"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Alternates reports whether turns strictly alternate user/assistant starting with user.
func Alternates(turns []Turn) bool {
	for i, t := range turns {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if t.Role != want {
			return false
		}
	}
	return true
}
