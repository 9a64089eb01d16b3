package models

// Role identifies the author of a chat message
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Source is one grounding citation returned with an answer
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// ChatMessage is a single transcript entry. Messages are never mutated after
// they are appended.
type ChatMessage struct {
	ID      string   `json:"id"`
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	Sources []Source `json:"sources,omitempty"`
}

// IsUser reports whether the message was authored by the user
func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}
