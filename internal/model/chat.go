package model

// Role identifies who produced a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn of a concierge transcript.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
