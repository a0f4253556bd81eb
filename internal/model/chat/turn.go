package chat

import "time"

// Roles a turn can carry.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is a single message exchanged within an assistant session.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
