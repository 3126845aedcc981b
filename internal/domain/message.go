package domain

import "time"

// Role identifies who a chat message belongs to.
type Role int

const (
	RoleUser Role = iota
	RoleBot
	RoleError
)

// String returns the role name used in styling and markup classes.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleBot:
		return "bot"
	case RoleError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a single entry in the conversation view. Messages are
// immutable once handed to the view; display order is append order.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
}
