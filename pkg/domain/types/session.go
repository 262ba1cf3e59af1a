package types

import "github.com/google/uuid"

// SessionID identifies one audit conversation. It is the external handle
// returned to clients and the primary key in the repository.
type SessionID string

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func (x SessionID) String() string {
	return string(x)
}

// MessageID identifies a single turn within a session
type MessageID string

// NewMessageID generates a new message ID
func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

func (x MessageID) String() string {
	return string(x)
}

// MessageRole represents who produced a conversation turn
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func (x MessageRole) String() string {
	return string(x)
}

// Validate checks that the role is one of the known values
func (x MessageRole) Validate() bool {
	return x == RoleUser || x == RoleAssistant
}
