package session

import (
	"context"
	"time"

	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/utils/clock"
)

// Message is one turn in a session's conversation. Messages are append-only:
// never mutated or reordered, deleted only via cascade with their session.
type Message struct {
	ID        types.MessageID   `firestore:"id" json:"id"`
	SessionID types.SessionID   `firestore:"session_id" json:"sessionId"`
	Role      types.MessageRole `firestore:"role" json:"role"`
	Text      string            `firestore:"text" json:"text"`
	CreatedAt time.Time         `firestore:"created_at" json:"createdAt"`
	// Seq breaks timestamp ties: CreatedAt establishes the order and Seq is
	// the surrogate for turns landing within the same clock tick.
	Seq int64 `firestore:"seq" json:"-"`
}

// NewMessage creates a message for the given turn
func NewMessage(ctx context.Context, sessionID types.SessionID, role types.MessageRole, text string, seq int64) *Message {
	return &Message{
		ID:        types.NewMessageID(),
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		CreatedAt: clock.Now(ctx),
		Seq:       seq,
	}
}
