package interfaces

import (
	"context"

	"github.com/wathbahs/muraji/pkg/domain/model/session"
	"github.com/wathbahs/muraji/pkg/domain/types"
)

// Repository is the durable store for sessions and their ordered message
// history. The in-process session registry is only a performance layer; this
// is the source of truth and must survive process restarts.
type Repository interface {
	// CreateSession fails with errs.ErrSessionExists when the ID is taken
	CreateSession(ctx context.Context, sess *session.Session) error

	// GetSession returns (nil, nil) when the session does not exist
	GetSession(ctx context.Context, sessionID types.SessionID) (*session.Session, error)

	// ListSessions returns summaries ordered by creation time descending,
	// each annotated with its message count
	ListSessions(ctx context.Context) ([]session.Summary, error)

	// DeleteSession cascades to the session's messages. Deleting an absent
	// session is a no-op, not an error.
	DeleteSession(ctx context.Context, sessionID types.SessionID) error

	// PutMessage fails when the owning session does not exist
	PutMessage(ctx context.Context, msg *session.Message) error

	// GetMessages returns messages ordered by (created_at, seq). A session
	// with no messages yields an empty slice, not an error.
	GetMessages(ctx context.Context, sessionID types.SessionID) ([]*session.Message, error)

	Close() error
}
