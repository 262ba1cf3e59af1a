package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/model/session"
	"github.com/wathbahs/muraji/pkg/domain/types"
)

// Repository is an in-memory implementation for tests and local development.
// It copies on read and write so callers can never alias internal state.
type Repository struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*session.Session
	messages map[types.SessionID][]*session.Message
}

var _ interfaces.Repository = (*Repository)(nil)

func New() *Repository {
	return &Repository{
		sessions: make(map[types.SessionID]*session.Session),
		messages: make(map[types.SessionID][]*session.Message),
	}
}

func copySession(s *session.Session) *session.Session {
	c := *s
	c.Context.Requirements = append(c.Context.Requirements[:0:0], s.Context.Requirements...)
	c.Context.FileResources = append(c.Context.FileResources[:0:0], s.Context.FileResources...)
	c.Context.ContextFiles = append(c.Context.ContextFiles[:0:0], s.Context.ContextFiles...)
	return &c
}

func (r *Repository) CreateSession(ctx context.Context, sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sess.ID]; ok {
		return goerr.Wrap(errs.ErrSessionExists, "duplicate session id", goerr.V("session_id", sess.ID))
	}

	r.sessions[sess.ID] = copySession(sess)
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID types.SessionID) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

func (r *Repository) ListSessions(ctx context.Context) ([]session.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]session.Summary, 0, len(r.sessions))
	for id, s := range r.sessions {
		summaries = append(summaries, s.ToSummary(len(r.messages[id])))
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

func (r *Repository) DeleteSession(ctx context.Context, sessionID types.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	delete(r.messages, sessionID)
	return nil
}

func (r *Repository) PutMessage(ctx context.Context, msg *session.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[msg.SessionID]; !ok {
		return goerr.Wrap(errs.ErrSessionNotFound, "message for unknown session",
			goerr.V("session_id", msg.SessionID))
	}

	c := *msg
	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], &c)
	return nil
}

func (r *Repository) GetMessages(ctx context.Context, sessionID types.SessionID) ([]*session.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[sessionID]
	msgs := make([]*session.Message, 0, len(stored))
	for _, m := range stored {
		c := *m
		msgs = append(msgs, &c)
	}

	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].Seq < msgs[j].Seq
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	return msgs, nil
}

func (r *Repository) Close() error {
	return nil
}
