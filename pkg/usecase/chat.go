package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/model/session"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/service/compose"
	"github.com/wathbahs/muraji/pkg/service/contextcache"
	"github.com/wathbahs/muraji/pkg/service/registry"
	"github.com/wathbahs/muraji/pkg/utils/clock"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

// CreateSession grounds a new conversation: composes the instruction from the
// grounding context, attempts a provider-side context cache (best effort),
// opens a live conversation handle, persists the record, and registers the
// handle. Cache failure degrades to raw-instruction mode; a model client that
// cannot open a conversation is fatal.
func (u *UseCases) CreateSession(ctx context.Context, gctx audit.GroundingContext) (*session.Session, error) {
	if u.llm == nil {
		return nil, goerr.Wrap(errs.ErrLLMNotConfigured, "cannot create session")
	}
	logger := logging.From(ctx)

	instruction := compose.Build(gctx)

	sess := session.New(ctx, gctx, instruction, "", contextcache.TTL)
	cacheName := u.cache.TryCreate(ctx, instruction, sess.ID)
	if cacheName != "" {
		sess.CacheName = cacheName
		sess.CacheExpiresAt = sess.CreatedAt.Add(contextcache.TTL)
	}

	conv, err := u.llm.StartChat(ctx, chatConfig(cacheName, instruction), nil)
	if err != nil {
		u.cache.Drop(ctx, cacheName)
		return nil, goerr.Wrap(err, "failed to open conversation",
			goerr.V("session_id", sess.ID),
			goerr.T(errs.TagLLMError))
	}

	if err := u.repository.CreateSession(ctx, sess); err != nil {
		u.cache.Drop(ctx, cacheName)
		return nil, err
	}

	u.registry.Put(sess.ID, &registry.Entry{Conversation: conv})

	logger.Info("session created",
		"session_id", sess.ID,
		"requirements", len(gctx.Requirements),
		"cached", cacheName != "",
		"instruction_chars", len(instruction))
	return sess, nil
}

// SendMessage forwards one user turn and persists the exchange. Three entry
// states are handled: a warm session uses its live handle directly; a cold one
// is reconstructed from the stored record and history; an absent one gets a
// minimal degraded record first so delivery never hard-fails on a lost session.
func (u *UseCases) SendMessage(ctx context.Context, sessionID types.SessionID, text string) (string, error) {
	if u.llm == nil {
		return "", goerr.Wrap(errs.ErrLLMNotConfigured, "cannot send message")
	}

	entry := u.registry.Get(sessionID)
	if entry == nil {
		var err error
		entry, err = u.reconstruct(ctx, sessionID)
		if err != nil {
			return "", err
		}
	}

	// One in-flight turn per session: hold the entry across send and persist
	// so the stored order matches the conversation order.
	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	reply, err := entry.Conversation.Send(ctx, text)
	if err != nil {
		// Nothing is persisted for a failed call
		return "", goerr.Wrap(err, "model call failed",
			goerr.V("session_id", sessionID),
			goerr.T(errs.TagLLMError))
	}

	userMsg := session.NewMessage(ctx, sessionID, types.RoleUser, text, entry.NextSeq)
	if err := u.repository.PutMessage(ctx, userMsg); err != nil {
		return "", goerr.Wrap(err, "failed to persist user turn",
			goerr.V("session_id", sessionID))
	}
	assistantMsg := session.NewMessage(ctx, sessionID, types.RoleAssistant, reply, entry.NextSeq+1)
	if err := u.repository.PutMessage(ctx, assistantMsg); err != nil {
		return "", goerr.Wrap(err, "failed to persist assistant turn",
			goerr.V("session_id", sessionID))
	}
	entry.NextSeq += 2

	return reply, nil
}

// reconstruct rebuilds a live handle for a session with no in-process entry.
// The stored cache handle is never reused here: its TTL may have silently
// expired, so reconstruction always runs in raw-instruction mode.
func (u *UseCases) reconstruct(ctx context.Context, sessionID types.SessionID) (*registry.Entry, error) {
	logger := logging.From(ctx)

	sess, err := u.repository.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		// Degraded path: the client presented an unknown ID. Create a minimal
		// ungrounded record so delivery still works.
		logger.Warn("session record missing, creating degraded session",
			"session_id", sessionID)
		sess = &session.Session{
			ID:          sessionID,
			Instruction: compose.DefaultInstruction(),
			CreatedAt:   clock.Now(ctx),
		}
		if err := u.repository.CreateSession(ctx, sess); err != nil {
			return nil, err
		}
	}

	history, err := u.repository.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turns := make([]interfaces.HistoryTurn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, interfaces.HistoryTurn{
			IsModel: msg.Role == types.RoleAssistant,
			Text:    msg.Text,
		})
	}

	conv, err := u.llm.StartChat(ctx, interfaces.ChatConfig{SystemInstruction: sess.Instruction}, turns)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to reconstruct conversation",
			goerr.V("session_id", sessionID),
			goerr.V("history_turns", len(turns)),
			goerr.T(errs.TagLLMError))
	}

	logger.Info("session reconstructed",
		"session_id", sessionID,
		"history_turns", len(turns))

	// First creator wins on concurrent reconstruction
	return u.registry.Put(sessionID, &registry.Entry{
		Conversation: conv,
		NextSeq:      int64(len(history)),
	}), nil
}

// GetSession loads a session and its ordered history for display. Read-only:
// no live handle is created.
func (u *UseCases) GetSession(ctx context.Context, sessionID types.SessionID) (*session.Session, []*session.Message, error) {
	sess, err := u.repository.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, goerr.Wrap(errs.ErrSessionNotFound, "cannot load session",
			goerr.V("session_id", sessionID))
	}

	msgs, err := u.repository.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess, msgs, nil
}

func (u *UseCases) ListSessions(ctx context.Context) ([]session.Summary, error) {
	return u.repository.ListSessions(ctx)
}

// DeleteSession drops the live handle, the provider-side cache if one is
// still within its lifetime, and the durable record with its messages.
// Idempotent: deleting an absent session is a no-op.
func (u *UseCases) DeleteSession(ctx context.Context, sessionID types.SessionID) error {
	u.registry.Remove(sessionID)

	sess, err := u.repository.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess != nil && u.cache != nil {
		u.cache.Drop(ctx, sess.CacheName)
	}

	return u.repository.DeleteSession(ctx, sessionID)
}

func chatConfig(cacheName, instruction string) interfaces.ChatConfig {
	if cacheName != "" {
		return interfaces.ChatConfig{CacheName: cacheName}
	}
	return interfaces.ChatConfig{SystemInstruction: instruction}
}
