package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/repository/memory"
	"github.com/wathbahs/muraji/pkg/usecase"
)

type chatStart struct {
	cfg     interfaces.ChatConfig
	history []interfaces.HistoryTurn
}

type mockLLM struct {
	cacheErr      error
	createdCaches []string
	deletedCaches []string
	chatStarts    []chatStart
	chatErr       error
	sendReply     func(text string) (string, error)
}

func (x *mockLLM) GenerateOnce(ctx context.Context, prompt string) (string, error) {
	return `{"typical_evidence":[],"questions":[],"suggestions":[]}`, nil
}

func (x *mockLLM) CreateCache(ctx context.Context, instruction string, ttl time.Duration) (string, error) {
	if x.cacheErr != nil {
		return "", x.cacheErr
	}
	name := "cachedContents/cache-1"
	x.createdCaches = append(x.createdCaches, name)
	return name, nil
}

func (x *mockLLM) DeleteCache(ctx context.Context, name string) error {
	x.deletedCaches = append(x.deletedCaches, name)
	return nil
}

func (x *mockLLM) StartChat(ctx context.Context, cfg interfaces.ChatConfig, history []interfaces.HistoryTurn) (interfaces.Conversation, error) {
	if x.chatErr != nil {
		return nil, x.chatErr
	}
	x.chatStarts = append(x.chatStarts, chatStart{cfg: cfg, history: history})
	return &mockConversation{llm: x}, nil
}

type mockConversation struct {
	llm *mockLLM
}

func (x *mockConversation) Send(ctx context.Context, text string) (string, error) {
	if x.llm.sendReply != nil {
		return x.llm.sendReply(text)
	}
	return "reply to: " + text, nil
}

func groundingContext() audit.GroundingContext {
	return audit.GroundingContext{
		Requirements: []audit.Requirement{
			{FrameworkName: "ISO 27001", RefID: "A.5.1", Name: "Policies", Description: "Policy requirement"},
		},
		Query: "How should I start?",
	}
}

func TestCreateSessionWithCache(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{}
	repo := memory.New()
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))

	sess := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)
	gt.Equal(t, sess.CacheName, "cachedContents/cache-1")
	gt.True(t, !sess.CacheExpiresAt.IsZero())
	gt.S(t, sess.Instruction).Contains("A.5.1")

	// The conversation is bound to the cache handle, not the raw instruction
	gt.A(t, llm.chatStarts).Length(1)
	gt.Equal(t, llm.chatStarts[0].cfg.CacheName, "cachedContents/cache-1")
	gt.Equal(t, llm.chatStarts[0].cfg.SystemInstruction, "")

	stored := gt.R1(repo.GetSession(ctx, sess.ID)).NoError(t)
	gt.NotNil(t, stored)
	gt.Equal(t, stored.CacheName, "cachedContents/cache-1")
}

func TestCreateSessionCacheFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{cacheErr: errors.New("quota exhausted")}
	uc := usecase.New(usecase.WithLanguageModel(llm))

	// Cache failure must not fail creation
	sess := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)
	gt.Equal(t, sess.CacheName, "")
	gt.True(t, sess.CacheExpiresAt.IsZero())

	// Fallback: the conversation carries the raw instruction
	gt.A(t, llm.chatStarts).Length(1)
	gt.Equal(t, llm.chatStarts[0].cfg.CacheName, "")
	gt.S(t, llm.chatStarts[0].cfg.SystemInstruction).Contains("A.5.1")
}

func TestCreateSessionChatFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{chatErr: errors.New("connection refused")}
	repo := memory.New()
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))

	gt.R1(uc.CreateSession(ctx, groundingContext())).Error(t)

	// Nothing persisted, orphaned cache dropped
	summaries := gt.R1(repo.ListSessions(ctx)).NoError(t)
	gt.A(t, summaries).Length(0)
	gt.A(t, llm.deletedCaches).Length(1)
}

func TestCreateSessionWithoutLLM(t *testing.T) {
	uc := usecase.New()
	_, err := uc.CreateSession(context.Background(), groundingContext())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, errs.ErrLLMNotConfigured))
}

func TestSendMessageWarm(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{}
	repo := memory.New()
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))

	sess := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)

	reply := gt.R1(uc.SendMessage(ctx, sess.ID, "What evidence do I need?")).NoError(t)
	gt.Equal(t, reply, "reply to: What evidence do I need?")

	// User turn then assistant turn, in order
	msgs := gt.R1(repo.GetMessages(ctx, sess.ID)).NoError(t)
	gt.A(t, msgs).Length(2)
	gt.Equal(t, msgs[0].Role, types.RoleUser)
	gt.Equal(t, msgs[0].Text, "What evidence do I need?")
	gt.Equal(t, msgs[1].Role, types.RoleAssistant)
	gt.Equal(t, msgs[1].Text, reply)

	// No reconstruction happened: still only the creation-time chat
	gt.A(t, llm.chatStarts).Length(1)
}

func TestSendMessageFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{sendReply: func(string) (string, error) {
		return "", errors.New("model overloaded")
	}}
	repo := memory.New()
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))

	sess := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)

	_, err := uc.SendMessage(ctx, sess.ID, "hello")
	gt.Error(t, err)

	msgs := gt.R1(repo.GetMessages(ctx, sess.ID)).NoError(t)
	gt.A(t, msgs).Length(0)
}

func TestSendMessageColdResume(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{}
	repo := memory.New()

	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))
	sess := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)
	gt.R1(uc.SendMessage(ctx, sess.ID, "first question")).NoError(t)

	// Simulated restart: fresh registry, same durable store
	restarted := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))
	reply := gt.R1(restarted.SendMessage(ctx, sess.ID, "follow-up")).NoError(t)
	gt.Equal(t, reply, "reply to: follow-up")

	// Reconstruction replays history and never reuses the stored cache handle
	gt.A(t, llm.chatStarts).Length(2)
	resumed := llm.chatStarts[1]
	gt.Equal(t, resumed.cfg.CacheName, "")
	gt.S(t, resumed.cfg.SystemInstruction).Contains("A.5.1")
	gt.A(t, resumed.history).Length(2)
	gt.True(t, !resumed.history[0].IsModel)
	gt.Equal(t, resumed.history[0].Text, "first question")
	gt.True(t, resumed.history[1].IsModel)

	// Continuity survives: four messages in strict order
	msgs := gt.R1(repo.GetMessages(ctx, sess.ID)).NoError(t)
	gt.A(t, msgs).Length(4)
	gt.Equal(t, msgs[2].Text, "follow-up")
}

func TestSendMessageAbsentSessionDegraded(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{}
	repo := memory.New()
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))

	unknown := types.NewSessionID()
	reply := gt.R1(uc.SendMessage(ctx, unknown, "are you there?")).NoError(t)
	gt.Equal(t, reply, "reply to: are you there?")

	// A minimal ungrounded record was created on the fly
	sess := gt.R1(repo.GetSession(ctx, unknown)).NoError(t)
	gt.NotNil(t, sess)
	gt.True(t, sess.Context.IsEmpty())
	gt.Equal(t, sess.CacheName, "")
	gt.True(t, sess.Instruction != "")

	msgs := gt.R1(repo.GetMessages(ctx, unknown)).NoError(t)
	gt.A(t, msgs).Length(2)
}

func TestGetSessionNotFound(t *testing.T) {
	uc := usecase.New(usecase.WithLanguageModel(&mockLLM{}))
	_, _, err := uc.GetSession(context.Background(), types.NewSessionID())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, errs.ErrSessionNotFound))
}

func TestGetSessionReadOnly(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{}
	repo := memory.New()

	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))
	created := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)
	gt.R1(uc.SendMessage(ctx, created.ID, "q1")).NoError(t)

	restarted := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))
	sess, msgs, err := restarted.GetSession(ctx, created.ID)
	gt.NoError(t, err)
	gt.Equal(t, sess.ID, created.ID)
	gt.A(t, msgs).Length(2)

	// Reading must not open a conversation handle
	gt.A(t, llm.chatStarts).Length(1)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{}
	repo := memory.New()
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithLanguageModel(llm))

	sess := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)
	gt.R1(uc.SendMessage(ctx, sess.ID, "hello")).NoError(t)

	gt.NoError(t, uc.DeleteSession(ctx, sess.ID))

	got := gt.R1(repo.GetSession(ctx, sess.ID)).NoError(t)
	gt.Nil(t, got)
	msgs := gt.R1(repo.GetMessages(ctx, sess.ID)).NoError(t)
	gt.A(t, msgs).Length(0)
	gt.A(t, llm.deletedCaches).Length(1)
	gt.Equal(t, llm.deletedCaches[0], "cachedContents/cache-1")

	// Idempotent
	gt.NoError(t, uc.DeleteSession(ctx, sess.ID))
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{}
	uc := usecase.New(usecase.WithLanguageModel(llm))

	sess := gt.R1(uc.CreateSession(ctx, groundingContext())).NoError(t)
	gt.R1(uc.SendMessage(ctx, sess.ID, "hello")).NoError(t)

	summaries := gt.R1(uc.ListSessions(ctx)).NoError(t)
	gt.A(t, summaries).Length(1)
	gt.Equal(t, summaries[0].ID, sess.ID)
	gt.Equal(t, summaries[0].MessageCount, 2)
	gt.Equal(t, summaries[0].RequirementCount, 1)
	gt.True(t, summaries[0].Cached)
}
