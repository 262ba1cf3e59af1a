package interfaces

import (
	"context"
	"time"
)

// HistoryTurn is one prior conversation turn replayed into a new handle.
// IsModel distinguishes assistant turns from user turns.
type HistoryTurn struct {
	IsModel bool
	Text    string
}

// ChatConfig selects how a conversation is grounded: by a provider-side
// cached-content handle, or by sending the raw system instruction. Exactly
// one of the two should be set; CacheName wins when both are.
type ChatConfig struct {
	CacheName         string
	SystemInstruction string
}

// Conversation is a live handle capable of exchanging one turn at a time.
// It tracks its own history for the lifetime of the process.
type Conversation interface {
	Send(ctx context.Context, text string) (string, error)
}

// LanguageModel abstracts the generative backend. All failures surface as-is;
// the core never retries model calls.
type LanguageModel interface {
	// GenerateOnce runs a single-shot completion with no session state
	GenerateOnce(ctx context.Context, prompt string) (string, error)

	// CreateCache registers the instruction as reusable provider-side context
	// with a bounded lifetime, returning the cache handle name
	CreateCache(ctx context.Context, instruction string, ttl time.Duration) (string, error)

	// DeleteCache drops a provider-side cache. Best effort.
	DeleteCache(ctx context.Context, name string) error

	// StartChat opens a conversation handle, optionally seeded with history
	StartChat(ctx context.Context, cfg ChatConfig, history []HistoryTurn) (Conversation, error)
}
