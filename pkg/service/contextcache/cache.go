package contextcache

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

// TTL is the provider-side cache lifetime. A handle must not be reused after
// this window; cold reconstruction always falls back to the raw instruction.
const TTL = time.Hour

// Service wraps the provider's cached-content capability. Cache creation is
// an optimization: any failure is logged and absorbed, never surfaced, so
// session creation cannot block on it.
type Service struct {
	llm interfaces.LanguageModel
}

func New(llm interfaces.LanguageModel) *Service {
	return &Service{llm: llm}
}

// TryCreate registers the instruction as provider-side cached context and
// returns its handle name, or "" when caching is unavailable for any reason.
func (x *Service) TryCreate(ctx context.Context, instruction string, sessionID types.SessionID) string {
	logger := logging.From(ctx)

	name, err := x.llm.CreateCache(ctx, instruction, TTL)
	if err != nil {
		wrapped := goerr.Wrap(err, "context cache creation failed, falling back to system instruction",
			goerr.V("session_id", sessionID),
			goerr.V("instruction_chars", len(instruction)),
			goerr.T(errs.TagCacheUnavailable))
		logger.Warn("context cache unavailable", logging.ErrAttr(wrapped))
		return ""
	}

	logger.Info("context cache created",
		"session_id", sessionID,
		"cache_name", name,
		"ttl", TTL)
	return name
}

// Drop deletes a provider-side cache. Best effort: failures are logged only.
func (x *Service) Drop(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := x.llm.DeleteCache(ctx, name); err != nil {
		logging.From(ctx).Warn("failed to delete context cache",
			"cache_name", name,
			logging.ErrAttr(err))
	}
}
