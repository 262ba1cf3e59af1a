package session

import (
	"context"
	"time"

	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/utils/clock"
)

// Session is one audit conversation. The grounding context and the derived
// instruction are write-once: the record is never updated in place, only
// created and eventually deleted (cascading to its messages).
type Session struct {
	ID          types.SessionID        `firestore:"id" json:"id"`
	Context     audit.GroundingContext `firestore:"context" json:"context"`
	Instruction string                 `firestore:"instruction" json:"-"`
	// CacheName is the provider-side cached-content handle, empty when cache
	// creation failed or was skipped. It is only trustworthy within its TTL
	// and is never reused on reconstruction.
	CacheName      string    `firestore:"cache_name,omitempty" json:"cacheName,omitempty"`
	CacheExpiresAt time.Time `firestore:"cache_expires_at,omitempty" json:"-"`
	CreatedAt      time.Time `firestore:"created_at" json:"createdAt"`
}

// New creates a session record. cacheName may be empty.
func New(ctx context.Context, gctx audit.GroundingContext, instruction, cacheName string, cacheTTL time.Duration) *Session {
	now := clock.Now(ctx)
	s := &Session{
		ID:          types.NewSessionID(),
		Context:     gctx,
		Instruction: instruction,
		CacheName:   cacheName,
		CreatedAt:   now,
	}
	if cacheName != "" {
		s.CacheExpiresAt = now.Add(cacheTTL)
	}
	return s
}

// Summary is the list-view projection of a session, annotated with its
// message count. The count is derived at query time, not stored.
type Summary struct {
	ID               types.SessionID `json:"id"`
	CreatedAt        time.Time       `json:"createdAt"`
	RequirementCount int             `json:"requirementCount"`
	Query            string          `json:"query,omitempty"`
	MessageCount     int             `json:"messageCount"`
	Cached           bool            `json:"cached"`
}

// ToSummary builds the list projection for this session
func (x *Session) ToSummary(messageCount int) Summary {
	return Summary{
		ID:               x.ID,
		CreatedAt:        x.CreatedAt,
		RequirementCount: len(x.Context.Requirements),
		Query:            x.Context.Query,
		MessageCount:     messageCount,
		Cached:           x.CacheName != "",
	}
}
