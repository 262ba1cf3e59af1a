package registry

import (
	"sync"

	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/types"
)

// Entry binds a session ID to its live conversation handle for this process.
// The embedded mutex serializes message sends for the session: two concurrent
// sends would otherwise race on persistence order.
type Entry struct {
	// Mu must be held across the full send-persist round trip
	Mu sync.Mutex

	Conversation interfaces.Conversation

	// NextSeq is the sequence number for the next persisted message,
	// initialized from the stored history length on reconstruction
	NextSeq int64
}

// Registry is the in-process map of live conversation handles. It is a
// performance layer only: the repository stays authoritative and any entry is
// reconstructible from it. The registry is injected, never ambient.
type Registry struct {
	mu      sync.RWMutex
	entries map[types.SessionID]*Entry
}

func New() *Registry {
	return &Registry{
		entries: make(map[types.SessionID]*Entry),
	}
}

// Get returns the live entry for a session, or nil on a cold session
func (x *Registry) Get(id types.SessionID) *Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.entries[id]
}

// Put registers an entry unless one exists. First creator wins: when another
// goroutine registered the session first, its entry is returned and the new
// one is discarded, so model-side resources are never duplicated.
func (x *Registry) Put(id types.SessionID, entry *Entry) *Entry {
	x.mu.Lock()
	defer x.mu.Unlock()

	if existing, ok := x.entries[id]; ok {
		return existing
	}
	x.entries[id] = entry
	return entry
}

// Remove drops the live entry for a session, if any
func (x *Registry) Remove(id types.SessionID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.entries, id)
}

// Len reports the number of live entries
func (x *Registry) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}
