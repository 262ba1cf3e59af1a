package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/service/registry"
)

type fakeConversation struct{}

func (x *fakeConversation) Send(ctx context.Context, text string) (string, error) {
	return "ok", nil
}

func TestRegistryFirstCreatorWins(t *testing.T) {
	reg := registry.New()
	id := types.NewSessionID()

	first := &registry.Entry{Conversation: &fakeConversation{}}
	second := &registry.Entry{Conversation: &fakeConversation{}}

	got := reg.Put(id, first)
	gt.Value(t, got).Equal(first)

	// Second registration for the same ID must reuse the first entry
	got = reg.Put(id, second)
	gt.Value(t, got).Equal(first)
	gt.Value(t, reg.Get(id)).Equal(first)
	gt.Equal(t, reg.Len(), 1)
}

func TestRegistryGetMiss(t *testing.T) {
	reg := registry.New()
	gt.Nil(t, reg.Get(types.SessionID("unknown")))
}

func TestRegistryRemove(t *testing.T) {
	reg := registry.New()
	id := types.NewSessionID()
	reg.Put(id, &registry.Entry{Conversation: &fakeConversation{}})

	reg.Remove(id)
	gt.Nil(t, reg.Get(id))

	// Removing again is a no-op
	reg.Remove(id)
	gt.Equal(t, reg.Len(), 0)
}

func TestRegistryConcurrentPut(t *testing.T) {
	reg := registry.New()
	id := types.NewSessionID()

	var wg sync.WaitGroup
	results := make([]*registry.Entry, 16)
	for i := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = reg.Put(id, &registry.Entry{Conversation: &fakeConversation{}})
		}(i)
	}
	wg.Wait()

	winner := reg.Get(id)
	gt.NotNil(t, winner)
	for _, r := range results {
		gt.Value(t, r).Equal(winner)
	}
}
