// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package recovery

import (
	"sync"
	"sync/atomic"
	"testing"

	"fidelia/cli/internal/credstore"
)

type mapBackend struct {
	mu   sync.Mutex
	data map[string]string
}

func (b *mapBackend) Get(key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	if !ok {
		return "", credstore.ErrNotFound
	}
	return v, nil
}

func (b *mapBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

func (b *mapBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

type countingCollaborators struct {
	resets    atomic.Int32
	announces atomic.Int32
	navigates atomic.Int32
	lastRoute atomic.Value
}

func (c *countingCollaborators) ForceUnauthenticated() { c.resets.Add(1) }
func (c *countingCollaborators) Announce(string)       { c.announces.Add(1) }
func (c *countingCollaborators) ReplaceWith(route string) {
	c.navigates.Add(1)
	c.lastRoute.Store(route)
}

func newTestCoordinator(t *testing.T) (*Coordinator, *credstore.Store, *countingCollaborators) {
	t.Helper()
	store := credstore.New(&mapBackend{data: map[string]string{}})
	collab := &countingCollaborators{}
	return New(store, collab, collab, collab), store, collab
}

func TestHandleUnauthorizedRunsOncePerEpisode(t *testing.T) {
	coord, store, collab := newTestCoordinator(t)
	if err := store.Save("abc123", &credstore.Profile{ID: 7}); err != nil {
		t.Fatal(err)
	}

	// Several in-flight requests failing at once must yield one recovery.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coord.HandleUnauthorized()
		}()
	}
	wg.Wait()

	if got := collab.resets.Load(); got != 1 {
		t.Errorf("session resets = %d, want 1", got)
	}
	if got := collab.announces.Load(); got != 1 {
		t.Errorf("announcements = %d, want 1", got)
	}
	if got := collab.navigates.Load(); got != 1 {
		t.Errorf("navigations = %d, want 1", got)
	}
	if route := collab.lastRoute.Load(); route != EntryRoute {
		t.Errorf("route = %v, want %q", route, EntryRoute)
	}
	if store.Load().Present() {
		t.Error("credential survived recovery")
	}
}

func TestArmEnablesNextEpisode(t *testing.T) {
	coord, _, collab := newTestCoordinator(t)

	coord.HandleUnauthorized()
	coord.HandleUnauthorized()
	if got := collab.announces.Load(); got != 1 {
		t.Fatalf("announcements before Arm = %d, want 1", got)
	}

	coord.Arm()
	coord.HandleUnauthorized()
	if got := collab.announces.Load(); got != 2 {
		t.Errorf("announcements after Arm = %d, want 2", got)
	}
	if got := collab.navigates.Load(); got != 2 {
		t.Errorf("navigations after Arm = %d, want 2", got)
	}
}

func TestRecoveryToleratesEmptyStore(t *testing.T) {
	coord, store, collab := newTestCoordinator(t)

	// Nothing stored; recovery still resets and routes.
	coord.HandleUnauthorized()
	if got := collab.resets.Load(); got != 1 {
		t.Errorf("session resets = %d, want 1", got)
	}
	if store.Load().Present() {
		t.Error("store unexpectedly holds a credential")
	}
}
