// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package recovery reacts to a rejected bearer credential: it clears the
// credential store, resets the session, tells the user once, and routes the
// presentation layer back to the entry surface. The sequence runs at most once
// per rejection episode, so any number of in-flight requests failing with
// unauthorized at the same time produce a single user-visible recovery.
//
// Recovery performs cleanup only; the original unauthorized error still
// propagates to each caller so it can settle its own UI state.
package recovery

import (
	"fmt"
	"os"
	"sync"

	"fidelia/cli/internal/credstore"
	"fidelia/cli/internal/logging"
)

// EntryRoute is the presentation surface users land on after recovery.
const EntryRoute = "/login"

// Navigator is the presentation layer's routing capability.
type Navigator interface {
	// ReplaceWith swaps the current surface for route. Navigating to an
	// already-displayed surface must be a no-op.
	ReplaceWith(route string)
}

// Announcer is the presentation layer's notification capability.
type Announcer interface {
	Announce(message string)
}

// SessionResetter forces the in-memory session back to unauthenticated.
type SessionResetter interface {
	ForceUnauthenticated()
}

// Coordinator drives the unauthorized-recovery sequence.
type Coordinator struct {
	mu    sync.Mutex
	fired bool

	store     *credstore.Store
	session   SessionResetter
	navigator Navigator
	announcer Announcer
}

// New creates a Coordinator wired to its collaborators.
func New(store *credstore.Store, session SessionResetter, navigator Navigator, announcer Announcer) *Coordinator {
	return &Coordinator{
		store:     store,
		session:   session,
		navigator: navigator,
		announcer: announcer,
	}
}

// HandleUnauthorized runs the recovery sequence: clear the store, reset the
// session, announce the expiry, navigate to the entry surface. Repeat
// invocations within the same episode are no-ops; call Arm after the next
// successful login to enable the next episode.
func (c *Coordinator) HandleUnauthorized() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		// Clearing an empty or unavailable store must not abort recovery.
		fmt.Fprintln(os.Stderr, logging.PresentError("session recovery", err))
	}
	c.session.ForceUnauthenticated()
	c.announcer.Announce("Your session has expired. Please sign in again.")
	c.navigator.ReplaceWith(EntryRoute)
}

// Arm re-enables recovery for the next rejection episode.
func (c *Coordinator) Arm() {
	c.mu.Lock()
	c.fired = false
	c.mu.Unlock()
}
