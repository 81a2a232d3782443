// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the in-memory authentication state of the running
// process. Exactly one Session exists per process; it is derived from the
// credential store at startup and is the source of truth afterwards. All
// mutation goes through the named operations: ValidateStartup, Login, Logout,
// Register.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"

	"fidelia/cli/internal/api"
	"fidelia/cli/internal/credstore"
	"fidelia/cli/internal/logging"
)

var verboseSession = os.Getenv("FIDELIA_VERBOSE") == "1"

// State is the authentication state of the Session.
type State int

const (
	// Unauthenticated means no credential is held.
	Unauthenticated State = iota
	// Validating means a stored credential exists but is not yet confirmed.
	// It is transient and never survives a completed startup sequence.
	Validating
	// Authenticated means the server confirmed the credential.
	Authenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// User is the identity of the authenticated client.
type User struct {
	ID       int
	Name     string
	Lastname string
	Cedula   string
	Email    string
	Token    string
}

// Session is the singleton, process-wide projection of "who is using the app
// right now". Login and Logout are mutually exclusive critical sections.
type Session struct {
	mu     sync.Mutex
	state  State
	user   *User
	store  *credstore.Store
	client *api.Client
}

// New creates a Session in the Unauthenticated state.
func New(store *credstore.Store, client *api.Client) *Session {
	return &Session{
		state:  Unauthenticated,
		store:  store,
		client: client,
	}
}

// State returns the current authentication state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns a copy of the current identity, or nil when not authenticated.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// DeriveState maps a stored credential to the startup state. Pure; invoked at
// startup and after explicit mutations only.
func DeriveState(cred credstore.Credential) State {
	if cred.Present() {
		return Validating
	}
	return Unauthenticated
}

// ValidateStartup replays the stored credential against the server. With no
// stored token the session stays Unauthenticated. With one, the session passes
// through Validating: on confirmation it becomes Authenticated with the cached
// profile (or an identity reconstructed from the token), and on failure of any
// kind it returns to Unauthenticated with the stored token cleared.
// The returned error reports why validation failed; the state transition has
// already happened when it is returned.
func (s *Session) ValidateStartup(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred := s.store.Load()
	s.state = DeriveState(cred)
	s.user = nil
	if s.state == Unauthenticated {
		return s.state, nil
	}

	if err := s.client.ValidateToken(ctx); err != nil {
		if clearErr := s.store.Clear(); clearErr != nil && verboseSession {
			fmt.Printf("[DEBUG] session: clear after failed validation: %s\n", logging.PresentError("", clearErr))
		}
		s.state = Unauthenticated
		return s.state, err
	}

	s.user = userFromCredential(cred)
	s.state = Authenticated
	return s.state, nil
}

// Login exchanges credentials for a session. The returned token and profile
// are persisted before the Authenticated transition completes, so a crash
// between response receipt and persistence can never leave the session
// authenticated without a durable credential. On any failure the session ends
// Unauthenticated and the store is left unchanged (no partial token).
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.state = Unauthenticated
		s.user = nil
		return nil, err
	}

	profile := &credstore.Profile{
		ID:       resp.IDCliente,
		Name:     resp.Name,
		Lastname: resp.Lastname,
		Cedula:   resp.Cedula,
		Email:    resp.Email,
	}
	if err := s.store.Save(resp.Token, profile); err != nil {
		s.state = Unauthenticated
		s.user = nil
		return nil, err
	}

	u := &User{
		ID:       resp.IDCliente,
		Name:     resp.Name,
		Lastname: resp.Lastname,
		Cedula:   resp.Cedula,
		Email:    resp.Email,
		Token:    resp.Token,
	}
	s.user = u
	s.state = Authenticated

	out := *u
	return &out, nil
}

// Logout clears the credential store and returns the session to
// Unauthenticated. It is unconditional and idempotent: storage-clear errors
// are logged, never surfaced, and logging out while already unauthenticated is
// a no-op success. No network call is made, so no context is taken.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("logout", err))
	}
	s.state = Unauthenticated
	s.user = nil
}

// Register submits a full profile and returns the server's verdict. It never
// transitions the session; callers are expected to follow up with Login.
func (s *Session) Register(ctx context.Context, reg api.RegisterRequest) (*api.RegisterResult, error) {
	return s.client.Register(ctx, reg)
}

// ForceUnauthenticated resets the in-memory state without touching the store.
// Used by the recovery coordinator, which clears the store itself.
func (s *Session) ForceUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unauthenticated
	s.user = nil
}
