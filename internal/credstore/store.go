// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credstore persists the session credential: the bearer token and the
// cached user profile. Persistence is keyed by two logical entries ("token"
// and "user") over a pluggable Backend, preferring the OS keychain when it is
// available and falling back to a general key-value store otherwise.
//
// A credential without a token is never persisted; callers that hold a
// non-empty Credential can rely on the token being durable.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fidelia/cli/internal/keychain"
	"fidelia/cli/internal/logging"
	"fidelia/cli/internal/xdg"
)

// Logical keys under which the credential is persisted.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var verboseStore = os.Getenv("FIDELIA_VERBOSE") == "1"

// ErrNotFound reports that a backend holds no value for the requested key.
var ErrNotFound = errors.New("credstore: not found")

// StorageError reports that the durable medium rejected an operation.
// Reads never surface it to callers; writes do.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credential storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Backend abstracts the underlying key-value medium.
// Get returns ErrNotFound when the key has no value. Remove of an absent key
// must succeed.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Profile holds the minimal identity cached alongside the token.
type Profile struct {
	ID       int    `json:"idCliente"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Cedula   string `json:"cedula"`
	Email    string `json:"email"`
}

// Credential is the persisted bearer token plus the optional cached profile.
// A zero Token means no credential is stored.
type Credential struct {
	Token   string
	Profile *Profile
}

// Present reports whether a token is stored.
func (c Credential) Present() bool { return c.Token != "" }

// Store owns the durable credential.
type Store struct {
	backend Backend
}

// New creates a Store over the given backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// NewDefault creates a Store over the preferred available backend: the OS
// keychain when it can be opened, otherwise a file-backed key-value store in
// the XDG state directory.
func NewDefault() (*Store, error) {
	if km, err := keychain.GetManager(); err == nil {
		return New(secureBackend{km: km}), nil
	} else if verboseStore {
		fmt.Printf("[DEBUG] credstore: keychain unavailable (%v), using file store\n", err)
	}

	dir, err := xdg.StateDir()
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	return New(NewFileStore(dir)), nil
}

// Save writes the token and optional profile. The write is atomic from the
// caller's perspective: when the profile write fails the prior token is
// restored, so the store never ends up holding a token/profile pair from two
// different sessions. A nil profile removes any cached profile, forcing a
// validation round-trip on next startup.
func (s *Store) Save(token string, profile *Profile) error {
	if token == "" {
		return &StorageError{Op: "save", Err: errors.New("refusing to persist empty token")}
	}

	prevToken, prevTokenErr := s.backend.Get(KeyToken)

	if err := s.backend.Set(KeyToken, token); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	var userErr error
	if profile != nil {
		b, err := json.Marshal(profile)
		if err != nil {
			userErr = err
		} else {
			userErr = s.backend.Set(KeyUser, string(b))
		}
	} else {
		userErr = s.backend.Remove(KeyUser)
	}

	if userErr != nil {
		// Roll the token back to its prior state.
		if prevTokenErr == nil {
			_ = s.backend.Set(KeyToken, prevToken)
		} else {
			_ = s.backend.Remove(KeyToken)
		}
		return &StorageError{Op: "save", Err: userErr}
	}

	return nil
}

// Load returns the persisted credential. It never fails the caller: a read
// error is treated as "no credential" and reported as a diagnostic only. A
// readable token with an unreadable profile yields a token-only credential.
func (s *Store) Load() Credential {
	token, err := s.backend.Get(KeyToken)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && verboseStore {
			fmt.Printf("[DEBUG] credstore: token read failed: %s\n", logging.Mask(err.Error()))
		}
		return Credential{}
	}
	if token == "" {
		return Credential{}
	}

	cred := Credential{Token: token}
	raw, err := s.backend.Get(KeyUser)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && verboseStore {
			fmt.Printf("[DEBUG] credstore: profile read failed: %s\n", logging.Mask(err.Error()))
		}
		return cred
	}

	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		if verboseStore {
			fmt.Printf("[DEBUG] credstore: cached profile unreadable: %v\n", err)
		}
		return cred
	}
	cred.Profile = &p
	return cred
}

// Clear removes the token and profile. Clearing an already-empty store is a
// no-op success.
func (s *Store) Clear() error {
	tokenErr := s.backend.Remove(KeyToken)
	userErr := s.backend.Remove(KeyUser)
	if tokenErr != nil {
		return &StorageError{Op: "clear", Err: tokenErr}
	}
	if userErr != nil {
		return &StorageError{Op: "clear", Err: userErr}
	}
	return nil
}

// secureBackend adapts keychain.Manager to the Backend interface.
type secureBackend struct {
	km *keychain.Manager
}

func (b secureBackend) Get(key string) (string, error) {
	v, err := b.km.Get(key)
	if errors.Is(err, keychain.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (b secureBackend) Set(key, value string) error { return b.km.Set(key, value) }

func (b secureBackend) Remove(key string) error { return b.km.Remove(key) }
