// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credstore

import (
	"errors"
	"testing"
)

var errMedium = errors.New("medium unavailable")

// fakeBackend is an in-memory Backend with per-key failure injection.
type fakeBackend struct {
	data       map[string]string
	failGet    map[string]error
	failSet    map[string]error
	failRemove map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		data:       map[string]string{},
		failGet:    map[string]error{},
		failSet:    map[string]error{},
		failRemove: map[string]error{},
	}
}

func (b *fakeBackend) Get(key string) (string, error) {
	if err := b.failGet[key]; err != nil {
		return "", err
	}
	v, ok := b.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (b *fakeBackend) Set(key, value string) error {
	if err := b.failSet[key]; err != nil {
		return err
	}
	b.data[key] = value
	return nil
}

func (b *fakeBackend) Remove(key string) error {
	if err := b.failRemove[key]; err != nil {
		return err
	}
	delete(b.data, key)
	return nil
}

func TestSaveAndLoad(t *testing.T) {
	s := New(newFakeBackend())

	profile := &Profile{ID: 7, Name: "Ana", Lastname: "Mora", Cedula: "1234", Email: "ana@example.com"}
	if err := s.Save("abc123", profile); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	cred := s.Load()
	if cred.Token != "abc123" {
		t.Errorf("Load() token = %q, want abc123", cred.Token)
	}
	if cred.Profile == nil {
		t.Fatal("Load() profile = nil, want cached profile")
	}
	if cred.Profile.Email != "ana@example.com" || cred.Profile.ID != 7 {
		t.Errorf("Load() profile = %+v", cred.Profile)
	}
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	s := New(newFakeBackend())

	err := s.Save("", nil)
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Save(empty) = %v, want StorageError", err)
	}
	if s.Load().Present() {
		t.Error("empty token was persisted")
	}
}

func TestSaveRollsBackOnProfileWriteFailure(t *testing.T) {
	t.Run("prior token restored", func(t *testing.T) {
		b := newFakeBackend()
		b.data[KeyToken] = "old-token"
		b.data[KeyUser] = `{"idCliente":1}`
		b.failSet[KeyUser] = errMedium
		s := New(b)

		if err := s.Save("new-token", &Profile{ID: 2}); err == nil {
			t.Fatal("Save() = nil, want error")
		}
		if got := b.data[KeyToken]; got != "old-token" {
			t.Errorf("token after failed save = %q, want old-token", got)
		}
	})

	t.Run("no prior token leaves store empty", func(t *testing.T) {
		b := newFakeBackend()
		b.failSet[KeyUser] = errMedium
		s := New(b)

		if err := s.Save("new-token", &Profile{ID: 2}); err == nil {
			t.Fatal("Save() = nil, want error")
		}
		if s.Load().Present() {
			t.Error("partial token left behind after failed save")
		}
	})
}

func TestLoadNeverFailsTheCaller(t *testing.T) {
	b := newFakeBackend()
	b.failGet[KeyToken] = errMedium
	s := New(b)

	cred := s.Load()
	if cred.Present() {
		t.Errorf("Load() on failing medium = %+v, want absent credential", cred)
	}
}

func TestLoadTokenWithoutProfile(t *testing.T) {
	b := newFakeBackend()
	b.data[KeyToken] = "abc123"
	s := New(b)

	cred := s.Load()
	if cred.Token != "abc123" {
		t.Fatalf("Load() token = %q", cred.Token)
	}
	if cred.Profile != nil {
		t.Errorf("Load() profile = %+v, want nil", cred.Profile)
	}
}

func TestLoadCorruptProfileDegradesToTokenOnly(t *testing.T) {
	b := newFakeBackend()
	b.data[KeyToken] = "abc123"
	b.data[KeyUser] = "{not json"
	s := New(b)

	cred := s.Load()
	if cred.Token != "abc123" || cred.Profile != nil {
		t.Errorf("Load() = %+v, want token-only credential", cred)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := New(newFakeBackend())

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() on empty store: %v", err)
	}

	if err := s.Save("abc123", &Profile{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear(): %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear(): %v", err)
	}
	if s.Load().Present() {
		t.Error("store not empty after Clear()")
	}
}

func TestFileStore(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	if _, err := fs.Get(KeyToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := fs.Set(KeyToken, "abc123"); err != nil {
		t.Fatal(err)
	}
	v, err := fs.Get(KeyToken)
	if err != nil || v != "abc123" {
		t.Errorf("Get() = %q, %v", v, err)
	}

	if err := fs.Remove(KeyToken); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove(KeyToken); err != nil {
		t.Errorf("Remove(absent) = %v, want nil", err)
	}

	if _, err := fs.Get("../escape"); err == nil {
		t.Error("Get with path separator accepted")
	}
}
