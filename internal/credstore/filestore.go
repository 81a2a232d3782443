// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileStore is the general key-value backend used when no secure keychain is
// available. Each key is stored as a private file under dir.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// path maps a logical key to a file path, refusing path separators in keys.
func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", errors.New("invalid key")
	}
	return filepath.Join(f.dir, key), nil
}

// Get reads the value stored under key.
func (f *FileStore) Get(key string) (string, error) {
	p, err := f.path(key)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(b), nil
}

// Set writes value under key with 0600 permissions.
func (f *FileStore) Set(key, value string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(value), 0o600)
}

// Remove deletes the value stored under key. Absent keys are a no-op.
func (f *FileStore) Remove(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
