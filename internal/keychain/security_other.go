// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

// newSecurityBackend is only available on macOS.
func newSecurityBackend() (*securityBackend, error) {
	return nil, errors.New("security backend only available on macOS")
}

// securityBackend is a stub for non-darwin platforms.
type securityBackend struct{}

func (s *securityBackend) Set(key, value string) error { return errors.New("unsupported") }

func (s *securityBackend) Get(key string) (string, error) { return "", errors.New("unsupported") }

func (s *securityBackend) Delete(key string) error { return errors.New("unsupported") }
