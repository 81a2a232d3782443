// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fidelia/cli/internal/credstore"
)

// RequestHook transforms an outbound request before it is sent. Hooks run in
// order and must not fail the request.
type RequestHook func(*http.Request)

// ResponseHook classifies an inbound response or transport failure. A non-nil
// return rejects the call; hooks perform no side effects beyond classification.
type ResponseHook func(*http.Response, error) error

// AttachCredential returns the outbound hook that reads the current token from
// the credential store and attaches it as a bearer header. When no token is
// stored (including when the store read fails) the request goes out
// unauthenticated; login and register need no token.
func AttachCredential(store *credstore.Store) RequestHook {
	return func(req *http.Request) {
		if cred := store.Load(); cred.Present() {
			req.Header.Set("Authorization", "Bearer "+cred.Token)
		}
	}
}

// RequestID returns the outbound hook that tags every request with a unique
// X-Request-Id for server-side correlation.
func RequestID() RequestHook {
	return func(req *http.Request) {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
}

// ClassifyResponse returns the inbound hook implementing the failure taxonomy:
// 401 rejects with ErrUnauthorized, any other non-2xx rejects with a
// RequestError carrying the original status and body, and a transport failure
// rejects with TimeoutError or NetworkError. 2xx responses pass through.
func ClassifyResponse() ResponseHook {
	return func(resp *http.Response, err error) error {
		if err != nil {
			if isTimeout(err) {
				return &TimeoutError{Err: err}
			}
			return &NetworkError{Err: err}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(resp.Body)
			return &RequestError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
		return nil
	}
}
