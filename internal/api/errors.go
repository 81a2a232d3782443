// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrUnauthorized reports that the server rejected the bearer credential.
// Callers must forward it to the recovery coordinator rather than swallow it.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError reports a non-2xx response other than unauthorized. Status and
// body are passed through unchanged for the caller to render.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.Status, e.Body)
}

// NetworkError reports that no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response from server: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError reports that the request exceeded the configured timeout bound.
// There is no automatic retry.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// isTimeout reports whether a transport failure was a deadline/timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
