// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api implements the HTTP client for the Fidelia backend.
// Every request flows through an ordered middleware pipeline: outbound hooks
// attach the stored bearer credential and a request id, the inbound hook
// classifies failures into the unauthorized / request-failed / network /
// timeout taxonomy. Recovery from a rejected credential is the caller's job;
// the pipeline only classifies.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fidelia/cli/internal/config"
	"fidelia/cli/internal/credstore"
)

// Client issues requests against a fixed base endpoint with a timeout bound.
type Client struct {
	// baseURL is the API origin plus prefix (e.g., "https://localhost:7273/api/v1")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints config.Endpoints
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	// requestHooks run in order before each request is sent
	requestHooks []RequestHook
	// responseHooks run in order after a response or failure arrives
	responseHooks []ResponseHook
}

// New creates a Client with the standard pipeline: request-id and
// attach-credential outbound, failure classification inbound.
func New(cfg config.Config, store *credstore.Store) *Client {
	return NewWithPipeline(
		cfg.BaseURL,
		cfg.Endpoints,
		cfg.Timeout(),
		[]RequestHook{RequestID(), AttachCredential(store)},
		[]ResponseHook{ClassifyResponse()},
	)
}

// NewWithPipeline creates a Client with an explicit middleware pipeline.
func NewWithPipeline(baseURL string, endpoints config.Endpoints, timeout time.Duration, requestHooks []RequestHook, responseHooks []ResponseHook) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		endpoints:     endpoints,
		client:        &http.Client{Timeout: timeout},
		requestHooks:  requestHooks,
		responseHooks: responseHooks,
	}
}

// do builds a request, runs it through the pipeline, and returns the response
// when it classified clean. The caller owns the response body on success.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, */*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, hook := range c.requestHooks {
		hook(req)
	}

	resp, err := c.client.Do(req)
	for _, hook := range c.responseHooks {
		if herr := hook(resp, err); herr != nil {
			if resp != nil {
				resp.Body.Close()
			}
			return nil, herr
		}
	}
	if err != nil {
		// No classifier installed; surface the transport error as-is.
		return nil, err
	}
	return resp, nil
}

// decode reads and closes the response body into out.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
