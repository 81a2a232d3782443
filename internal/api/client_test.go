// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fidelia/cli/internal/config"
	"fidelia/cli/internal/credstore"
)

// mapBackend is a minimal in-memory credstore backend for pipeline tests.
type mapBackend struct {
	data    map[string]string
	failGet error
}

func (b *mapBackend) Get(key string) (string, error) {
	if b.failGet != nil {
		return "", b.failGet
	}
	v, ok := b.data[key]
	if !ok {
		return "", credstore.ErrNotFound
	}
	return v, nil
}

func (b *mapBackend) Set(key, value string) error {
	b.data[key] = value
	return nil
}

func (b *mapBackend) Remove(key string) error {
	delete(b.data, key)
	return nil
}

func testEndpoints() config.Endpoints {
	return config.Endpoints{
		ValidateToken: "/Auth/ValidateToken",
		Login:         "/Auth/Login",
		Register:      "/Auth/Register",
		Events:        "/Eventos/GetAllEventos",
		Event:         "/Eventos/GetEventoByGuid",
		Attend:        "/AsistenciaEventos/CrearAsistencia",
		Card:          "/TarjetaFidelidad/GetByGuid",
	}
}

func testClient(baseURL string, store *credstore.Store) *Client {
	cfg := config.Config{BaseURL: baseURL, TimeoutSeconds: 5, Endpoints: testEndpoints()}
	return New(cfg, store)
}

func emptyStore() *credstore.Store {
	return credstore.New(&mapBackend{data: map[string]string{}})
}

func TestClassification(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		err := testClient(srv.URL, emptyStore()).ValidateToken(context.Background())
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("ValidateToken() = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("request failed carries status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}))
		defer srv.Close()

		_, err := testClient(srv.URL, emptyStore()).Events(context.Background())
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("Events() = %v, want RequestError", err)
		}
		if reqErr.Status != http.StatusInternalServerError || reqErr.Body != "boom" {
			t.Errorf("RequestError = %d %q", reqErr.Status, reqErr.Body)
		}
	})

	t.Run("network error when no response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore

		_, err := testClient(srv.URL, emptyStore()).Events(context.Background())
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Errorf("Events() = %v, want NetworkError", err)
		}
	})

	t.Run("timeout when bound exceeded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewWithPipeline(srv.URL, testEndpoints(), 50*time.Millisecond,
			[]RequestHook{RequestID()},
			[]ResponseHook{ClassifyResponse()})
		_, err := c.Events(context.Background())
		var timeoutErr *TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Errorf("Events() = %v, want TimeoutError", err)
		}
	})
}

func TestAttachCredential(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	t.Run("token attached when stored", func(t *testing.T) {
		store := credstore.New(&mapBackend{data: map[string]string{credstore.KeyToken: "abc123"}})
		if _, err := testClient(srv.URL, store).Events(context.Background()); err != nil {
			t.Fatal(err)
		}
		if gotAuth != "Bearer abc123" {
			t.Errorf("Authorization = %q, want Bearer abc123", gotAuth)
		}
	})

	t.Run("unauthenticated when store empty", func(t *testing.T) {
		if _, err := testClient(srv.URL, emptyStore()).Events(context.Background()); err != nil {
			t.Fatal(err)
		}
		if gotAuth != "" {
			t.Errorf("Authorization = %q, want empty", gotAuth)
		}
	})

	t.Run("store read failure treated as no token", func(t *testing.T) {
		store := credstore.New(&mapBackend{data: map[string]string{}, failGet: errors.New("keychain locked")})
		if _, err := testClient(srv.URL, store).Events(context.Background()); err != nil {
			t.Fatal(err)
		}
		if gotAuth != "" {
			t.Errorf("Authorization = %q, want empty", gotAuth)
		}
	})
}

func TestRequestID(t *testing.T) {
	ids := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[r.Header.Get("X-Request-Id")] = true
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, emptyStore())
	for i := 0; i < 2; i++ {
		if _, err := c.Events(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if len(ids) != 2 || ids[""] {
		t.Errorf("request ids = %v, want two distinct non-empty ids", ids)
	}
}
