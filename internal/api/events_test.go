// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEventByGuid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/Eventos/GetEventoByGuid" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("id") != "ev-1" {
			t.Errorf("event id = %q, want ev-1", r.URL.Query().Get("id"))
		}
		_, _ = w.Write([]byte(`{
			"idEvento": "ev-1",
			"nombreEvento": "Taller de cata",
			"fechaEvento": "2026-10-01",
			"horaEvento": "19:00",
			"lugarEvento": "Sala norte",
			"precioEvento": "10",
			"descripcionEvento": "Cata guiada",
			"asistenciaEventos": [{"idCliente": 3}, {"idCliente": 7}]
		}`))
	}))
	defer srv.Close()

	detail, err := testClient(srv.URL, emptyStore()).EventByGuid(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("EventByGuid() error: %v", err)
	}
	if detail.Nombre != "Taller de cata" || detail.Lugar != "Sala norte" {
		t.Errorf("EventByGuid() = %+v", detail.Event)
	}
	if len(detail.Asistencias) != 2 || detail.Asistencias[1].IDCliente != 7 {
		t.Errorf("attendance list = %+v", detail.Asistencias)
	}
}

func TestAttendEvent(t *testing.T) {
	t.Run("registers attendance", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/AsistenciaEventos/CrearAsistencia" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var body struct {
				IDEvento  string `json:"idEvento"`
				IDCliente int    `json:"idCliente"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.IDEvento != "ev-1" || body.IDCliente != 7 {
				t.Errorf("body = %+v", body)
			}
			_, _ = w.Write([]byte(`{"success":true,"message":"¡Operación completada!"}`))
		}))
		defer srv.Close()

		result, err := testClient(srv.URL, emptyStore()).AttendEvent(context.Background(), "ev-1", 7)
		if err != nil {
			t.Fatal(err)
		}
		if !result.Success || result.Message != "¡Operación completada!" {
			t.Errorf("AttendEvent() = %+v", result)
		}
	})

	t.Run("rejected credential mid-session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL, emptyStore()).AttendEvent(context.Background(), "ev-1", 7)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("AttendEvent() = %v, want ErrUnauthorized", err)
		}
	})
}
