// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"net/http"
	"net/url"
)

// Event is a loyalty-club event listing.
type Event struct {
	ID          string `json:"idEvento"`
	Nombre      string `json:"nombreEvento"`
	Fecha       string `json:"fechaEvento"`
	Hora        string `json:"horaEvento"`
	Lugar       string `json:"lugarEvento"`
	Precio      string `json:"precioEvento"`
	Descripcion string `json:"descripcionEvento"`
}

// Attendance records one client signed up for an event.
type Attendance struct {
	IDCliente int `json:"idCliente"`
}

// EventDetail is a single event together with its attendance list.
type EventDetail struct {
	Event
	Asistencias []Attendance `json:"asistenciaEventos"`
}

// AttendResult is the server's verdict on an attendance registration.
type AttendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Card is a loyalty card with its accumulated points.
type Card struct {
	ID     string `json:"idTarjeta"`
	Puntos int    `json:"puntos"`
}

// Events lists all published events. Requires a valid credential; a rejected
// one surfaces as ErrUnauthorized for the caller to forward to recovery.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	resp, err := c.do(ctx, http.MethodGet, c.endpoints.Events, nil, nil)
	if err != nil {
		return nil, err
	}

	var out []Event
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventByGuid fetches a single event with its attendance list.
func (c *Client) EventByGuid(ctx context.Context, guid string) (*EventDetail, error) {
	q := url.Values{}
	q.Set("id", guid)
	resp, err := c.do(ctx, http.MethodGet, c.endpoints.Event, q, nil)
	if err != nil {
		return nil, err
	}

	var out EventDetail
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AttendEvent signs the client up for the event. A rejected credential here
// surfaces as ErrUnauthorized mid-session; the caller forwards it to recovery.
func (c *Client) AttendEvent(ctx context.Context, eventID string, clientID int) (*AttendResult, error) {
	body := map[string]any{
		"idEvento":  eventID,
		"idCliente": clientID,
	}
	resp, err := c.do(ctx, http.MethodPost, c.endpoints.Attend, nil, body)
	if err != nil {
		return nil, err
	}

	var out AttendResult
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CardPoints fetches the loyalty card identified by guid.
func (c *Client) CardPoints(ctx context.Context, guid string) (*Card, error) {
	q := url.Values{}
	q.Set("id", guid)
	resp, err := c.do(ctx, http.MethodGet, c.endpoints.Card, q, nil)
	if err != nil {
		return nil, err
	}

	var out Card
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
