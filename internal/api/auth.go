// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// LoginResponse is the payload returned by a successful login.
type LoginResponse struct {
	IDCliente int    `json:"idCliente"`
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Cedula    string `json:"cedula"`
	Token     string `json:"token"`
	Email     string `json:"email"`
}

// RegisterRequest is the full profile body sent to the register endpoint.
// Field names follow the backend contract.
type RegisterRequest struct {
	Cedula          string `json:"cedula"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	FechaNacimiento string `json:"fechaNacimiento"`
}

// RegisterResult is the server's verdict on a registration attempt.
type RegisterResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidateToken confirms the stored bearer credential against the backend.
// The pipeline attaches the token; no body is sent. A response that reports
// success=false counts as a rejected credential.
func (c *Client) ValidateToken(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, c.endpoints.ValidateToken, nil, nil)
	if err != nil {
		return err
	}

	var out struct {
		Success bool `json:"success"`
	}
	if err := decode(resp, &out); err != nil {
		return err
	}
	if !out.Success {
		return ErrUnauthorized
	}
	return nil
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	resp, err := c.do(ctx, http.MethodPost, c.endpoints.Login, nil, body)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &out, nil
}

// Register submits a full profile. The server's {success, message} verdict is
// returned even when it arrives on a 4xx status; registering never signs the
// user in. Transport failures and unrelated statuses propagate as errors.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (*RegisterResult, error) {
	resp, err := c.do(ctx, http.MethodPost, c.endpoints.Register, nil, reg)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			var out RegisterResult
			if jsonErr := json.Unmarshal([]byte(reqErr.Body), &out); jsonErr == nil && out.Message != "" {
				return &out, nil
			}
		}
		return nil, err
	}

	var out RegisterResult
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
