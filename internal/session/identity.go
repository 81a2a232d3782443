// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"github.com/golang-jwt/jwt/v5"

	"fidelia/cli/internal/credstore"
)

// userFromCredential builds the session identity from the cached profile, or
// reconstructs a minimal one from the token alone when no profile was cached.
func userFromCredential(cred credstore.Credential) *User {
	if cred.Profile != nil {
		return &User{
			ID:       cred.Profile.ID,
			Name:     cred.Profile.Name,
			Lastname: cred.Profile.Lastname,
			Cedula:   cred.Profile.Cedula,
			Email:    cred.Profile.Email,
			Token:    cred.Token,
		}
	}
	return identityFromToken(cred.Token)
}

// identityFromToken extracts display fields from the bearer token's claims.
// The signature is not verified here; the server stays the authority on
// whether the token is valid, these claims only seed the identity. Tokens that
// are not JWTs degrade to a token-only identity.
func identityFromToken(token string) *User {
	u := &User{Token: token}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return u
	}

	if v, ok := claims["email"].(string); ok {
		u.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		u.Name = v
	}
	if v, ok := claims["lastname"].(string); ok {
		u.Lastname = v
	}
	if v, ok := claims["cedula"].(string); ok {
		u.Cedula = v
	}
	// JSON numbers decode as float64
	if v, ok := claims["idCliente"].(float64); ok {
		u.ID = int(v)
	}
	return u
}
