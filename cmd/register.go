// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fidelia/cli/internal/api"
	"fidelia/cli/internal/terminal"
)

var registerReq api.RegisterRequest

// registerCmd creates a new Fidelia account. Registration only returns the
// server's verdict; it never signs the user in — follow up with 'fidelia
// login' once the account exists.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new Fidelia account",
	Long: `The register command creates a new Fidelia account from a full profile:
national id (cedula), first and last name, phone, email, password, and date of
birth. Missing fields are prompted for interactively.

Registering does not sign you in; run 'fidelia login' afterwards.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initApp(); err != nil {
			return err
		}

		if err := promptMissingProfile(&registerReq); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		result, err := appSession.Register(ctx, registerReq)
		if err != nil {
			// A 401 here is the server refusing the registration, not an
			// expired session; there is nothing for recovery to clean up.
			if errors.Is(err, api.ErrUnauthorized) {
				pterm.Println("❌ Registration was rejected by the server.")
				return nil
			}
			return handleAPIError(err, "creating your account")
		}

		if result.Success {
			pterm.Println("✅ " + orDefault(result.Message, "Account created."))
			pterm.Println("   Run 'fidelia login' to sign in.")
			return nil
		}
		pterm.Println("❌ " + orDefault(result.Message, "Registration was rejected."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerReq.Cedula, "cedula", "", "National id (numbers only)")
	registerCmd.Flags().StringVar(&registerReq.Nombre, "nombre", "", "First name")
	registerCmd.Flags().StringVar(&registerReq.Apellido, "apellido", "", "Last name")
	registerCmd.Flags().StringVar(&registerReq.Telefono, "telefono", "", "Phone number")
	registerCmd.Flags().StringVar(&registerReq.Email, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerReq.Password, "password", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerReq.FechaNacimiento, "fecha-nacimiento", "", "Date of birth (YYYY-MM-DD)")
}

// promptMissingProfile interactively fills any profile field not provided as a flag.
func promptMissingProfile(req *api.RegisterRequest) error {
	prompts := []struct {
		label  string
		target *string
		mask   bool
	}{
		{"Cedula", &req.Cedula, false},
		{"First name", &req.Nombre, false},
		{"Last name", &req.Apellido, false},
		{"Phone", &req.Telefono, false},
		{"Email", &req.Email, false},
		{"Password", &req.Password, true},
		{"Date of birth (YYYY-MM-DD)", &req.FechaNacimiento, false},
	}

	for _, p := range prompts {
		if *p.target != "" {
			continue
		}
		input := pterm.DefaultInteractiveTextInput
		if p.mask {
			input = *input.WithMask("*")
		}
		v, err := input.Show(p.label)
		if err != nil {
			return err
		}
		if p.mask {
			terminal.ClearPreviousLines(len(p.label) + 2 + len(v))
		}
		*p.target = v
	}
	return nil
}

// orDefault returns s, or fallback when s is empty.
func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
