// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fidelia/cli/internal/api"
	"fidelia/cli/internal/session"
	"fidelia/cli/internal/terminal"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd represents the login command. It validates any stored credential
// first and short-circuits when the session is still good; otherwise it asks
// for email and password, exchanges them for a bearer token, and persists the
// credential securely before reporting success.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to the Fidelia loyalty platform",
	Long: `The login command signs you in with your Fidelia account. The returned
session token and profile are stored in the OS keychain when available, or in
a private file otherwise, and are attached automatically to every later
command until you log out or the server rejects the session.

If you are already signed in with a valid session, login does nothing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initApp(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		// Short-circuit when the stored credential still validates
		if st, _ := appSession.ValidateStartup(ctx); st == session.Authenticated {
			fmt.Printf("Already logged in as %s\n", displayName(appSession.User()))
			return nil
		}

		email := loginEmail
		if email == "" {
			var err error
			email, err = pterm.DefaultInteractiveTextInput.Show("Email")
			if err != nil {
				return err
			}
		}

		password := loginPassword
		if password == "" {
			var err error
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
			// Scrub the masked prompt from the terminal
			terminal.ClearPreviousLines(len("Password: ") + len(password))
		}

		cursor.Hide()
		stopSpinner := startInlineSpinner(os.Stdout, "Signing in", spinnerFrames, 120*time.Millisecond)
		user, err := appSession.Login(ctx, email, password)
		stopSpinner()
		cursor.Show()

		if err != nil {
			// A 401 on the login call itself means bad credentials, not an
			// expired session; don't route it through recovery.
			if errors.Is(err, api.ErrUnauthorized) {
				pterm.Println("❌ Invalid email or password.")
				return nil
			}
			return handleAPIError(err, "signing in")
		}

		// A fresh session re-arms expiry recovery
		appCoordinator.Arm()

		fmt.Println(getRandomLoginGreeting(displayName(user)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}

// displayName picks the friendliest identifier available for the user.
func displayName(u *session.User) string {
	if u == nil {
		return "user"
	}
	if u.Email != "" {
		return u.Email
	}
	if u.Name != "" {
		return u.Name
	}
	return "user"
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"👋 Hello %s! Ready for the next event?",
		"✅ Authentication complete! Hi %s!",
		"🔓 Access granted! Welcome %s!",
	}

	idx := rand.Intn(len(greetings))
	return fmt.Sprintf(greetings[idx], identifier)
}
