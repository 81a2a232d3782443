// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fidelia/cli/internal/session"
)

// whoamiCmd represents the whoami command for displaying current
// authentication state. It replays the stored credential against the backend;
// a rejected or missing credential reports "not logged in" and leaves the
// store empty.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command displays information about the currently authenticated
account. It validates the stored session with the backend service and shows
the account identity if the session is still valid.

If no valid session exists, it will indicate that you are not logged in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initApp(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		st, err := appSession.ValidateStartup(ctx)
		if st == session.Authenticated {
			u := appSession.User()
			who := displayName(u)
			if u != nil && u.Name != "" && u.Email != "" {
				who = fmt.Sprintf("%s (%s %s)", u.Email, u.Name, u.Lastname)
			}
			fmt.Printf("👤 Current user: %s\n", who)
			return nil
		}

		if err != nil {
			_ = handleAPIError(err, "checking your session")
		}
		fmt.Println("🔒 You're not logged in yet!")
		fmt.Println("   Run 'fidelia login' to get started.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
