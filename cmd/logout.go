// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// It removes the stored session token and cached profile. Logging out never
// fails: clearing an already-empty store is a no-op.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session credential",
	Long: `The logout command clears the stored session token and cached profile
from the OS keychain (or the file fallback). It is safe to run at any time,
including when you are not signed in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initApp(); err != nil {
			return err
		}

		appSession.Logout()

		fmt.Println("✅ Signed out. Saved credentials have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
