// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fidelia/cli/internal/session"
)

// pointsCmd shows the loyalty-card points balance. Without an explicit card
// id it uses the signed-in user's card.
var pointsCmd = &cobra.Command{
	Use:   "points [card-id]",
	Short: "Show loyalty-card points",
	Long: `The points command shows the accumulated points on a loyalty card.
When no card id is given, the card of the signed-in account is used.`,
	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initApp(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		cardID := ""
		if len(args) == 1 {
			cardID = args[0]
		} else {
			st, err := appSession.ValidateStartup(ctx)
			if st != session.Authenticated {
				if err != nil {
					_ = handleAPIError(err, "checking your session")
				}
				pterm.Println("🔒 You're not logged in yet!")
				pterm.Println("   Run 'fidelia login' to get started.")
				return nil
			}
			cardID = fmt.Sprint(appSession.User().ID)
		}

		card, err := appClient.CardPoints(ctx, cardID)
		if err != nil {
			return handleAPIError(err, "checking your points")
		}

		pterm.Printf("⭐ Accumulated points: %d/12\n", card.Puntos)
		switch {
		case card.Puntos >= 12:
			pterm.Println("🎁 You can claim the 12-point reward!")
		case card.Puntos >= 6:
			pterm.Println("🎁 You can claim the 6-point reward!")
		default:
			pterm.Printf("   %d more points until the first reward.\n", 6-card.Puntos)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pointsCmd)
}
