// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fidelia/cli/internal/api"
	"fidelia/cli/internal/session"
)

var attendEvent bool

// eventsCmd lists the club's published events, or shows one event in detail
// when an id is given. With --attend it signs the current user up for the
// event. The session token is attached by the client pipeline; if the server
// rejects it mid-session the recovery coordinator clears the credential and
// points the user back to login.
var eventsCmd = &cobra.Command{
	Use:   "events [event-id]",
	Short: "List club events or show one in detail",
	Long: `The events command lists the events published by the club, with date,
time, venue, and price. Given an event id it shows that event's full details
including its description and how many members signed up.

Use --attend together with an event id to sign up for the event. Attending
requires a signed-in session.`,
	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initApp(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if len(args) == 0 {
			if attendEvent {
				return errors.New("--attend requires an event id")
			}
			return listEvents(ctx)
		}
		return showEvent(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().BoolVar(&attendEvent, "attend", false, "Sign up for the event")
}

func listEvents(ctx context.Context) error {
	cursor.Hide()
	stopSpinner := startInlineSpinner(os.Stdout, "Fetching events", spinnerFrames, 120*time.Millisecond)
	events, err := appClient.Events(ctx)
	stopSpinner()
	cursor.Show()

	if err != nil {
		return handleAPIError(err, "fetching events")
	}

	if len(events) == 0 {
		pterm.Println("No events published right now.")
		return nil
	}

	data := pterm.TableData{{"Event", "Date", "Time", "Venue", "Price"}}
	for _, ev := range events {
		data = append(data, []string{ev.Nombre, ev.Fecha, ev.Hora, ev.Lugar, ev.Precio})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func showEvent(ctx context.Context, eventID string) error {
	cursor.Hide()
	stopSpinner := startInlineSpinner(os.Stdout, "Fetching event", spinnerFrames, 120*time.Millisecond)
	detail, err := appClient.EventByGuid(ctx, eventID)
	stopSpinner()
	cursor.Show()

	if err != nil {
		return handleAPIError(err, "fetching the event")
	}

	pterm.DefaultSection.Println(detail.Nombre)
	pterm.Printf("📅 Date:  %s\n", detail.Fecha)
	pterm.Printf("🕒 Time:  %s\n", detail.Hora)
	pterm.Printf("📍 Venue: %s\n", detail.Lugar)
	pterm.Printf("💵 Price: %s\n", detail.Precio)
	if detail.Descripcion != "" {
		pterm.Printf("📋 %s\n", detail.Descripcion)
	}
	pterm.Printf("👥 %d member(s) signed up\n", len(detail.Asistencias))

	if !attendEvent {
		return nil
	}
	return attend(ctx, eventID, detail)
}

// attend signs the current user up for the event. A rejected credential on
// the attendance call goes through the shared handler so recovery fires.
func attend(ctx context.Context, eventID string, detail *api.EventDetail) error {
	st, err := appSession.ValidateStartup(ctx)
	if st != session.Authenticated {
		if err != nil {
			_ = handleAPIError(err, "checking your session")
		}
		pterm.Println("🔒 You're not logged in yet!")
		pterm.Println("   Run 'fidelia login' to sign up for events.")
		return nil
	}

	user := appSession.User()
	for _, a := range detail.Asistencias {
		if a.IDCliente == user.ID {
			pterm.Println("✅ You're already signed up for this event!")
			return nil
		}
	}

	result, err := appClient.AttendEvent(ctx, eventID, user.ID)
	if err != nil {
		return handleAPIError(err, "signing up for the event")
	}

	if result.Success {
		pterm.Println("🎟️  " + orDefault(result.Message, "You're signed up!"))
		return nil
	}
	pterm.Println("❌ " + orDefault(result.Message, "Could not register your attendance."))
	return nil
}
