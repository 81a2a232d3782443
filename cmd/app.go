// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"sync"

	"github.com/pterm/pterm"

	"fidelia/cli/internal/api"
	"fidelia/cli/internal/config"
	"fidelia/cli/internal/credstore"
	"fidelia/cli/internal/httperrors"
	"fidelia/cli/internal/recovery"
	"fidelia/cli/internal/session"
)

// Process-wide singletons: one credential store, one session, one coordinator.
var (
	appOnce        sync.Once
	appErr         error
	appStore       *credstore.Store
	appClient      *api.Client
	appSession     *session.Session
	appCoordinator *recovery.Coordinator
)

// initApp wires the credential store, HTTP client, session, and recovery
// coordinator on first use.
func initApp() error {
	appOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			appErr = err
			return
		}

		appStore, err = credstore.NewDefault()
		if err != nil {
			appErr = err
			return
		}

		appClient = api.New(cfg, appStore)
		appSession = session.New(appStore, appClient)
		appCoordinator = recovery.New(appStore, appSession, terminalNavigator{}, terminalAnnouncer{})
	})
	return appErr
}

// terminalNavigator is the CLI's stand-in for screen navigation: routing to
// the entry surface means telling the user how to sign back in.
type terminalNavigator struct{}

func (terminalNavigator) ReplaceWith(route string) {
	if route == recovery.EntryRoute {
		pterm.Println("   Run 'fidelia login' to sign in again.")
	}
}

// terminalAnnouncer surfaces session notices on the terminal.
type terminalAnnouncer struct{}

func (terminalAnnouncer) Announce(message string) {
	pterm.Println("⚠️  " + message)
}

// handleAPIError forwards a rejected credential to the recovery coordinator
// and presents network failures. The original error always comes back to the
// caller; recovery never swallows it.
func handleAPIError(err error, context string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, api.ErrUnauthorized) {
		appCoordinator.HandleUnauthorized()
		return err
	}

	var netErr *api.NetworkError
	var timeoutErr *api.TimeoutError
	if errors.As(err, &netErr) || errors.As(err, &timeoutErr) {
		return httperrors.FormatNetworkError(err, context)
	}

	return err
}
