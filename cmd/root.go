// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Fidelia CLI
// application. It implements subcommands for authentication, registration,
// event listings, and loyalty-card points using the Cobra CLI framework, with
// a terminal UI built on pterm.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the Fidelia CLI application.
var rootCmd = &cobra.Command{
	Use:           "fidelia",
	Short:         "Fidelia CLI for the Fidelia loyalty platform",
	Long:          `Fidelia is a command-line client for the Fidelia loyalty platform: sign in, browse club events, and check your loyalty-card points.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("fidelia %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
