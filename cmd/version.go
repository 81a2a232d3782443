// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the CLI version, overridden at build time via -ldflags.
var Version = "dev"

// versionCmd prints the CLI version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fidelia %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
