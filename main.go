// Package main is the entry point for the Fidelia CLI application.
// It provides access to the Fidelia loyalty platform: authentication,
// event listings, and loyalty-card points.
package main

import (
	"fidelia/cli/cmd"
)

// main is the entry point for the Fidelia CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
