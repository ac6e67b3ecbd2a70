// Package cli wires the storefront client stack behind a cobra command tree:
// session, cart, wishlist, notifications, search, and the admin views, all
// backed by the configured storage backend.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "NexDawn storefront client",
	Long: `Command-line client for the NexDawn storefront.

Cart, wishlist, session, and dismissed notifications persist in the
configured storage backend, so state survives between invocations the
same way it does between browser sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
