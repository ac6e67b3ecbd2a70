package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notify"},
	Short:   "Show and manage notifications",
	RunE:    runNotificationsList,
}

var notificationsDismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss a notification so it stays gone",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationsDismiss,
}

var notificationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all dismissals and active notifications",
	RunE:  runNotificationsClear,
}

func init() {
	notificationsCmd.AddCommand(notificationsDismissCmd, notificationsClearCmd)
	rootCmd.AddCommand(notificationsCmd)
}

func runNotificationsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}
	if _, err := a.feed.Refresh(cmd.Context()); err != nil {
		return err
	}
	active := a.ledger.Active()
	if len(active) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notifications")
		return nil
	}
	for _, n := range active {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", n.ID, n.Title, n.Message)
	}
	return nil
}

func runNotificationsDismiss(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.ledger.Dismiss(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", args[0])
	return nil
}

func runNotificationsClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.ledger.ClearAll(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Notifications cleared")
	return nil
}
