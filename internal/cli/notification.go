package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/wire"
)

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notifications", "notify", "inbox"},
	Short:   "View pipeline notifications",
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		unreadOnly, _ := cmd.Flags().GetBool("unread")

		notifications, err := wire.NotificationService().ListNotifications(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}

		shown := 0
		for _, n := range notifications {
			if unreadOnly && n.Read {
				continue
			}
			shown++

			marker := color.New(color.FgHiYellow).Sprint("●")
			if n.Read {
				marker = " "
			}
			title := n.Title
			if n.Priority == "high" {
				title = color.New(color.FgHiRed).Sprint(title)
			}
			fmt.Printf("%s %s  %s\n", marker, n.Key, title)
			if n.ClientName != "" {
				fmt.Printf("    Client: %s\n", n.ClientName)
			}
			if n.Message != "" {
				fmt.Printf("    %s\n", n.Message)
			}
			fmt.Printf("    %s\n", n.CreatedAt)
		}

		if shown == 0 {
			fmt.Println("No notifications.")
		}
		return nil
	},
}

var notificationReadCmd = &cobra.Command{
	Use:   "read [notification-key]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.NotificationService().MarkRead(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}

		fmt.Printf("✓ Notification %s marked read\n", args[0])
		return nil
	},
}

func init() {
	notificationListCmd.Flags().BoolP("unread", "u", false, "Only show unread notifications")

	notificationCmd.AddCommand(notificationListCmd)
	notificationCmd.AddCommand(notificationReadCmd)
}

// NotificationCmd returns the notification command tree.
func NotificationCmd() *cobra.Command {
	return notificationCmd
}
