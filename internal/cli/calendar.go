package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/wire"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Send approved tasks to the production calendar",
}

var calendarSendCmd = &cobra.Command{
	Use:   "send [month]",
	Short: "Send every eligible approved task of a month to the calendar",
	Long: `Send every approved, not-yet-sent task whose post date falls in the
selected month to the production calendar. Outcomes are reported per task.

Examples:
  stratdesk calendar send 2024-03`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := wire.TaskService().SendToCalendar(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to send to calendar: %w", err)
		}

		if result.NoOp {
			fmt.Printf("No eligible tasks for %s - nothing sent.\n", result.Month)
			return nil
		}

		fmt.Printf("✓ Sent %d task(s) to the %s calendar\n", len(result.Sent), result.Month)
		for _, key := range result.Sent {
			fmt.Printf("  - %s\n", key)
		}
		if len(result.Failed) > 0 {
			fmt.Printf("\n%d task(s) failed:\n", len(result.Failed))
			for key, reason := range result.Failed {
				fmt.Printf("  - %s: %s\n", key, reason)
			}
		}
		return nil
	},
}

func init() {
	calendarCmd.AddCommand(calendarSendCmd)
}

// CalendarCmd returns the calendar command tree.
func CalendarCmd() *cobra.Command {
	return calendarCmd
}
