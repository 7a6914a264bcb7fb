package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/ports/primary"
	"github.com/example/stratdesk/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage content-production tasks",
	Long:  "Create, list, and move tasks through the production status pipeline",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		clientKey, _ := cmd.Flags().GetString("client")
		status, _ := cmd.Flags().GetString("status")
		month, _ := cmd.Flags().GetString("month")

		tasks, err := wire.TaskService().ListTasks(context.Background(), primary.TaskFilters{
			ClientKey: clientKey,
			Status:    status,
			Month:     month,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tNAME\tCLIENT\tSTATUS\tPOST DATE\tDEADLINE")
		fmt.Fprintln(w, "---\t----\t------\t------\t---------\t--------")
		for _, t := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				t.Key, t.Name, t.ClientName, t.Status, t.PostDate, t.Deadline)
		}
		w.Flush()
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-key]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := wire.TaskService().GetTask(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Task: %s\n", task.Key)
		fmt.Printf("Name:   %s\n", task.Name)
		fmt.Printf("Client: %s\n", task.ClientName)
		if task.Department != "" {
			fmt.Printf("Department: %s\n", task.Department)
		}
		fmt.Printf("Status: %s\n", task.Status)
		fmt.Printf("Post date: %s (deadline %s)\n", task.PostDate, task.Deadline)
		if task.ReworkNote != "" {
			fmt.Printf("\nRework note (%s by %s):\n  %s\n", task.ReworkedAt, task.ReworkedBy, task.ReworkNote)
		}
		if task.ApprovedAt != "" {
			fmt.Printf("\nApproved: %s by %s\n", task.ApprovedAt, task.ApprovedBy)
		}
		if task.AddedToCalendar {
			fmt.Printf("On production calendar since %s\n", task.SentToProductionAt)
		}
		fmt.Printf("\nCreated by: %s\n", task.CreatedBy)
		return nil
	},
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new task for a client",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientKey, _ := cmd.Flags().GetString("client")
		department, _ := cmd.Flags().GetString("department")
		postDate, _ := cmd.Flags().GetString("post-date")

		if clientKey == "" {
			return fmt.Errorf("--client is required")
		}

		resp, err := wire.TaskService().CreateTask(context.Background(), primary.CreateTaskRequest{
			ClientKey:  clientKey,
			Name:       args[0],
			Department: department,
			PostDate:   postDate,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Printf("✓ Created task %s: %s\n", resp.TaskKey, resp.Task.Name)
		fmt.Printf("  Post date: %s (deadline %s)\n", resp.Task.PostDate, resp.Task.Deadline)
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-key]",
	Short: "Edit a task's name, department or post date",
	Long: `Edit a task. Changing the post date recomputes the deadline; every
other edit leaves the deadline untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		department, _ := cmd.Flags().GetString("department")
		postDate, _ := cmd.Flags().GetString("post-date")

		if name == "" && department == "" && postDate == "" {
			return fmt.Errorf("must specify --name, --department and/or --post-date")
		}

		err := wire.TaskService().EditTask(context.Background(), primary.EditTaskRequest{
			TaskKey:    args[0],
			Name:       name,
			Department: department,
			PostDate:   postDate,
		})
		if err != nil {
			return fmt.Errorf("failed to edit task: %w", err)
		}

		fmt.Printf("✓ Task %s updated\n", args[0])
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-key] [status]",
	Short: "Move a task to a new status",
	Long: `Move a task to a new status.

Approving fuses with department assignment: "approved" is stored as
"assigned-to-department" in the same update.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := wire.TaskService().SetStatus(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to set status: %w", err)
		}

		if result.Stored != args[1] {
			fmt.Printf("✓ Task %s → %s (stored as %s)\n", result.TaskKey, args[1], result.Stored)
		} else {
			fmt.Printf("✓ Task %s → %s\n", result.TaskKey, result.Stored)
		}
		return nil
	},
}

var taskReworkCmd = &cobra.Command{
	Use:   "rework [task-key]",
	Short: "Send a task back with a feedback note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")

		if err := wire.TaskService().ReworkTask(context.Background(), args[0], note); err != nil {
			return fmt.Errorf("failed to send task back: %w", err)
		}

		fmt.Printf("✓ Task %s sent back to information-gathering\n", args[0])
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-key]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.TaskService().DeleteTask(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Printf("✓ Task %s deleted\n", args[0])
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringP("client", "c", "", "Filter by client key")
	taskListCmd.Flags().StringP("status", "s", "", "Filter by status")
	taskListCmd.Flags().StringP("month", "m", "", "Filter by post month (YYYY-MM)")

	taskCreateCmd.Flags().StringP("client", "c", "", "Client key (required)")
	taskCreateCmd.Flags().StringP("department", "d", "", "Production department")
	taskCreateCmd.Flags().String("post-date", "", "Post date (YYYY-MM-DD, required)")

	taskEditCmd.Flags().String("name", "", "New name")
	taskEditCmd.Flags().StringP("department", "d", "", "New department")
	taskEditCmd.Flags().String("post-date", "", "New post date (YYYY-MM-DD)")

	taskReworkCmd.Flags().StringP("note", "n", "", "Feedback note (required)")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskReworkCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

// TaskCmd returns the task command tree.
func TaskCmd() *cobra.Command {
	return taskCmd
}
