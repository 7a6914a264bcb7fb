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

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients and their approval cycles",
	Long:  "List, create, and move clients through the strategy approval cycle",
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, _ := cmd.Flags().GetString("stage")

		clients, err := wire.ClientService().ListClients(context.Background(), primary.ClientFilters{
			Stage: stage,
		})
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Println("No clients found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tNAME\tSTAGE\tLAST UPDATED")
		fmt.Fprintln(w, "---\t----\t-----\t------------")
		for _, c := range clients {
			lastUpdated := "-"
			if c.LastUpdated != "" {
				lastUpdated = c.LastUpdated
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Key, c.Name, c.Stage, lastUpdated)
		}
		w.Flush()
		return nil
	},
}

var clientShowCmd = &cobra.Command{
	Use:   "show [client-key]",
	Short: "Show client details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := wire.ClientService().GetClient(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Client: %s\n", client.Key)
		fmt.Printf("Name:   %s\n", client.Name)
		if client.AssignedToEmployee != "" {
			fmt.Printf("Assigned to: %s\n", client.AssignedToEmployee)
		}
		fmt.Printf("Stage:  %s\n", client.Stage)
		if len(client.StageCompletions) > 0 {
			fmt.Println("\nCompleted stages this cycle:")
			for stage, stamp := range client.StageCompletions {
				fmt.Printf("  - %s at %s\n", stage, stamp)
			}
		}
		if client.CompletedAt != "" {
			fmt.Printf("\nLast approved cycle: %s\n", client.CompletedAt)
		}
		if client.RejectedAt != "" {
			fmt.Printf("Last rejection: %s by %s\n", client.RejectedAt, client.RejectedBy)
		}
		return nil
	},
}

var clientCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register a new client",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client-id")
		assignee, _ := cmd.Flags().GetString("assign")

		client, err := wire.ClientService().CreateClient(context.Background(), primary.CreateClientRequest{
			ClientID:           clientID,
			Name:               args[0],
			AssignedToEmployee: assignee,
		})
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		fmt.Printf("✓ Created client %s: %s\n", client.Key, client.Name)
		return nil
	},
}

var clientAssignCmd = &cobra.Command{
	Use:   "assign [client-key] [email]",
	Short: "Assign a client to an employee",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.ClientService().AssignClient(context.Background(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to assign client: %w", err)
		}

		fmt.Printf("✓ Client %s assigned to %s\n", args[0], args[1])
		return nil
	},
}

var clientCompleteCmd = &cobra.Command{
	Use:   "complete [client-key]",
	Short: "Mark the client's current stage complete",
	Long: `Mark the client's current stage complete and advance the cycle.

Works for information-gathering, strategy-preparation and internal-approval.
The client-approval stage finishes with a decision instead:
  stratdesk client approve [client-key]
  stratdesk client reject [client-key]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := wire.ClientService().CompleteStage(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to complete stage: %w", err)
		}

		fmt.Printf("✓ Completed %s for %s\n", result.CompletedStage, result.Key)
		fmt.Printf("  Now at: %s\n", result.Stage)
		return nil
	},
}

var clientApproveCmd = &cobra.Command{
	Use:   "approve [client-key]",
	Short: "Approve the cycle and release tasks to production",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := wire.ClientService().ApproveCycle(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to approve cycle: %w", err)
		}

		fmt.Printf("✓ Cycle approved for %s\n", result.Key)
		fmt.Printf("  Tasks released to production: %d\n", result.TasksReleased)
		return nil
	},
}

var clientRejectCmd = &cobra.Command{
	Use:   "reject [client-key]",
	Short: "Reject the cycle and restart from information-gathering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := wire.ClientService().RejectCycle(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to reject cycle: %w", err)
		}

		fmt.Printf("✓ Cycle rejected for %s - back to information-gathering\n", result.Key)
		return nil
	},
}

func init() {
	clientListCmd.Flags().StringP("stage", "s", "", "Filter by stage")
	clientCreateCmd.Flags().String("client-id", "", "External client ID")
	clientCreateCmd.Flags().String("assign", "", "Assign to employee email")

	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientShowCmd)
	clientCmd.AddCommand(clientCreateCmd)
	clientCmd.AddCommand(clientAssignCmd)
	clientCmd.AddCommand(clientCompleteCmd)
	clientCmd.AddCommand(clientApproveCmd)
	clientCmd.AddCommand(clientRejectCmd)
}

// ClientCmd returns the client command tree.
func ClientCmd() *cobra.Command {
	return clientCmd
}
