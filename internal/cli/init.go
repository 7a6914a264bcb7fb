package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/config"
	"github.com/example/stratdesk/internal/session"
)

var initCmd = &cobra.Command{
	Use:   "init [email]",
	Short: "Set up the local employee session",
	Long: `Store the employee identity used to scope every command.

The session is written to ~/.stratdesk/session.json. The STRATDESK_EMAIL
environment variable overrides it when set.

Examples:
  stratdesk init dana@agency.com --name "Dana" --role strategist`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		department, _ := cmd.Flags().GetString("department")

		store := config.NewSessionStore()
		ctx := &session.Context{
			Name:       name,
			Email:      email,
			Department: department,
			Role:       role,
		}
		if err := store.SaveSession(ctx); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		fmt.Printf("✓ Session saved for %s\n", email)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active employee session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := session.Resolve(
			session.Env{},
			session.File{Loader: config.NewSessionStore()},
		)
		if err != nil {
			return err
		}

		fmt.Printf("Email:      %s\n", ctx.Email)
		if ctx.Name != "" {
			fmt.Printf("Name:       %s\n", ctx.Name)
		}
		if ctx.Department != "" {
			fmt.Printf("Department: %s\n", ctx.Department)
		}
		if ctx.Role != "" {
			fmt.Printf("Role:       %s\n", ctx.Role)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local employee session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.NewSessionStore().ClearSession(); err != nil {
			return err
		}
		fmt.Println("✓ Session cleared")
		return nil
	},
}

func init() {
	initCmd.Flags().String("name", "", "Employee display name")
	initCmd.Flags().String("role", "", "Employee role")
	initCmd.Flags().String("department", "Strategy Department", "Employee department")
}

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	return initCmd
}

// WhoamiCmd returns the whoami command.
func WhoamiCmd() *cobra.Command {
	return whoamiCmd
}

// LogoutCmd returns the logout command.
func LogoutCmd() *cobra.Command {
	return logoutCmd
}
