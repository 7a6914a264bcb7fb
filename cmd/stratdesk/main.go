package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/cli"
	"github.com/example/stratdesk/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "stratdesk",
		Short:   "stratdesk - Strategy Department task and approval tracker",
		Version: version.String(),
		Long: `stratdesk tracks clients through the strategy approval cycle and their
content-production tasks through the production pipeline. Everything is
scoped to the employee session set up with 'stratdesk init'.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.WhoamiCmd())
	rootCmd.AddCommand(cli.LogoutCmd())
	rootCmd.AddCommand(cli.ClientCmd())
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.CalendarCmd())
	rootCmd.AddCommand(cli.NotificationCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
