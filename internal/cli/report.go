package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/wire"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports and exports over your visible clients",
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-client stage and task rollup",
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := wire.ReportService().Summary(context.Background())
		if err != nil {
			return fmt.Errorf("failed to build summary: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No clients found.")
			return nil
		}

		for _, s := range summaries {
			header := color.New(color.Bold).Sprintf("%s (%s)", s.ClientName, s.ClientKey)
			fmt.Printf("%s - %s\n", header, s.Stage)
			fmt.Printf("  %s %d   %s %d   %s %d   (total %d)\n",
				color.New(color.FgGreen).Sprint("completed"), s.Completed,
				color.New(color.FgYellow).Sprint("in progress"), s.InProgress,
				color.New(color.FgHiBlack).Sprint("pending"), s.Pending,
				s.Total,
			)
		}
		return nil
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the spreadsheet export (CSV)",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		w := os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := wire.ReportService().ExportCSV(context.Background(), w); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		if out != "" {
			fmt.Printf("✓ Export written to %s\n", out)
		}
		return nil
	},
}

var reportHTMLCmd = &cobra.Command{
	Use:   "html",
	Short: "Write the HTML report grouped by client",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = "report.html"
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()

		if err := wire.ReportService().WriteHTMLReport(context.Background(), f); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Printf("✓ Report written to %s\n", out)
		return nil
	},
}

func init() {
	reportExportCmd.Flags().StringP("out", "o", "", "Output file (defaults to stdout)")
	reportHTMLCmd.Flags().StringP("out", "o", "report.html", "Output file")

	reportCmd.AddCommand(reportSummaryCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportHTMLCmd)
}

// ReportCmd returns the report command tree.
func ReportCmd() *cobra.Command {
	return reportCmd
}
