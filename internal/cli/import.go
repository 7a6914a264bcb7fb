package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/wire"
)

var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Bulk-import tasks from a spreadsheet export",
	Long: `Import tasks from a CSV spreadsheet export.

Expected columns: client_id, client_name, task_name, department, post_date.
Malformed rows are reported per row; valid rows are still imported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()

		result, err := wire.TaskService().ImportTasks(context.Background(), f)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Printf("✓ Imported %d task(s)\n", result.Imported)
		if len(result.RowErrors) > 0 {
			fmt.Printf("\n%d row(s) skipped:\n", len(result.RowErrors))
			rows := make([]int, 0, len(result.RowErrors))
			for row := range result.RowErrors {
				rows = append(rows, row)
			}
			sort.Ints(rows)
			for _, row := range rows {
				fmt.Printf("  row %d: %s\n", row, result.RowErrors[row])
			}
		}
		return nil
	},
}

// ImportCmd returns the import command.
func ImportCmd() *cobra.Command {
	return importCmd
}
