package primary

import (
	"context"
	"io"
)

// ReportService defines the primary port for reports and exports over the
// session employee's visible task set.
type ReportService interface {
	// Summary returns per-client stage and task-count rollups.
	Summary(ctx context.Context) ([]*ClientSummary, error)

	// ExportCSV writes the spreadsheet export: one row per task with name,
	// client, department, post date, deadline and status.
	ExportCSV(ctx context.Context, w io.Writer) error

	// WriteHTMLReport writes the report grouped by client with per-client
	// completed / in-progress / pending counts.
	WriteHTMLReport(ctx context.Context, w io.Writer) error
}

// ClientSummary is a per-client rollup for the summary and report views.
type ClientSummary struct {
	ClientKey  string
	ClientName string
	Stage      string
	Completed  int
	InProgress int
	Pending    int
	Total      int
	Tasks      []*Task
}
