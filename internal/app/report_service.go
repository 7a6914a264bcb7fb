package app

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/example/stratdesk/internal/adapters/export"
	"github.com/example/stratdesk/internal/core/status"
	"github.com/example/stratdesk/internal/ports/primary"
)

// ReportServiceImpl implements the ReportService interface. It composes the
// scoped client and task views; scoping lives in those services.
type ReportServiceImpl struct {
	clients primary.ClientService
	tasks   primary.TaskService
}

// NewReportService creates a new ReportService.
func NewReportService(clients primary.ClientService, tasks primary.TaskService) *ReportServiceImpl {
	return &ReportServiceImpl{clients: clients, tasks: tasks}
}

// Summary returns per-client stage and task-count rollups for the visible
// client set.
func (s *ReportServiceImpl) Summary(ctx context.Context) ([]*primary.ClientSummary, error) {
	clients, err := s.clients.ListClients(ctx, primary.ClientFilters{})
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListTasks(ctx, primary.TaskFilters{})
	if err != nil {
		return nil, err
	}

	byClient := make(map[string]*primary.ClientSummary, len(clients))
	order := make([]string, 0, len(clients))
	for _, c := range clients {
		byClient[c.Key] = &primary.ClientSummary{
			ClientKey:  c.Key,
			ClientName: c.Name,
			Stage:      c.Stage,
		}
		order = append(order, c.Key)
	}

	for _, t := range tasks {
		summary, ok := byClient[t.ClientKey]
		if !ok {
			continue
		}
		summary.Total++
		summary.Tasks = append(summary.Tasks, t)
		switch status.Status(t.Status) {
		case status.Completed, status.Posted:
			summary.Completed++
		case status.InProgress, status.AssignedToDepartment:
			summary.InProgress++
		default:
			summary.Pending++
		}
	}

	sort.Strings(order)
	summaries := make([]*primary.ClientSummary, len(order))
	for i, key := range order {
		summaries[i] = byClient[key]
	}
	return summaries, nil
}

// ExportCSV writes the spreadsheet export for the visible task set.
func (s *ReportServiceImpl) ExportCSV(ctx context.Context, w io.Writer) error {
	tasks, err := s.tasks.ListTasks(ctx, primary.TaskFilters{})
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, tasks); err != nil {
		return fmt.Errorf("failed to write spreadsheet export: %w", err)
	}
	return nil
}

// WriteHTMLReport writes the grouped report for the visible client set.
func (s *ReportServiceImpl) WriteHTMLReport(ctx context.Context, w io.Writer) error {
	summaries, err := s.Summary(ctx)
	if err != nil {
		return err
	}
	if err := export.WriteHTML(w, summaries); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Ensure ReportServiceImpl implements the interface
var _ primary.ReportService = (*ReportServiceImpl)(nil)
