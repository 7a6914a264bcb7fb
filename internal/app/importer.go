package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/example/stratdesk/internal/core/scope"
	"github.com/example/stratdesk/internal/core/status"
	"github.com/example/stratdesk/internal/ports/primary"
	"github.com/example/stratdesk/internal/ports/secondary"
)

// Import column layout. The first row is a header and is skipped.
//
//	client_id, client_name, task_name, department, post_date
const importColumns = 5

// importTasks reads a CSV spreadsheet export and creates one task per valid
// row. Malformed rows are collected under 1-based data row numbers; the header
// does not count, and valid rows are still imported. The client foreign key is
// normalized here, once, at ingestion: an existing client resolved by
// clientId-then-name wins, otherwise the raw identity collapses to a single
// canonical key.
func (s *TaskServiceImpl) importTasks(ctx context.Context, r io.Reader) (*primary.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &primary.ImportResult{RowErrors: map[int]string{}}
	dataRow := 0
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			first = false
			dataRow++
			result.RowErrors[dataRow] = fmt.Sprintf("malformed row: %v", err)
			continue
		}
		if first {
			first = false
			if looksLikeHeader(row) {
				continue
			}
		}
		dataRow++

		if err := s.importRow(ctx, row); err != nil {
			result.RowErrors[dataRow] = err.Error()
			continue
		}
		result.Imported++
	}

	return result, nil
}

func (s *TaskServiceImpl) importRow(ctx context.Context, row []string) error {
	if len(row) < importColumns {
		return fmt.Errorf("expected %d columns, got %d", importColumns, len(row))
	}

	clientID := strings.TrimSpace(row[0])
	clientName := strings.TrimSpace(row[1])
	taskName := strings.TrimSpace(row[2])
	department := strings.TrimSpace(row[3])
	postDate := strings.TrimSpace(row[4])

	if taskName == "" {
		return fmt.Errorf("task name is empty")
	}
	if clientID == "" && clientName == "" {
		return fmt.Errorf("row has neither client id nor client name")
	}

	deadline, err := status.DeadlineFor(postDate)
	if err != nil {
		return err
	}

	// Normalize the foreign key once: prefer a known client's canonical
	// key, fall back to the raw identity.
	clientKey := scope.NormalizeClientKey(clientID, clientName)
	if client, err := s.clientRepo.FindByIdentity(ctx, clientID, clientName); err == nil && client != nil {
		clientKey = client.Key
		if clientName == "" {
			clientName = client.Name
		}
	}

	key, err := s.taskRepo.NextKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate task key: %v", err)
	}

	record := &secondary.TaskRecord{
		Key:        key,
		ClientKey:  clientKey,
		ClientID:   clientID,
		ClientName: clientName,
		Name:       taskName,
		Department: department,
		Status:     string(status.PendingProduction),
		PostDate:   postDate,
		Deadline:   deadline,
		// Imported tasks arrive from the upstream production system.
		SentToStrategy: true,
		CreatedBy:      "Production import",
	}
	if err := s.taskRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("create task: %v", err)
	}
	return nil
}

func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "client_id" || first == "clientid" || first == "client id"
}
