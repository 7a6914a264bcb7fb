package app

import (
	"context"
	"strings"
	"testing"

	"github.com/example/stratdesk/internal/core/stage"
)

func TestImportTasks_ValidRows(t *testing.T) {
	service, taskRepo, clientRepo, _ := newTestTaskService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))

	input := strings.Join([]string{
		"client_id,client_name,task_name,department,post_date",
		"CL-1,Client CL-1,March reel,Video,2024-03-10",
		"CL-1,Client CL-1,March carousel,Design,2024-03-15",
	}, "\n")

	result, err := service.ImportTasks(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", result.Imported)
	}
	if len(result.RowErrors) != 0 {
		t.Errorf("expected no row errors, got %v", result.RowErrors)
	}
	if len(taskRepo.tasks) != 2 {
		t.Fatalf("expected 2 stored tasks, got %d", len(taskRepo.tasks))
	}
	for _, stored := range taskRepo.tasks {
		if stored.ClientKey != "CL-1" {
			t.Errorf("expected canonical client key CL-1, got %s", stored.ClientKey)
		}
		if !stored.SentToStrategy {
			t.Error("imported tasks must be marked sent-to-strategy")
		}
	}
}

func TestImportTasks_DeadlineDerived(t *testing.T) {
	service, taskRepo, clientRepo, _ := newTestTaskService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))

	input := "client_id,client_name,task_name,department,post_date\n" +
		"CL-1,Client CL-1,March reel,Video,2024-03-01\n"

	if _, err := service.ImportTasks(ctx, strings.NewReader(input)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, stored := range taskRepo.tasks {
		if stored.Deadline != "2024-02-28" {
			t.Errorf("expected deadline 2024-02-28, got %s", stored.Deadline)
		}
	}
}

func TestImportTasks_BadRowsReportedGoodRowsKept(t *testing.T) {
	service, taskRepo, clientRepo, _ := newTestTaskService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))

	input := strings.Join([]string{
		"client_id,client_name,task_name,department,post_date",
		"CL-1,Client CL-1,March reel,Video,2024-03-10",
		"CL-1,Client CL-1,,Video,2024-03-11",
		"CL-1,Client CL-1,Bad date,Video,11/03/2024",
		",,No client,Video,2024-03-12",
	}, "\n")

	result, err := service.ImportTasks(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no aggregate error, got %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", result.Imported)
	}
	if len(result.RowErrors) != 3 {
		t.Fatalf("expected 3 row errors, got %v", result.RowErrors)
	}
	for _, row := range []int{2, 3, 4} {
		if _, ok := result.RowErrors[row]; !ok {
			t.Errorf("expected an error for row %d", row)
		}
	}
	if len(taskRepo.tasks) != 1 {
		t.Errorf("expected 1 stored task, got %d", len(taskRepo.tasks))
	}
}

func TestImportTasks_UnknownClientCollapsesToRawIdentity(t *testing.T) {
	service, taskRepo, _, _ := newTestTaskService()
	ctx := context.Background()

	input := "client_id,client_name,task_name,department,post_date\n" +
		",Acme GmbH,March reel,Video,2024-03-10\n"

	result, err := service.ImportTasks(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected 1 imported, got %d", result.Imported)
	}
	for _, stored := range taskRepo.tasks {
		if stored.ClientKey != "Acme GmbH" {
			t.Errorf("expected raw identity as key, got %s", stored.ClientKey)
		}
	}
}

func TestImportTasks_ShortRow(t *testing.T) {
	service, _, _, _ := newTestTaskService()
	ctx := context.Background()

	input := "client_id,client_name,task_name,department,post_date\n" +
		"CL-1,Client CL-1,March reel\n"

	result, err := service.ImportTasks(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no aggregate error, got %v", err)
	}
	if result.Imported != 0 {
		t.Errorf("expected 0 imported, got %d", result.Imported)
	}
	if _, ok := result.RowErrors[1]; !ok {
		t.Errorf("expected an error for data row 1, got %v", result.RowErrors)
	}
}

func TestImportTasks_RowNumbersSkipHeader(t *testing.T) {
	service, _, clientRepo, _ := newTestTaskService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))

	withHeader := "client_id,client_name,task_name,department,post_date\n" +
		"CL-1,Client CL-1,March reel,Video,2024-03-10\n" +
		"CL-1,Client CL-1,Bad date,Video,11/03/2024\n"
	withoutHeader := "CL-1,Client CL-1,March reel,Video,2024-03-10\n" +
		"CL-1,Client CL-1,Bad date,Video,11/03/2024\n"

	for _, input := range []string{withHeader, withoutHeader} {
		result, err := service.ImportTasks(ctx, strings.NewReader(input))
		if err != nil {
			t.Fatalf("expected no aggregate error, got %v", err)
		}
		if result.Imported != 1 {
			t.Errorf("expected 1 imported, got %d", result.Imported)
		}
		if len(result.RowErrors) != 1 {
			t.Fatalf("expected 1 row error, got %v", result.RowErrors)
		}
		if _, ok := result.RowErrors[2]; !ok {
			t.Errorf("expected the error keyed to data row 2, got %v", result.RowErrors)
		}
	}
}
