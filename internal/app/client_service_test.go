package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/stratdesk/internal/core/stage"
	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/primary"
)

func newTestClientService() (*ClientServiceImpl, *mockClientRepository, *mockTaskRepository, *mockNotificationRepository) {
	clientRepo := newMockClientRepository()
	taskRepo := newMockTaskRepository()
	notifRepo := newMockNotificationRepository()
	cycleRepo := newMockCycleRepository(clientRepo, taskRepo)
	service := NewClientService(clientRepo, cycleRepo, notifRepo, testSession())
	return service, clientRepo, taskRepo, notifRepo
}

// ============================================================================
// Listing and visibility
// ============================================================================

func TestListClients_ScopedToSessionEmployee(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))
	seedClient(clientRepo, "CL-2", "b@x.com", string(stage.InformationGathering))

	clients, err := service.ListClients(ctx, primary.ClientFilters{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("expected exactly 1 visible client, got %d", len(clients))
	}
	if clients[0].Key != "CL-1" {
		t.Errorf("expected CL-1, got %s", clients[0].Key)
	}
}

func TestListClients_ExcludesInactiveAndDisabled(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))
	seedClient(clientRepo, "CL-2", testEmail, string(stage.InformationGathering))
	clientRepo.clients["CL-2"].Status = "inactive"
	seedClient(clientRepo, "CL-3", testEmail, string(stage.InformationGathering))
	clientRepo.clients["CL-3"].Status = "disabled"

	clients, err := service.ListClients(ctx, primary.ClientFilters{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(clients) != 1 || clients[0].Key != "CL-1" {
		t.Errorf("expected only CL-1 visible, got %d clients", len(clients))
	}
}

func TestGetClient_OtherEmployeesClientHidden(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-2", "b@x.com", string(stage.InformationGathering))

	if _, err := service.GetClient(ctx, "CL-2"); err == nil {
		t.Fatal("expected error for another employee's client, got nil")
	}
}

// ============================================================================
// CreateClient
// ============================================================================

func TestCreateClient_NormalizesKey(t *testing.T) {
	service, _, _, _ := newTestClientService()
	ctx := context.Background()

	created, err := service.CreateClient(ctx, primary.CreateClientRequest{
		Name:               "Acme",
		AssignedToEmployee: testEmail,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Key != "Acme" {
		t.Errorf("expected name-backfilled key Acme, got %s", created.Key)
	}
	if created.Stage != string(stage.InformationGathering) {
		t.Errorf("expected default stage, got %s", created.Stage)
	}
}

func TestCreateClient_EmptyNameRejected(t *testing.T) {
	service, _, _, _ := newTestClientService()
	ctx := context.Background()

	_, err := service.CreateClient(ctx, primary.CreateClientRequest{})
	if !errors.Is(err, fault.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

// ============================================================================
// CompleteStage
// ============================================================================

func TestCompleteStage_AdvancesAndStamps(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))

	result, err := service.CompleteStage(ctx, "CL-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Stage != string(stage.StrategyPreparation) {
		t.Errorf("expected stage %s, got %s", stage.StrategyPreparation, result.Stage)
	}
	if result.CompletedStage != string(stage.InformationGathering) {
		t.Errorf("expected completed stage %s, got %s", stage.InformationGathering, result.CompletedStage)
	}

	stored := clientRepo.clients["CL-1"]
	if stored.InfoGatheredAt == "" {
		t.Error("expected completion stamp to be written")
	}
	if stored.LastUpdated == "" {
		t.Error("expected lastUpdated to be stamped")
	}
}

func TestCompleteStage_RefusedAtClientApproval(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.ClientApproval))

	if _, err := service.CompleteStage(ctx, "CL-1"); err == nil {
		t.Fatal("expected error at client-approval, got nil")
	}
}

func TestCompleteStage_WriteFailureLeavesClientUnchanged(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.InformationGathering))
	clientRepo.stageErr = errors.New("connection reset")

	_, err := service.CompleteStage(ctx, "CL-1")
	if !errors.Is(err, fault.ErrWriteFailed) {
		t.Fatalf("expected write failure, got %v", err)
	}

	stored := clientRepo.clients["CL-1"]
	if stored.Stage != string(stage.InformationGathering) || stored.InfoGatheredAt != "" {
		t.Error("failed write must leave the client unchanged")
	}

	// The transition is retryable once the store recovers.
	clientRepo.stageErr = nil
	if _, err := service.CompleteStage(ctx, "CL-1"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

// ============================================================================
// ApproveCycle / RejectCycle
// ============================================================================

func approvalReadyClient(clientRepo *mockClientRepository, key string) {
	seedClient(clientRepo, key, testEmail, string(stage.ClientApproval))
	c := clientRepo.clients[key]
	c.InfoGatheredAt = "2024-03-01T10:00:00Z"
	c.StrategyPreparedAt = "2024-03-02T10:00:00Z"
	c.InternalApprovedAt = "2024-03-03T10:00:00Z"
}

func TestApproveCycle_ReleasesTasksAndResetsClient(t *testing.T) {
	service, clientRepo, taskRepo, _ := newTestClientService()
	ctx := context.Background()

	approvalReadyClient(clientRepo, "CL-1")
	seedTask(taskRepo, "T-1", "CL-1", "client-approval")
	seedTask(taskRepo, "T-2", "CL-1", "internal-approval")
	seedTask(taskRepo, "T-3", "CL-2", "pending-production")

	result, err := service.ApproveCycle(ctx, "CL-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.TasksReleased != 2 {
		t.Errorf("expected 2 released tasks, got %d", result.TasksReleased)
	}

	for _, key := range []string{"T-1", "T-2"} {
		task := taskRepo.tasks[key]
		if task.Status != "assigned-to-department" {
			t.Errorf("task %s: expected assigned-to-department, got %s", key, task.Status)
		}
		if task.AssignedToDept != task.Department {
			t.Errorf("task %s: expected department copy, got %s", key, task.AssignedToDept)
		}
		if task.ApprovedAt == "" || task.AssignedToDepartmentAt == "" {
			t.Errorf("task %s: expected release stamps", key)
		}
	}
	if taskRepo.tasks["T-3"].Status != "pending-production" {
		t.Error("other clients' tasks must not be touched")
	}

	client := clientRepo.clients["CL-1"]
	if client.Stage != string(stage.InformationGathering) {
		t.Errorf("expected client reset to %s, got %s", stage.InformationGathering, client.Stage)
	}
	if client.InfoGatheredAt != "" || client.StrategyPreparedAt != "" || client.InternalApprovedAt != "" || client.ClientApprovedAt != "" {
		t.Error("expected all completion stamps cleared")
	}
	if client.CompletedAt == "" {
		t.Error("expected completedAt stamp")
	}
}

func TestApproveCycle_RefusedMidCycle(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.StrategyPreparation))

	if _, err := service.ApproveCycle(ctx, "CL-1"); err == nil {
		t.Fatal("expected error approving mid-cycle, got nil")
	}
}

func TestApproveCycle_NotifiesAssignedEmployee(t *testing.T) {
	service, clientRepo, taskRepo, notifRepo := newTestClientService()
	ctx := context.Background()

	approvalReadyClient(clientRepo, "CL-1")
	seedTask(taskRepo, "T-1", "CL-1", "client-approval")

	if _, err := service.ApproveCycle(ctx, "CL-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(notifRepo.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifRepo.notifications))
	}
	n := notifRepo.notifications[0]
	if n.To != testEmail || n.Type != primary.NotificationCycleApproved {
		t.Errorf("unexpected notification %+v", n)
	}
}

func TestRejectCycle_ResetsWithoutTaskEffect(t *testing.T) {
	service, clientRepo, taskRepo, _ := newTestClientService()
	ctx := context.Background()

	approvalReadyClient(clientRepo, "CL-1")
	seedTask(taskRepo, "T-1", "CL-1", "client-approval")

	result, err := service.RejectCycle(ctx, "CL-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Approved {
		t.Error("expected reject outcome")
	}

	client := clientRepo.clients["CL-1"]
	if client.Stage != string(stage.InformationGathering) {
		t.Errorf("expected reset, got stage %s", client.Stage)
	}
	if client.InfoGatheredAt != "" || client.StrategyPreparedAt != "" || client.InternalApprovedAt != "" {
		t.Error("expected all completion stamps cleared")
	}
	if client.RejectedAt == "" || client.RejectedBy != testEmail {
		t.Error("expected rejection stamps")
	}
	if taskRepo.tasks["T-1"].Status != "client-approval" {
		t.Error("reject must not touch tasks")
	}
}

func TestClientService_StoreFailureNotMaskedAsMissing(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-1", testEmail, string(stage.ClientApproval))
	clientRepo.getErr = errors.New("disk I/O error")

	if _, err := service.CompleteStage(ctx, "CL-1"); err == nil {
		t.Fatal("expected error, got nil")
	} else if errors.Is(err, fault.ErrNotFound) || !strings.Contains(err.Error(), "disk I/O error") {
		t.Errorf("store failure must surface as-is, got %v", err)
	}

	if _, err := service.ApproveCycle(ctx, "CL-1"); err == nil {
		t.Fatal("expected error, got nil")
	} else if errors.Is(err, fault.ErrNotFound) {
		t.Errorf("store failure must not read as a missing client, got %v", err)
	}

	if _, err := service.RejectCycle(ctx, "CL-1"); err == nil {
		t.Fatal("expected error, got nil")
	} else if errors.Is(err, fault.ErrNotFound) {
		t.Errorf("store failure must not read as a missing client, got %v", err)
	}
}

func TestGetClient_HiddenClientIsNotFound(t *testing.T) {
	service, clientRepo, _, _ := newTestClientService()
	ctx := context.Background()

	seedClient(clientRepo, "CL-2", "b@x.com", string(stage.InformationGathering))

	_, err := service.GetClient(ctx, "CL-2")
	if !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

// ============================================================================
// Preflight
// ============================================================================

func TestClientService_PersistenceUnavailable(t *testing.T) {
	service := NewClientService(nil, nil, nil, testSession())
	ctx := context.Background()

	_, err := service.ListClients(ctx, primary.ClientFilters{})
	if !errors.Is(err, fault.ErrPersistenceUnavailable) {
		t.Fatalf("expected persistence unavailable, got %v", err)
	}
	if _, err := service.ApproveCycle(ctx, "CL-1"); !errors.Is(err, fault.ErrPersistenceUnavailable) {
		t.Fatalf("expected persistence unavailable, got %v", err)
	}
}
