package app

import (
	"context"
	"fmt"
	"io"

	"github.com/example/stratdesk/internal/core/scope"
	"github.com/example/stratdesk/internal/core/status"
	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/primary"
	"github.com/example/stratdesk/internal/ports/secondary"
	"github.com/example/stratdesk/internal/session"
)

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskRepo   secondary.TaskRepository
	clientRepo secondary.ClientRepository
	notifRepo  secondary.NotificationRepository
	sess       *session.Context
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(
	taskRepo secondary.TaskRepository,
	clientRepo secondary.ClientRepository,
	notifRepo secondary.NotificationRepository,
	sess *session.Context,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskRepo:   taskRepo,
		clientRepo: clientRepo,
		notifRepo:  notifRepo,
		sess:       sess,
	}
}

func (s *TaskServiceImpl) preflight() error {
	if s.taskRepo == nil || s.clientRepo == nil {
		return fault.ErrPersistenceUnavailable
	}
	return nil
}

// visibleClients returns the session employee's visible client set as a
// key set plus the ordered key list used for repository filters.
func (s *TaskServiceImpl) visibleClients(ctx context.Context) (map[string]bool, []string, error) {
	records, err := s.clientRepo.List(ctx, secondary.ClientFilters{
		AssignedToEmployee: s.sess.Email,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve client scope: %w", err)
	}

	set := make(map[string]bool, len(records))
	keys := make([]string, 0, len(records))
	for _, r := range records {
		if scope.ClientVisible(scopeClient(r), s.sess.Email) {
			set[r.Key] = true
			keys = append(keys, r.Key)
		}
	}
	return set, keys, nil
}

// getVisibleTask fetches a task and enforces the transitive client scope.
func (s *TaskServiceImpl) getVisibleTask(ctx context.Context, key string) (*secondary.TaskRecord, error) {
	record, err := s.taskRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	visible, _, err := s.visibleClients(ctx)
	if err != nil {
		return nil, err
	}
	if !scope.TaskVisible(scopeTask(record), visible) {
		return nil, fmt.Errorf("%w: task %s", fault.ErrNotFound, key)
	}
	return record, nil
}

// CreateTask assigns a new content-production task to a client. The
// deadline is derived from the post date here and only recomputed when an
// edit changes the post date.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.CreateTaskResponse, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: task name is required", fault.ErrValidationFailed)
	}
	if req.PostDate == "" {
		return nil, fmt.Errorf("%w: post date is required", fault.ErrValidationFailed)
	}

	client, err := s.clientRepo.GetByKey(ctx, req.ClientKey)
	if err != nil {
		return nil, err
	}
	if !scope.ClientVisible(scopeClient(client), s.sess.Email) {
		return nil, fmt.Errorf("%w: client %s", fault.ErrNotFound, req.ClientKey)
	}

	deadline, err := status.DeadlineFor(req.PostDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrParseFailed, err)
	}

	key, err := s.taskRepo.NextKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate task key: %w", err)
	}

	record := &secondary.TaskRecord{
		Key:        key,
		ClientKey:  client.Key,
		ClientID:   client.ClientID,
		ClientName: client.Name,
		Name:       req.Name,
		Department: req.Department,
		Status:     string(status.PendingProduction),
		PostDate:   req.PostDate,
		Deadline:   deadline,
		CreatedBy:  fmt.Sprintf("%s / %s", scope.DepartmentMarker, s.sess.Email),
	}
	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: create task: %v", fault.ErrWriteFailed, err)
	}

	created, err := s.taskRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created task: %w", err)
	}

	return &primary.CreateTaskResponse{
		TaskKey: created.Key,
		Task:    recordToTask(created),
	}, nil
}

// GetTask retrieves a visible task by key.
func (s *TaskServiceImpl) GetTask(ctx context.Context, key string) (*primary.Task, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	record, err := s.getVisibleTask(ctx, key)
	if err != nil {
		return nil, err
	}
	return recordToTask(record), nil
}

// ListTasks lists visible tasks with optional filters.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	visible, keys, err := s.visibleClients(ctx)
	if err != nil {
		return nil, err
	}
	if filters.ClientKey != "" {
		if !visible[filters.ClientKey] {
			return nil, nil
		}
		keys = []string{filters.ClientKey}
	}

	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{
		ClientKeys: keys,
		Status:     filters.Status,
		Month:      filters.Month,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*primary.Task, 0, len(records))
	for _, r := range records {
		if !scope.TaskVisible(scopeTask(r), visible) {
			continue
		}
		tasks = append(tasks, recordToTask(r))
	}
	return tasks, nil
}

// EditTask updates a task's name, department and/or post date. Changing the
// post date recomputes the deadline in the same update.
func (s *TaskServiceImpl) EditTask(ctx context.Context, req primary.EditTaskRequest) error {
	if err := s.preflight(); err != nil {
		return err
	}

	record, err := s.getVisibleTask(ctx, req.TaskKey)
	if err != nil {
		return err
	}

	update := &secondary.TaskRecord{
		Key:        req.TaskKey,
		Name:       req.Name,
		Department: req.Department,
	}
	if req.PostDate != "" && req.PostDate != record.PostDate {
		deadline, err := status.DeadlineFor(req.PostDate)
		if err != nil {
			return fmt.Errorf("%w: %v", fault.ErrParseFailed, err)
		}
		update.PostDate = req.PostDate
		update.Deadline = deadline
	}

	if err := s.taskRepo.Update(ctx, update); err != nil {
		return fmt.Errorf("%w: update task: %v", fault.ErrWriteFailed, err)
	}
	return nil
}

// SetStatus moves a task to a target status. Approval fuses with department
// assignment: requesting "approved" stores "assigned-to-department" in the
// same update.
func (s *TaskServiceImpl) SetStatus(ctx context.Context, key, target string) (*primary.StatusResult, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	record, err := s.getVisibleTask(ctx, key)
	if err != nil {
		return nil, err
	}

	change, err := status.Apply(status.Status(target))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrValidationFailed, err)
	}

	stamp := now()
	stored := &secondary.StatusChange{
		Key:    key,
		Status: string(change.Status),
	}
	if change.StampApproved {
		stored.ApprovedAt = stamp
		stored.ApprovedBy = s.sess.Email
		stored.ApprovedForCalendar = true
	}
	if change.StampAssigned {
		stored.AssignedToDepartmentAt = stamp
		stored.AssignedBy = s.sess.Email
		stored.AssignedToDept = record.Department
	}
	if change.StampStarted {
		stored.StartedAt = stamp
	}
	if change.StampPosted {
		stored.PostedAt = stamp
	}
	if change.StampLastUpdated {
		stored.LastUpdated = stamp
	}

	if err := s.taskRepo.ApplyStatus(ctx, stored); err != nil {
		return nil, fmt.Errorf("%w: set status: %v", fault.ErrWriteFailed, err)
	}

	return &primary.StatusResult{TaskKey: key, Stored: string(change.Status)}, nil
}

// ReworkTask sends a task back to information-gathering with a feedback
// note. An empty note is refused before any write is attempted.
func (s *TaskServiceImpl) ReworkTask(ctx context.Context, key, note string) error {
	if err := s.preflight(); err != nil {
		return err
	}

	if result := status.CanRework(status.ReworkContext{TaskKey: key, Note: note}); !result.Allowed {
		return fmt.Errorf("%w: %s", fault.ErrValidationFailed, result.Reason)
	}

	record, err := s.getVisibleTask(ctx, key)
	if err != nil {
		return err
	}

	if err := s.taskRepo.SetRework(ctx, &secondary.ReworkChange{
		Key:        key,
		Status:     string(status.InformationGathering),
		Note:       note,
		ReworkedBy: s.sess.Email,
		ReworkedAt: now(),
	}); err != nil {
		return fmt.Errorf("%w: rework task: %v", fault.ErrWriteFailed, err)
	}

	if s.notifRepo != nil {
		_, _ = s.notifRepo.Append(ctx, &secondary.NotificationRecord{
			To:         s.sess.Email,
			Type:       primary.NotificationTaskRework,
			ClientName: record.ClientName,
			Title:      fmt.Sprintf("Rework requested: %s", record.Name),
			Message:    note,
			Priority:   "high",
		})
	}
	return nil
}

// DeleteTask soft-deletes a task. The record stays in storage and is
// excluded from every listing.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, key string) error {
	if err := s.preflight(); err != nil {
		return err
	}

	if _, err := s.getVisibleTask(ctx, key); err != nil {
		return err
	}
	if err := s.taskRepo.SoftDelete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete task: %v", fault.ErrWriteFailed, err)
	}
	return nil
}

// SendToCalendar sends every eligible approved task of the selected
// reporting month to the production calendar. Outcomes are tracked per
// task; an empty selection is a reported no-op, not an error.
func (s *TaskServiceImpl) SendToCalendar(ctx context.Context, month string) (*primary.CalendarSendResult, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}
	if !status.ValidMonth(month) {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", fault.ErrValidationFailed)
	}

	visible, keys, err := s.visibleClients(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{
		ClientKeys: keys,
		Month:      month,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := &primary.CalendarSendResult{Month: month, Failed: map[string]string{}}
	for _, r := range records {
		if !scope.TaskVisible(scopeTask(r), visible) {
			continue
		}
		eligible := status.EligibleForCalendar(status.CalendarContext{
			Status:              status.Status(r.Status),
			ApprovedForCalendar: r.ApprovedForCalendar,
			AddedToCalendar:     r.AddedToCalendar,
			PostDate:            r.PostDate,
			Month:               month,
			Deleted:             r.Deleted,
		})
		if !eligible {
			continue
		}
		if err := s.taskRepo.MarkSentToCalendar(ctx, r.Key, now()); err != nil {
			result.Failed[r.Key] = err.Error()
			continue
		}
		result.Sent = append(result.Sent, r.Key)
	}

	result.NoOp = len(result.Sent) == 0 && len(result.Failed) == 0
	return result, nil
}

// ImportTasks bulk-imports tasks from a spreadsheet export. See importer.go.
func (s *TaskServiceImpl) ImportTasks(ctx context.Context, r io.Reader) (*primary.ImportResult, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}
	return s.importTasks(ctx, r)
}

func scopeTask(r *secondary.TaskRecord) scope.Task {
	return scope.Task{
		ClientKey:      r.ClientKey,
		Deleted:        r.Deleted,
		SentToStrategy: r.SentToStrategy,
		CreatedBy:      r.CreatedBy,
	}
}

func recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		Key:                    r.Key,
		ClientKey:              r.ClientKey,
		ClientName:             r.ClientName,
		Name:                   r.Name,
		Department:             r.Department,
		Status:                 r.Status,
		PostDate:               r.PostDate,
		Deadline:               r.Deadline,
		ReworkNote:             r.ReworkNote,
		ReworkedAt:             r.ReworkedAt,
		ReworkedBy:             r.ReworkedBy,
		SentToStrategy:         r.SentToStrategy,
		CreatedBy:              r.CreatedBy,
		ApprovedAt:             r.ApprovedAt,
		ApprovedBy:             r.ApprovedBy,
		ApprovedForCalendar:    r.ApprovedForCalendar,
		AssignedToDepartmentAt: r.AssignedToDepartmentAt,
		AssignedToDept:         r.AssignedToDept,
		StartedAt:              r.StartedAt,
		PostedAt:               r.PostedAt,
		AddedToCalendar:        r.AddedToCalendar,
		SentToProductionAt:     r.SentToProductionAt,
		LastUpdated:            r.LastUpdated,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
