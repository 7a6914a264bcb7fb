package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/stratdesk/internal/core/stage"
	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/secondary"
	"github.com/example/stratdesk/internal/session"
)

// Ensure the mocks implement their interfaces
var (
	_ secondary.ClientRepository       = (*mockClientRepository)(nil)
	_ secondary.CycleRepository        = (*mockCycleRepository)(nil)
	_ secondary.TaskRepository         = (*mockTaskRepository)(nil)
	_ secondary.NotificationRepository = (*mockNotificationRepository)(nil)
)

// ============================================================================
// Client repository mock
// ============================================================================

type mockClientRepository struct {
	clients   map[string]*secondary.ClientRecord
	createErr error
	getErr    error
	listErr   error
	assignErr error
	stageErr  error
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: make(map[string]*secondary.ClientRecord)}
}

func (m *mockClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *client
	m.clients[client.Key] = &c
	return nil
}

func (m *mockClientRepository) GetByKey(ctx context.Context, key string) (*secondary.ClientRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.clients[key]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: client %s", fault.ErrNotFound, key)
}

func (m *mockClientRepository) FindByIdentity(ctx context.Context, clientID, clientName string) (*secondary.ClientRecord, error) {
	for _, c := range m.clients {
		if clientID != "" && c.ClientID == clientID {
			copied := *c
			return &copied, nil
		}
	}
	for _, c := range m.clients {
		if clientName != "" && c.Name == clientName {
			copied := *c
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: client", fault.ErrNotFound)
}

func (m *mockClientRepository) List(ctx context.Context, filters secondary.ClientFilters) ([]*secondary.ClientRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var keys []string
	for k := range m.clients {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result []*secondary.ClientRecord
	for _, k := range keys {
		c := m.clients[k]
		if filters.AssignedToEmployee != "" && c.AssignedToEmployee != filters.AssignedToEmployee {
			continue
		}
		if filters.Stage != "" && c.Stage != filters.Stage {
			continue
		}
		if !filters.IncludeExcluded && c.Status != "" {
			continue
		}
		copied := *c
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockClientRepository) Assign(ctx context.Context, key, email string) error {
	if m.assignErr != nil {
		return m.assignErr
	}
	if c, ok := m.clients[key]; ok {
		c.AssignedToEmployee = email
	}
	return nil
}

func (m *mockClientRepository) AdvanceStage(ctx context.Context, change *secondary.StageChange) error {
	if m.stageErr != nil {
		return m.stageErr
	}
	c, ok := m.clients[change.Key]
	if !ok {
		return fmt.Errorf("%w: client", fault.ErrNotFound)
	}
	c.Stage = change.Stage
	// Completion stamps are written once per cycle.
	switch stage.Stage(change.CompletedStage) {
	case stage.InformationGathering:
		if c.InfoGatheredAt == "" {
			c.InfoGatheredAt = change.StampedAt
		}
	case stage.StrategyPreparation:
		if c.StrategyPreparedAt == "" {
			c.StrategyPreparedAt = change.StampedAt
		}
	case stage.InternalApproval:
		if c.InternalApprovedAt == "" {
			c.InternalApprovedAt = change.StampedAt
		}
	case stage.ClientApproval:
		if c.ClientApprovedAt == "" {
			c.ClientApprovedAt = change.StampedAt
		}
	}
	c.LastUpdated = change.StampedAt
	return nil
}

func (m *mockClientRepository) SetExclusion(ctx context.Context, key, status string) error {
	if c, ok := m.clients[key]; ok {
		c.Status = status
	}
	return nil
}

// ============================================================================
// Cycle repository mock (applies the transactional batch in memory)
// ============================================================================

type mockCycleRepository struct {
	clients    *mockClientRepository
	tasks      *mockTaskRepository
	approveErr error
	rejectErr  error
}

func newMockCycleRepository(clients *mockClientRepository, tasks *mockTaskRepository) *mockCycleRepository {
	return &mockCycleRepository{clients: clients, tasks: tasks}
}

func (m *mockCycleRepository) resetClient(key, stampedAt string) error {
	c, ok := m.clients.clients[key]
	if !ok {
		return fmt.Errorf("%w: client", fault.ErrNotFound)
	}
	c.Stage = string(stage.InformationGathering)
	c.InfoGatheredAt = ""
	c.StrategyPreparedAt = ""
	c.InternalApprovedAt = ""
	c.ClientApprovedAt = ""
	c.LastUpdated = stampedAt
	return nil
}

func (m *mockCycleRepository) ApproveCycle(ctx context.Context, req *secondary.ApproveCycleRequest) (int, error) {
	if m.approveErr != nil {
		return 0, m.approveErr
	}
	released := 0
	for _, t := range m.tasks.tasks {
		if t.ClientKey != req.ClientKey || t.Deleted {
			continue
		}
		t.Status = "assigned-to-department"
		t.ApprovedAt = req.StampedAt
		t.ApprovedBy = req.ApprovedBy
		t.ApprovedForCalendar = true
		t.AssignedToDepartmentAt = req.StampedAt
		t.AssignedBy = req.ApprovedBy
		t.AssignedToDept = t.Department
		released++
	}
	if err := m.resetClient(req.ClientKey, req.StampedAt); err != nil {
		return 0, err
	}
	m.clients.clients[req.ClientKey].CompletedAt = req.StampedAt
	return released, nil
}

func (m *mockCycleRepository) RejectCycle(ctx context.Context, req *secondary.RejectCycleRequest) error {
	if m.rejectErr != nil {
		return m.rejectErr
	}
	if err := m.resetClient(req.ClientKey, req.StampedAt); err != nil {
		return err
	}
	c := m.clients.clients[req.ClientKey]
	c.RejectedAt = req.StampedAt
	c.RejectedBy = req.RejectedBy
	return nil
}

// ============================================================================
// Task repository mock
// ============================================================================

type mockTaskRepository struct {
	tasks     map[string]*secondary.TaskRecord
	nextKey   int
	createErr error
	getErr    error
	listErr   error
	updateErr error
	statusErr error
	reworkErr error
	sendErr   map[string]error // per-task calendar-send failures
	deleteErr error
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:   make(map[string]*secondary.TaskRecord),
		sendErr: make(map[string]error),
	}
}

func (m *mockTaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	t := *task
	m.tasks[task.Key] = &t
	return nil
}

func (m *mockTaskRepository) GetByKey(ctx context.Context, key string) (*secondary.TaskRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if t, ok := m.tasks[key]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: task %s", fault.ErrNotFound, key)
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	allowed := map[string]bool{}
	for _, k := range filters.ClientKeys {
		allowed[k] = true
	}

	var keys []string
	for k := range m.tasks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result []*secondary.TaskRecord
	for _, k := range keys {
		t := m.tasks[k]
		if !filters.IncludeDeleted && t.Deleted {
			continue
		}
		if filters.ClientKeys != nil && !allowed[t.ClientKey] {
			continue
		}
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.Month != "" && !strings.HasPrefix(t.PostDate, filters.Month) {
			continue
		}
		copied := *t
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.tasks[task.Key]
	if !ok {
		return fmt.Errorf("%w: task", fault.ErrNotFound)
	}
	if task.Name != "" {
		existing.Name = task.Name
	}
	if task.Department != "" {
		existing.Department = task.Department
	}
	if task.PostDate != "" {
		existing.PostDate = task.PostDate
		existing.Deadline = task.Deadline
	}
	return nil
}

func (m *mockTaskRepository) ApplyStatus(ctx context.Context, change *secondary.StatusChange) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	t, ok := m.tasks[change.Key]
	if !ok {
		return fmt.Errorf("%w: task", fault.ErrNotFound)
	}
	t.Status = change.Status
	if change.ApprovedAt != "" {
		t.ApprovedAt = change.ApprovedAt
		t.ApprovedBy = change.ApprovedBy
		t.ApprovedForCalendar = change.ApprovedForCalendar
	}
	if change.AssignedToDepartmentAt != "" {
		t.AssignedToDepartmentAt = change.AssignedToDepartmentAt
		t.AssignedBy = change.AssignedBy
		t.AssignedToDept = change.AssignedToDept
	}
	if change.StartedAt != "" {
		t.StartedAt = change.StartedAt
	}
	if change.PostedAt != "" {
		t.PostedAt = change.PostedAt
	}
	if change.LastUpdated != "" {
		t.LastUpdated = change.LastUpdated
	}
	return nil
}

func (m *mockTaskRepository) SetRework(ctx context.Context, rework *secondary.ReworkChange) error {
	if m.reworkErr != nil {
		return m.reworkErr
	}
	t, ok := m.tasks[rework.Key]
	if !ok {
		return fmt.Errorf("%w: task", fault.ErrNotFound)
	}
	t.Status = rework.Status
	t.ReworkNote = rework.Note
	t.ReworkedBy = rework.ReworkedBy
	t.ReworkedAt = rework.ReworkedAt
	return nil
}

func (m *mockTaskRepository) MarkSentToCalendar(ctx context.Context, key, stampedAt string) error {
	if err := m.sendErr[key]; err != nil {
		return err
	}
	t, ok := m.tasks[key]
	if !ok {
		return fmt.Errorf("%w: task", fault.ErrNotFound)
	}
	t.AddedToCalendar = true
	t.SentToProductionAt = stampedAt
	return nil
}

func (m *mockTaskRepository) SoftDelete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	t, ok := m.tasks[key]
	if !ok {
		return fmt.Errorf("%w: task", fault.ErrNotFound)
	}
	t.Deleted = true
	return nil
}

func (m *mockTaskRepository) NextKey(ctx context.Context) (string, error) {
	m.nextKey++
	return fmt.Sprintf("task-%03d", m.nextKey), nil
}

// ============================================================================
// Notification repository mock
// ============================================================================

type mockNotificationRepository struct {
	notifications []*secondary.NotificationRecord
	appendErr     error
	markReadErr   error
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{}
}

func (m *mockNotificationRepository) Append(ctx context.Context, n *secondary.NotificationRecord) (string, error) {
	if m.appendErr != nil {
		return "", m.appendErr
	}
	copied := *n
	copied.Key = fmt.Sprintf("notif-%03d", len(m.notifications)+1)
	m.notifications = append(m.notifications, &copied)
	return copied.Key, nil
}

func (m *mockNotificationRepository) ListByRecipient(ctx context.Context, to string) ([]*secondary.NotificationRecord, error) {
	var result []*secondary.NotificationRecord
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].To == to {
			copied := *m.notifications[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, key, readAt string) error {
	if m.markReadErr != nil {
		return m.markReadErr
	}
	for _, n := range m.notifications {
		if n.Key == key {
			n.Read = true
			n.ReadAt = readAt
			return nil
		}
	}
	return fmt.Errorf("%w: notification %s", fault.ErrNotFound, key)
}

// ============================================================================
// Test fixtures
// ============================================================================

const testEmail = "dana@x.com"

func testSession() *session.Context {
	return &session.Context{
		Name:       "Dana",
		Email:      testEmail,
		Department: "Strategy Department",
		Role:       "strategist",
	}
}

func seedClient(repo *mockClientRepository, key, email, stageName string) {
	repo.clients[key] = &secondary.ClientRecord{
		Key:                key,
		ClientID:           key,
		Name:               "Client " + key,
		AssignedToEmployee: email,
		Stage:              stageName,
	}
}

func seedTask(repo *mockTaskRepository, key, clientKey, taskStatus string) *secondary.TaskRecord {
	t := &secondary.TaskRecord{
		Key:            key,
		ClientKey:      clientKey,
		ClientName:     "Client " + clientKey,
		Name:           "Task " + key,
		Department:     "Video",
		Status:         taskStatus,
		PostDate:       "2024-03-10",
		Deadline:       "2024-03-08",
		SentToStrategy: true,
		CreatedBy:      "Production",
	}
	repo.tasks[key] = t
	return t
}
