package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/stratdesk/internal/core/scope"
	"github.com/example/stratdesk/internal/core/stage"
	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/primary"
	"github.com/example/stratdesk/internal/ports/secondary"
	"github.com/example/stratdesk/internal/session"
)

// ClientServiceImpl implements the ClientService interface.
type ClientServiceImpl struct {
	clientRepo secondary.ClientRepository
	cycleRepo  secondary.CycleRepository
	notifRepo  secondary.NotificationRepository
	sess       *session.Context
}

// NewClientService creates a new ClientService with injected dependencies.
func NewClientService(
	clientRepo secondary.ClientRepository,
	cycleRepo secondary.CycleRepository,
	notifRepo secondary.NotificationRepository,
	sess *session.Context,
) *ClientServiceImpl {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		cycleRepo:  cycleRepo,
		notifRepo:  notifRepo,
		sess:       sess,
	}
}

func (s *ClientServiceImpl) preflight() error {
	if s.clientRepo == nil || s.cycleRepo == nil {
		return fault.ErrPersistenceUnavailable
	}
	return nil
}

// ListClients lists the clients visible to the session employee.
func (s *ClientServiceImpl) ListClients(ctx context.Context, filters primary.ClientFilters) ([]*primary.Client, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	records, err := s.clientRepo.List(ctx, secondary.ClientFilters{
		AssignedToEmployee: s.sess.Email,
		Stage:              filters.Stage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]*primary.Client, 0, len(records))
	for _, r := range records {
		if !scope.ClientVisible(scopeClient(r), s.sess.Email) {
			continue
		}
		clients = append(clients, recordToClient(r))
	}
	return clients, nil
}

// GetClient retrieves a visible client by key.
func (s *ClientServiceImpl) GetClient(ctx context.Context, key string) (*primary.Client, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	record, err := s.clientRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !scope.ClientVisible(scopeClient(record), s.sess.Email) {
		return nil, fmt.Errorf("%w: client %s", fault.ErrNotFound, key)
	}
	return recordToClient(record), nil
}

// CreateClient registers a client record.
func (s *ClientServiceImpl) CreateClient(ctx context.Context, req primary.CreateClientRequest) (*primary.Client, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", fault.ErrValidationFailed)
	}

	key := scope.NormalizeClientKey(req.ClientID, req.Name)
	record := &secondary.ClientRecord{
		Key:                key,
		ClientID:           req.ClientID,
		Name:               req.Name,
		AssignedToEmployee: req.AssignedToEmployee,
		Stage:              string(stage.InformationGathering),
	}
	if err := s.clientRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: create client: %v", fault.ErrWriteFailed, err)
	}

	created, err := s.clientRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created client: %w", err)
	}
	return recordToClient(created), nil
}

// AssignClient assigns a client to an employee by email.
func (s *ClientServiceImpl) AssignClient(ctx context.Context, key, email string) error {
	if err := s.preflight(); err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("%w: employee email is required", fault.ErrValidationFailed)
	}

	if _, err := s.clientRepo.GetByKey(ctx, key); err != nil {
		return err
	}
	if err := s.clientRepo.Assign(ctx, key, email); err != nil {
		return fmt.Errorf("%w: assign client: %v", fault.ErrWriteFailed, err)
	}
	return nil
}

// CompleteStage marks the client's current stage complete and advances the
// cycle. The write carries both the new stage and the completion stamp; a
// failed write leaves the client unchanged and the operation is retryable.
func (s *ClientServiceImpl) CompleteStage(ctx context.Context, key string) (*primary.StageResult, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	record, err := s.clientRepo.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, fault.ErrNotFound) {
		return nil, err
	}
	exists := err == nil

	guardCtx := stage.AdvanceContext{ClientKey: key, ClientExists: exists}
	if exists {
		guardCtx.Excluded = record.Status != ""
		guardCtx.Stage = stage.Stage(record.Stage)
	}
	if result := stage.CanCompleteStage(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	tr, err := stage.PlanComplete(stage.Stage(record.Stage))
	if err != nil {
		return nil, err
	}

	change := &secondary.StageChange{
		Key:            key,
		Stage:          string(tr.NextStage),
		CompletedStage: string(tr.CompletedStage),
		StampedAt:      now(),
	}
	if err := s.clientRepo.AdvanceStage(ctx, change); err != nil {
		return nil, fmt.Errorf("%w: advance stage: %v", fault.ErrWriteFailed, err)
	}

	return &primary.StageResult{
		Key:            key,
		Stage:          string(tr.NextStage),
		CompletedStage: string(tr.CompletedStage),
	}, nil
}

// ApproveCycle finishes the cycle: every task of the client is released to
// its production department and the client resets to the start of the cycle.
// The task batch and the client reset commit together.
func (s *ClientServiceImpl) ApproveCycle(ctx context.Context, key string) (*primary.CycleResult, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	record, err := s.clientRepo.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, fault.ErrNotFound) {
		return nil, err
	}
	exists := err == nil

	guardCtx := stage.AdvanceContext{ClientKey: key, ClientExists: exists}
	if exists {
		guardCtx.Excluded = record.Status != ""
		guardCtx.Stage = stage.Stage(record.Stage)
	}
	if result := stage.CanDecideCycle(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	released, err := s.cycleRepo.ApproveCycle(ctx, &secondary.ApproveCycleRequest{
		ClientKey:  key,
		ApprovedBy: s.sess.Email,
		StampedAt:  now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: approve cycle: %v", fault.ErrWriteFailed, err)
	}

	s.notify(ctx, record, primary.NotificationCycleApproved,
		fmt.Sprintf("Cycle approved for %s", record.Name),
		fmt.Sprintf("%d task(s) released to production", released))

	return &primary.CycleResult{Key: key, Approved: true, TasksReleased: released}, nil
}

// RejectCycle resets the client's cycle without touching tasks.
func (s *ClientServiceImpl) RejectCycle(ctx context.Context, key string) (*primary.CycleResult, error) {
	if err := s.preflight(); err != nil {
		return nil, err
	}

	record, err := s.clientRepo.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, fault.ErrNotFound) {
		return nil, err
	}
	exists := err == nil

	guardCtx := stage.AdvanceContext{ClientKey: key, ClientExists: exists}
	if exists {
		guardCtx.Excluded = record.Status != ""
		guardCtx.Stage = stage.Stage(record.Stage)
	}
	if result := stage.CanDecideCycle(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	if err := s.cycleRepo.RejectCycle(ctx, &secondary.RejectCycleRequest{
		ClientKey:  key,
		RejectedBy: s.sess.Email,
		StampedAt:  now(),
	}); err != nil {
		return nil, fmt.Errorf("%w: reject cycle: %v", fault.ErrWriteFailed, err)
	}

	s.notify(ctx, record, primary.NotificationCycleRejected,
		fmt.Sprintf("Cycle rejected for %s", record.Name),
		"The strategy cycle was rejected and reset")

	return &primary.CycleResult{Key: key, Approved: false}, nil
}

// notify appends a pipeline notification for the client's assigned employee.
// Notification delivery is best effort and never fails the transition.
func (s *ClientServiceImpl) notify(ctx context.Context, client *secondary.ClientRecord, kind, title, message string) {
	if s.notifRepo == nil || client.AssignedToEmployee == "" {
		return
	}
	_, _ = s.notifRepo.Append(ctx, &secondary.NotificationRecord{
		To:         client.AssignedToEmployee,
		Type:       kind,
		ClientName: client.Name,
		Title:      title,
		Message:    message,
		Priority:   "normal",
	})
}

func scopeClient(r *secondary.ClientRecord) scope.Client {
	return scope.Client{
		Key:                r.Key,
		AssignedToEmployee: r.AssignedToEmployee,
		Status:             r.Status,
	}
}

func recordToClient(r *secondary.ClientRecord) *primary.Client {
	completions := map[string]string{}
	if r.InfoGatheredAt != "" {
		completions[string(stage.InformationGathering)] = r.InfoGatheredAt
	}
	if r.StrategyPreparedAt != "" {
		completions[string(stage.StrategyPreparation)] = r.StrategyPreparedAt
	}
	if r.InternalApprovedAt != "" {
		completions[string(stage.InternalApproval)] = r.InternalApprovedAt
	}
	if r.ClientApprovedAt != "" {
		completions[string(stage.ClientApproval)] = r.ClientApprovedAt
	}

	return &primary.Client{
		Key:                r.Key,
		ClientID:           r.ClientID,
		Name:               r.Name,
		AssignedToEmployee: r.AssignedToEmployee,
		Stage:              string(stage.Normalize(stage.Stage(r.Stage))),
		StageCompletions:   completions,
		Status:             r.Status,
		LastUpdated:        r.LastUpdated,
		CompletedAt:        r.CompletedAt,
		RejectedAt:         r.RejectedAt,
		RejectedBy:         r.RejectedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// now returns the stamp used for transition timestamps.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Ensure ClientServiceImpl implements the interface
var _ primary.ClientService = (*ClientServiceImpl)(nil)
