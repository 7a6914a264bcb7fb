// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// the persistence gateway.
package secondary

import "context"

// ClientRepository defines the secondary port for client persistence.
type ClientRepository interface {
	// Create persists a new client.
	Create(ctx context.Context, client *ClientRecord) error

	// GetByKey retrieves a client by its canonical key.
	GetByKey(ctx context.Context, key string) (*ClientRecord, error)

	// FindByIdentity resolves a client by external clientId first, then by
	// name. Used once at ingestion to normalize task foreign keys.
	FindByIdentity(ctx context.Context, clientID, clientName string) (*ClientRecord, error)

	// List retrieves clients matching the given filters.
	List(ctx context.Context, filters ClientFilters) ([]*ClientRecord, error)

	// Assign sets the employee a client is assigned to.
	Assign(ctx context.Context, key, email string) error

	// AdvanceStage stores a mid-cycle stage transition: the new stage, the
	// completion stamp for the finished stage, and lastUpdated. Re-applying
	// the same transition does not overwrite an existing stamp.
	AdvanceStage(ctx context.Context, change *StageChange) error

	// SetExclusion sets or clears the client's exclusion status.
	SetExclusion(ctx context.Context, key, status string) error
}

// ClientRecord represents a client as stored in persistence.
// Timestamps are RFC 3339 strings; empty string means null.
type ClientRecord struct {
	Key                string // canonical key (clientId, backfilled from name at ingestion)
	ClientID           string // externally assigned, may be empty on historical records
	Name               string // secondary join key for historical data
	AssignedToEmployee string
	Stage              string
	// Stage completion stamps for the current cycle.
	InfoGatheredAt     string
	StrategyPreparedAt string
	InternalApprovedAt string
	ClientApprovedAt   string
	Status             string // "", "inactive" or "disabled"
	LastUpdated        string
	CompletedAt        string // last full-cycle approval
	RejectedAt         string
	RejectedBy         string
	CreatedAt          string
	UpdatedAt          string
}

// ClientFilters contains filter options for querying clients.
type ClientFilters struct {
	AssignedToEmployee string
	Stage              string
	// IncludeExcluded also returns inactive/disabled clients.
	IncludeExcluded bool
}

// StageChange is the stored effect of a mid-cycle stage completion.
type StageChange struct {
	Key            string
	Stage          string // new stage
	CompletedStage string // stage whose completion stamp is set
	StampedAt      string // RFC 3339
}

// CycleRepository defines the secondary port for cycle decisions. Both
// operations run the task batch and the client reset in one transaction: a
// partial failure never leaves released tasks behind an unreset client.
type CycleRepository interface {
	// ApproveCycle releases every non-deleted task of the client to its
	// production department and resets the client's cycle. Returns the
	// number of released tasks.
	ApproveCycle(ctx context.Context, req *ApproveCycleRequest) (int, error)

	// RejectCycle resets the client's cycle without touching tasks.
	RejectCycle(ctx context.Context, req *RejectCycleRequest) error
}

// ApproveCycleRequest carries the stamps for a cycle approval.
type ApproveCycleRequest struct {
	ClientKey  string
	ApprovedBy string
	StampedAt  string // RFC 3339
}

// RejectCycleRequest carries the stamps for a cycle rejection.
type RejectCycleRequest struct {
	ClientKey  string
	RejectedBy string
	StampedAt  string // RFC 3339
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByKey retrieves a task by its generated key.
	GetByKey(ctx context.Context, key string) (*TaskRecord, error)

	// List retrieves non-deleted tasks matching the given filters.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// Update updates a task's name, department, post date and deadline.
	// Empty fields are left unchanged; PostDate and Deadline change together.
	Update(ctx context.Context, task *TaskRecord) error

	// ApplyStatus stores a status change with its stamps.
	ApplyStatus(ctx context.Context, change *StatusChange) error

	// SetRework stores a rework cycle: status back to information-gathering
	// plus the rework note and stamps.
	SetRework(ctx context.Context, rework *ReworkChange) error

	// MarkSentToCalendar stamps addedToCalendar and sentToProductionAt.
	MarkSentToCalendar(ctx context.Context, key, stampedAt string) error

	// SoftDelete flags a task as deleted. Deleted tasks stay in storage.
	SoftDelete(ctx context.Context, key string) error

	// NextKey returns a generated key for a new task.
	NextKey(ctx context.Context) (string, error)
}

// TaskRecord represents a task as stored in persistence.
// Timestamps are RFC 3339 strings; dates are YYYY-MM-DD; empty means null.
type TaskRecord struct {
	Key        string // generated by the persistence layer
	ClientKey  string // canonical FK, normalized at ingestion
	ClientID   string // raw imported value, kept for provenance
	ClientName string
	Name       string
	Department string
	Status     string
	PostDate   string
	Deadline   string
	// Rework fields, present only when a rework cycle has occurred.
	ReworkNote string
	ReworkedAt string
	ReworkedBy string
	Deleted    bool
	// Provenance: handed over from production, or created directly here.
	SentToStrategy bool
	CreatedBy      string
	// Approval / release stamps.
	ApprovedAt             string
	ApprovedBy             string
	ApprovedForCalendar    bool
	AssignedToDepartmentAt string
	AssignedBy             string
	AssignedToDept         string
	StartedAt              string
	PostedAt               string
	AddedToCalendar        bool
	SentToProductionAt     string
	LastUpdated            string
	CreatedAt              string
	UpdatedAt              string
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	// ClientKeys restricts to the given canonical client keys. Nil means no
	// restriction; an empty non-nil slice matches nothing.
	ClientKeys []string
	Status     string
	// Month restricts to tasks whose post date falls in the YYYY-MM month.
	Month string
	// IncludeDeleted also returns soft-deleted tasks.
	IncludeDeleted bool
}

// StatusChange is the stored effect of a task status transition.
type StatusChange struct {
	Key    string
	Status string
	// Stamps; empty fields are left untouched.
	ApprovedAt             string
	ApprovedBy             string
	ApprovedForCalendar    bool
	AssignedToDepartmentAt string
	AssignedBy             string
	AssignedToDept         string
	StartedAt              string
	PostedAt               string
	LastUpdated            string
}

// ReworkChange is the stored effect of sending a task back for rework.
type ReworkChange struct {
	Key        string
	Status     string
	Note       string
	ReworkedBy string
	ReworkedAt string
}

// NotificationRepository defines the secondary port for notifications.
type NotificationRepository interface {
	// Append persists a new notification under a generated key.
	Append(ctx context.Context, n *NotificationRecord) (string, error)

	// ListByRecipient retrieves notifications for an employee, newest first.
	ListByRecipient(ctx context.Context, to string) ([]*NotificationRecord, error)

	// MarkRead stamps a notification as read. A single-field point update.
	MarkRead(ctx context.Context, key, readAt string) error
}

// NotificationRecord represents a notification as stored in persistence.
type NotificationRecord struct {
	Key        string
	To         string // recipient email
	Type       string
	ClientName string
	Title      string
	Message    string
	CreatedAt  string
	Read       bool
	ReadAt     string
	Priority   string
}
